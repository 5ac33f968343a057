package skeleton

import (
	"errors"
	"fmt"
)

// BoneID identifies a bone by its role, independent of the skeleton's own
// naming.
type BoneID int

const (
	Hips BoneID = iota
	Spine
	Chest
	Head
	LeftUpperArm
	LeftLowerArm
	RightUpperArm
	RightLowerArm
	LeftUpperLeg
	LeftLowerLeg
	LeftFoot
	LeftToes
	RightUpperLeg
	RightLowerLeg
	RightFoot
	RightToes

	boneCount
)

var boneNames = [boneCount]string{
	Hips:          "hips",
	Spine:         "spine",
	Chest:         "chest",
	Head:          "head",
	LeftUpperArm:  "left_upper_arm",
	LeftLowerArm:  "left_lower_arm",
	RightUpperArm: "right_upper_arm",
	RightLowerArm: "right_lower_arm",
	LeftUpperLeg:  "left_upper_leg",
	LeftLowerLeg:  "left_lower_leg",
	LeftFoot:      "left_foot",
	LeftToes:      "left_toes",
	RightUpperLeg: "right_upper_leg",
	RightLowerLeg: "right_lower_leg",
	RightFoot:     "right_foot",
	RightToes:     "right_toes",
}

func (b BoneID) String() string {
	if b < 0 || b >= boneCount {
		return fmt.Sprintf("BoneID(%d)", int(b))
	}
	return boneNames[b]
}

// ParseBoneID maps a snake_case bone name back to its BoneID.
func ParseBoneID(name string) (BoneID, bool) {
	for i, n := range boneNames {
		if n == name {
			return BoneID(i), true
		}
	}
	return 0, false
}

// RequiredBones are the bones the ragdoll recovery reads every cycle.
var RequiredBones = []BoneID{Hips, Head, LeftFoot, RightFoot, LeftToes, RightToes}

// ErrMissingBone is returned when a bone mapping lacks a required bone or
// points outside the skeleton.
var ErrMissingBone = errors.New("missing bone")

// BoneMap maps semantic bones to nodes of one skeleton.
type BoneMap map[BoneID]*Node

// ResolveBoneMap looks up each named bone in the subtree under root.
// names maps BoneID to the skeleton's native node name.
func ResolveBoneMap(root *Node, names map[BoneID]string) (BoneMap, error) {
	bones := make(BoneMap, len(names))
	for id, name := range names {
		n := root.Find(name)
		if n == nil {
			return nil, fmt.Errorf("%w: %s (node %q not found)", ErrMissingBone, id, name)
		}
		bones[id] = n
	}
	return bones, nil
}

// Validate checks that every id is mapped to a node under root.
func (m BoneMap) Validate(root *Node, ids ...BoneID) error {
	for _, id := range ids {
		n, ok := m[id]
		if !ok || n == nil {
			return fmt.Errorf("%w: %s", ErrMissingBone, id)
		}
		if !n.IsChildOf(root) {
			return fmt.Errorf("%w: %s is not part of skeleton %q", ErrMissingBone, id, root.Name)
		}
	}
	return nil
}
