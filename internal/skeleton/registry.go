package skeleton

import (
	"fmt"

	"github.com/Faultbox/ragdoll/pkg/math"
)

// Segment is one physics-bearing node plus the pose captured when ragdolling
// ended. The node is borrowed from the skeleton.
type Segment struct {
	Node           *Node
	StoredPosition math.Vec3
	StoredRotation math.Quat
}

// Registry holds the segments of one skeleton in depth-first order.
type Registry struct {
	root     *Node
	bones    BoneMap
	segments []Segment
}

// NewRegistry enumerates every node under root that owns a body. bones must
// map all RequiredBones into the tree and the hips must carry a body.
func NewRegistry(root *Node, bones BoneMap) (*Registry, error) {
	if root == nil {
		return nil, fmt.Errorf("skeleton: nil root")
	}
	if err := bones.Validate(root, RequiredBones...); err != nil {
		return nil, err
	}
	if bones[Hips].Body == nil {
		return nil, fmt.Errorf("%w: %s has no physics body", ErrMissingBone, Hips)
	}

	r := &Registry{root: root, bones: bones}
	root.Walk(func(n *Node) {
		if n.Body != nil {
			r.segments = append(r.segments, Segment{
				Node:           n,
				StoredPosition: n.Position(),
				StoredRotation: n.Rotation(),
			})
		}
	})
	return r, nil
}

// Root returns the skeleton root.
func (r *Registry) Root() *Node { return r.root }

// Bones returns the semantic bone mapping.
func (r *Registry) Bones() BoneMap { return r.bones }

// Len returns the number of segments.
func (r *Registry) Len() int { return len(r.segments) }

// Segments returns the segments. Callers may update stored poses in place.
func (r *Registry) Segments() []Segment { return r.segments }

// Snapshot stores the current world pose of every segment.
func (r *Registry) Snapshot() {
	for i := range r.segments {
		s := &r.segments[i]
		s.StoredPosition = s.Node.Position()
		s.StoredRotation = s.Node.Rotation()
	}
}

// SetKinematic applies the flag to every segment body.
func (r *Registry) SetKinematic(kinematic bool) {
	for _, s := range r.segments {
		s.Node.Body.SetKinematic(kinematic)
	}
}
