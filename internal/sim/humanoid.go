package sim

import (
	"fmt"

	"github.com/Faultbox/ragdoll/internal/physics"
	"github.com/Faultbox/ragdoll/internal/skeleton"
	"github.com/Faultbox/ragdoll/pkg/math"
)

// boneSpec places one bone of the demo humanoid relative to its parent.
type boneSpec struct {
	id     skeleton.BoneID
	parent skeleton.BoneID
	offset math.Vec3
	half   math.Vec3 // collider half extents; zero means no body
}

// noParent marks bones attached directly to the character root.
const noParent skeleton.BoneID = -1

// humanoid is a 1.7m figure facing +Z, listed parents first.
var humanoid = []boneSpec{
	{skeleton.Hips, noParent, math.Vec3{Y: 1}, math.Vec3{X: 0.15, Y: 0.1, Z: 0.1}},
	{skeleton.Spine, skeleton.Hips, math.Vec3{Y: 0.15}, math.Vec3{X: 0.14, Y: 0.08, Z: 0.09}},
	{skeleton.Chest, skeleton.Spine, math.Vec3{Y: 0.2}, math.Vec3{X: 0.17, Y: 0.12, Z: 0.1}},
	{skeleton.Head, skeleton.Chest, math.Vec3{Y: 0.3}, math.Vec3{X: 0.1, Y: 0.12, Z: 0.1}},

	{skeleton.LeftUpperArm, skeleton.Chest, math.Vec3{X: -0.2, Y: 0.15}, math.Vec3{X: 0.05, Y: 0.14, Z: 0.05}},
	{skeleton.LeftLowerArm, skeleton.LeftUpperArm, math.Vec3{Y: -0.3}, math.Vec3{X: 0.04, Y: 0.13, Z: 0.04}},
	{skeleton.RightUpperArm, skeleton.Chest, math.Vec3{X: 0.2, Y: 0.15}, math.Vec3{X: 0.05, Y: 0.14, Z: 0.05}},
	{skeleton.RightLowerArm, skeleton.RightUpperArm, math.Vec3{Y: -0.3}, math.Vec3{X: 0.04, Y: 0.13, Z: 0.04}},

	{skeleton.LeftUpperLeg, skeleton.Hips, math.Vec3{X: -0.1, Y: -0.05}, math.Vec3{X: 0.07, Y: 0.2, Z: 0.07}},
	{skeleton.LeftLowerLeg, skeleton.LeftUpperLeg, math.Vec3{Y: -0.45}, math.Vec3{X: 0.06, Y: 0.2, Z: 0.06}},
	{skeleton.LeftFoot, skeleton.LeftLowerLeg, math.Vec3{Y: -0.45}, math.Vec3{X: 0.05, Y: 0.04, Z: 0.1}},
	{skeleton.LeftToes, skeleton.LeftFoot, math.Vec3{Y: -0.05, Z: 0.15}, math.Vec3{}},

	{skeleton.RightUpperLeg, skeleton.Hips, math.Vec3{X: 0.1, Y: -0.05}, math.Vec3{X: 0.07, Y: 0.2, Z: 0.07}},
	{skeleton.RightLowerLeg, skeleton.RightUpperLeg, math.Vec3{Y: -0.45}, math.Vec3{X: 0.06, Y: 0.2, Z: 0.06}},
	{skeleton.RightFoot, skeleton.RightLowerLeg, math.Vec3{Y: -0.45}, math.Vec3{X: 0.05, Y: 0.04, Z: 0.1}},
	{skeleton.RightToes, skeleton.RightFoot, math.Vec3{Y: -0.05, Z: 0.15}, math.Vec3{}},
}

// Character is a humanoid registered with a physics world.
type Character struct {
	Root     *skeleton.Node
	RootBody *physics.Body
	Bones    skeleton.BoneMap
	// Limbs are the bodies below the root, in skeleton order.
	Limbs []*physics.Body
}

// BuildHumanoid creates the demo humanoid at position, adds its bodies and
// colliders to world, and resolves bones by node name. names overrides the
// node name of individual bones; unmapped bones use their BoneID string.
func BuildHumanoid(world *physics.World, position math.Vec3, names map[string]string) (*Character, error) {
	nodeNames := make(map[skeleton.BoneID]string, len(humanoid))
	for _, b := range humanoid {
		nodeNames[b.id] = b.id.String()
	}
	for key, name := range names {
		id, ok := skeleton.ParseBoneID(key)
		if !ok {
			return nil, fmt.Errorf("character bone %q: %w", key, skeleton.ErrMissingBone)
		}
		nodeNames[id] = name
	}

	root := skeleton.NewNode("character", position)
	ch := &Character{Root: root, RootBody: physics.NewBody(root)}
	world.AddBody(ch.RootBody)

	built := make(map[skeleton.BoneID]*skeleton.Node, len(humanoid))
	for _, b := range humanoid {
		parent := root
		if b.parent != noParent {
			parent = built[b.parent]
		}
		n := parent.AddChild(skeleton.NewNode(nodeNames[b.id], b.offset))
		built[b.id] = n

		if b.half == (math.Vec3{}) {
			continue
		}
		body := physics.NewBody(n)
		world.AddBody(body)
		world.AddCollider(physics.Collider{Bounds: physics.BoxAround(math.Vec3{}, b.half), Owner: n})
		ch.Limbs = append(ch.Limbs, body)
	}

	bones, err := skeleton.ResolveBoneMap(root, nodeNames)
	if err != nil {
		return nil, err
	}
	ch.Bones = bones
	return ch, nil
}

// Launch sets every limb moving as one rigid body spinning about the hips:
// linear velocity plus angular velocity w.
func (c *Character) Launch(linear, w math.Vec3) {
	pivot := c.Bones[skeleton.Hips].Position()
	for _, b := range c.Limbs {
		r := b.Node.Position().Sub(pivot)
		b.SetVelocity(linear.Add(w.Cross(r)))
		b.SetAngularVelocity(w)
	}
}
