package ragdoll

import (
	"github.com/Faultbox/ragdoll/internal/skeleton"
	"github.com/Faultbox/ragdoll/pkg/math"
)

// alignRoot moves and yaws the character root so the animated pose lines up
// with where the ragdoll came to rest.
func (c *Controller) alignRoot() {
	root := c.reg.Root()

	offset := c.landmarks.Hips.Sub(c.anim.Bone(skeleton.Hips).Position())
	pos := root.Position().Add(offset)
	pos.Y = c.groundHeight(pos)
	root.SetPosition(pos)

	ragdolled := c.landmarks.Head.Sub(c.landmarks.Feet).Flatten().Normalize()
	feet := math.Midpoint(
		c.anim.Bone(skeleton.LeftFoot).Position(),
		c.anim.Bone(skeleton.RightFoot).Position(),
	)
	animated := c.anim.Bone(skeleton.Head).Position().Sub(feet).Flatten().Normalize()

	// A body standing straight up has no ground-plane heading.
	if ragdolled == (math.Vec3{}) || animated == (math.Vec3{}) {
		return
	}
	yaw := math.QuatFromTo(animated, ragdolled)
	root.SetRotation(yaw.Mul(root.Rotation()))
}

// groundHeight returns the highest hit below p that is not part of the
// character, or 0 when nothing is hit.
func (c *Controller) groundHeight(p math.Vec3) float32 {
	root := c.reg.Root()
	var (
		height float32
		found  bool
	)
	for _, hit := range c.phys.RaycastAll(p, math.Down) {
		if hit.Node != nil && hit.Node.IsChildOf(root) {
			continue
		}
		if !found || hit.Point.Y > height {
			height, found = hit.Point.Y, true
		}
	}
	return height
}
