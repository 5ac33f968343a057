package ragdoll

import (
	"github.com/Faultbox/ragdoll/internal/skeleton"
	"github.com/Faultbox/ragdoll/pkg/math"
)

// blendSnap absorbs float error so the fade ends exactly at
// window+duration.
const blendSnap = 1e-6

// BlendFactor is the ragdoll weight elapsed seconds after ragdolling ended:
// 1 through the transition window, then falling linearly to exactly 0 over
// duration.
func BlendFactor(elapsed, window, duration float64) float32 {
	if duration <= 0 {
		if elapsed > window {
			return 0
		}
		return 1
	}
	f := 1 - (elapsed-window)/duration
	if f <= blendSnap {
		return 0
	}
	return math.Clamp01(float32(f))
}

// blendPose pulls every segment except the root from its animated pose
// toward the stored ragdoll pose by f. Only the hips blend position.
func (c *Controller) blendPose(f float32) {
	if f == 0 {
		return
	}
	root := c.reg.Root()
	hips := c.anim.Bone(skeleton.Hips)

	segs := c.reg.Segments()
	for i := range segs {
		s := &segs[i]
		if s.Node == root {
			continue
		}
		if s.Node == hips {
			s.Node.SetPosition(s.Node.Position().Lerp(s.StoredPosition, f))
		}
		s.Node.SetRotation(s.Node.Rotation().Slerp(s.StoredRotation, f))
	}
}
