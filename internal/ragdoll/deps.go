package ragdoll

import (
	"github.com/Faultbox/ragdoll/internal/physics"
	"github.com/Faultbox/ragdoll/internal/skeleton"
	"github.com/Faultbox/ragdoll/pkg/math"
)

// Animator is the animation system driving the skeleton.
type Animator interface {
	SetEnabled(enabled bool)
	Bone(id skeleton.BoneID) *skeleton.Node
	Play(clip string)
}

// Physics answers environment queries.
type Physics interface {
	SphereCast(origin math.Vec3, radius float32, dir math.Vec3, maxDist float32) bool
	RaycastAll(origin, dir math.Vec3) []physics.Hit
}

// RootBody is the rigid body moving the character as a whole.
type RootBody interface {
	SetVelocity(v math.Vec3)
	SetKinematic(kinematic bool)
	SetUseGravity(on bool)
}
