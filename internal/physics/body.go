// Package physics provides rigid body state and a small in-memory 3D world
// answering ray and sphere queries against box colliders.
package physics

import (
	"github.com/Faultbox/ragdoll/internal/skeleton"
	"github.com/Faultbox/ragdoll/pkg/math"
)

// Body is a rigid body driving one skeleton node while dynamic.
type Body struct {
	Node *skeleton.Node

	kinematic       bool
	useGravity      bool
	velocity        math.Vec3
	angularVelocity math.Vec3
}

// NewBody creates a kinematic, gravity-enabled body for node and attaches it.
func NewBody(node *skeleton.Node) *Body {
	b := &Body{Node: node, kinematic: true, useGravity: true}
	node.Body = b
	return b
}

// SetKinematic switches between externally driven (true) and simulated.
func (b *Body) SetKinematic(kinematic bool) { b.kinematic = kinematic }

// Kinematic reports whether the body is externally driven.
func (b *Body) Kinematic() bool { return b.kinematic }

// SetUseGravity toggles gravity for the body.
func (b *Body) SetUseGravity(on bool) { b.useGravity = on }

// UseGravity reports whether gravity applies.
func (b *Body) UseGravity() bool { return b.useGravity }

// SetVelocity sets the linear velocity.
func (b *Body) SetVelocity(v math.Vec3) { b.velocity = v }

// Velocity returns the linear velocity.
func (b *Body) Velocity() math.Vec3 { return b.velocity }

// SetAngularVelocity sets the angular velocity in radians per second.
func (b *Body) SetAngularVelocity(w math.Vec3) { b.angularVelocity = w }

// AngularVelocity returns the angular velocity.
func (b *Body) AngularVelocity() math.Vec3 { return b.angularVelocity }
