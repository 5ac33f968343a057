// Package ragdoll switches a character between animation, physics and a
// blended recovery that hands control back to animation.
//
// Transform ownership is partitioned by state: the animation system writes
// while Animated, physics while Ragdolled, and the controller's LateUpdate
// while BlendToAnim. LateUpdate must run after the frame's animation update
// and before the physics step.
package ragdoll

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/ragdoll/internal/clock"
	"github.com/Faultbox/ragdoll/internal/skeleton"
	"github.com/Faultbox/ragdoll/pkg/math"
)

// ErrNilDependency is returned by New when a collaborator is missing.
var ErrNilDependency = errors.New("nil dependency")

// neverEnded is the transition time before the first recovery.
const neverEnded = -100.0

// Landmarks are the ragdoll pose reference points captured when ragdolling
// ends.
type Landmarks struct {
	Hips math.Vec3
	Head math.Vec3
	Feet math.Vec3 // mean of the toes
}

// Controller is the ragdoll state machine for one character.
type Controller struct {
	reg      *skeleton.Registry
	anim     Animator
	phys     Physics
	rootBody RootBody
	clk      clock.Clock

	settings     Settings
	log          *zap.Logger
	facing       func() math.Vec3
	onTransition []TransitionFunc

	state     State
	endTime   float64
	landmarks Landmarks
}

// New creates a controller in the Animated state and makes every segment
// kinematic. The animator must map every skeleton.RequiredBones entry to a
// node of the registry's skeleton.
func New(reg *skeleton.Registry, anim Animator, phys Physics, root RootBody, clk clock.Clock, opts ...Option) (*Controller, error) {
	switch {
	case reg == nil:
		return nil, fmt.Errorf("%w: registry", ErrNilDependency)
	case anim == nil:
		return nil, fmt.Errorf("%w: animator", ErrNilDependency)
	case phys == nil:
		return nil, fmt.Errorf("%w: physics", ErrNilDependency)
	case root == nil:
		return nil, fmt.Errorf("%w: root body", ErrNilDependency)
	case clk == nil:
		return nil, fmt.Errorf("%w: clock", ErrNilDependency)
	}

	c := &Controller{
		reg:      reg,
		anim:     anim,
		phys:     phys,
		rootBody: root,
		clk:      clk,
		settings: DefaultSettings(),
		log:      zap.NewNop(),
		state:    Animated,
		endTime:  neverEnded,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.settings.Validate(); err != nil {
		return nil, err
	}

	animBones := make(skeleton.BoneMap, len(skeleton.RequiredBones))
	for _, id := range skeleton.RequiredBones {
		animBones[id] = anim.Bone(id)
	}
	if err := animBones.Validate(reg.Root(), skeleton.RequiredBones...); err != nil {
		return nil, fmt.Errorf("animator bone mapping: %w", err)
	}

	if c.facing == nil {
		c.facing = c.pelvisForward
	}

	c.setKinematic(true)
	c.log.Debug("ragdoll controller ready",
		zap.Int("segments", reg.Len()),
		zap.Float64("blend_duration", c.settings.BlendDuration))
	return c, nil
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Ragdolled reports whether the character is not fully animated.
func (c *Controller) Ragdolled() bool { return c.state != Animated }

// TransitionTime returns the clock time at which ragdolling last ended.
func (c *Controller) TransitionTime() float64 { return c.endTime }

// Landmarks returns the reference points captured at the last recovery.
func (c *Controller) Landmarks() Landmarks { return c.landmarks }

// Settings returns the active tuning.
func (c *Controller) Settings() Settings { return c.settings }

// SetBlendDuration changes the fade length. It takes effect on the next
// frame, including a blend already in progress.
func (c *Controller) SetBlendDuration(seconds float64) error {
	s := c.settings
	s.BlendDuration = seconds
	if err := s.Validate(); err != nil {
		return err
	}
	c.settings = s
	return nil
}

// SetRagdolled requests physics (true) or a return to animation (false).
// Requests that do not match the current state are ignored.
func (c *Controller) SetRagdolled(ragdolled bool) {
	switch {
	case ragdolled && c.state == Animated:
		c.enterRagdoll()
	case !ragdolled && c.state == Ragdolled:
		c.enterBlend()
	default:
		c.log.Debug("ragdoll request ignored",
			zap.Bool("ragdolled", ragdolled),
			zap.Stringer("state", c.state))
	}
}

func (c *Controller) enterRagdoll() {
	c.setKinematic(false)
	c.anim.SetEnabled(false)
	c.transition(Ragdolled)
}

func (c *Controller) enterBlend() {
	// Freeze the bodies where they landed and capture the pose before the
	// animator gets a chance to write.
	c.setKinematic(true)
	c.endTime = c.clk.Now()
	c.reg.Snapshot()
	c.landmarks = Landmarks{
		Hips: c.anim.Bone(skeleton.Hips).Position(),
		Head: c.anim.Bone(skeleton.Head).Position(),
		Feet: math.Midpoint(
			c.anim.Bone(skeleton.LeftToes).Position(),
			c.anim.Bone(skeleton.RightToes).Position(),
		),
	}

	c.anim.SetEnabled(true)
	clip := c.recoveryClip()
	c.anim.Play(clip)
	c.log.Debug("recovering", zap.String("clip", clip), zap.Float64("at", c.endTime))
	c.transition(BlendToAnim)
}

// recoveryClip sweeps a sphere along the pelvis forward axis. If it hits,
// the character lies face down.
func (c *Controller) recoveryClip() string {
	fwd := c.facing()
	origin := c.anim.Bone(skeleton.Hips).Position().Sub(fwd)
	dir := fwd.Sub(math.Up.Scale(c.settings.ProbeDrop))
	if c.phys.SphereCast(origin, c.settings.ProbeRadius, dir, c.settings.ProbeDistance) {
		return c.settings.FrontClip
	}
	return c.settings.BackClip
}

func (c *Controller) pelvisForward() math.Vec3 {
	return c.anim.Bone(skeleton.Hips).Rotation().Rotate(math.Forward)
}

// LateUpdate runs the recovery for the current frame. It is a no-op unless
// the state is BlendToAnim.
func (c *Controller) LateUpdate() {
	if c.state != BlendToAnim {
		return
	}

	elapsed := c.clk.Now() - c.endTime
	if elapsed <= c.settings.TransitionWindow {
		c.alignRoot()
	}

	f := BlendFactor(elapsed, c.settings.TransitionWindow, c.settings.BlendDuration)
	c.blendPose(f)

	c.rootBody.SetVelocity(math.Vec3{})
	c.rootBody.SetKinematic(false)
	c.rootBody.SetUseGravity(true)

	if f == 0 {
		c.transition(Animated)
	}
}

// BlendFactor returns the current ragdoll weight, 1 while no recovery is
// in progress.
func (c *Controller) BlendFactor() float32 {
	if c.state != BlendToAnim {
		return 1
	}
	return BlendFactor(c.clk.Now()-c.endTime, c.settings.TransitionWindow, c.settings.BlendDuration)
}

func (c *Controller) setKinematic(kinematic bool) {
	c.reg.SetKinematic(kinematic)
}

func (c *Controller) transition(to State) {
	from := c.state
	if to != from.next() {
		c.log.DPanic("illegal ragdoll transition", zap.Stringer("from", from), zap.Stringer("to", to))
		return
	}
	c.state = to
	at := c.clk.Now()
	c.log.Info("ragdoll state", zap.Stringer("from", from), zap.Stringer("to", to), zap.Float64("at", at))
	for _, fn := range c.onTransition {
		fn(from, to, at)
	}
}
