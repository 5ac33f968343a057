// Package sim runs a ragdoll character headlessly at a fixed frame rate.
//
// Each frame advances the clock, fires due ragdoll requests, evaluates the
// animation, runs the ragdoll recovery and finally steps physics.
package sim

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/ragdoll/internal/animation"
	"github.com/Faultbox/ragdoll/internal/clock"
	"github.com/Faultbox/ragdoll/internal/config"
	"github.com/Faultbox/ragdoll/internal/physics"
	"github.com/Faultbox/ragdoll/internal/ragdoll"
	"github.com/Faultbox/ragdoll/internal/skeleton"
	"github.com/Faultbox/ragdoll/pkg/math"
)

// Transition records one state change of the controller.
type Transition struct {
	From, To ragdoll.State
	At       float64
}

// Report summarizes a run.
type Report struct {
	Frames      uint64
	Transitions []Transition
	Final       ragdoll.State
}

// Simulation owns one character, its world and the frame clock.
type Simulation struct {
	cfg   config.SimulationConfig
	log   *zap.Logger
	dt    float64
	clock *clock.Manual

	World     *physics.World
	Character *Character
	Rig       *animation.Rig
	Ragdoll   *ragdoll.Controller

	schedule    []config.RagdollEvent
	next        int
	transitions []Transition
}

// New builds the world, the demo humanoid and its ragdoll controller.
func New(cfg *config.Config, log *zap.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	settings, err := cfg.RagdollSettings()
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:      cfg.Simulation,
		log:      log,
		dt:       1 / float64(cfg.Simulation.FrameRate),
		clock:    clock.NewManual(0),
		World:    physics.NewWorld(),
		schedule: slices.Clone(cfg.Simulation.Schedule),
	}
	slices.SortStableFunc(s.schedule, func(a, b config.RagdollEvent) int {
		return cmp.Compare(a.At, b.At)
	})

	s.World.AddStatic(physics.NewAABB(math.Vec3{X: -50, Y: -1, Z: -50}, math.Vec3{X: 50, Z: 50}))

	s.Character, err = BuildHumanoid(s.World, math.Vec3{}, cfg.Character.Bones)
	if err != nil {
		return nil, fmt.Errorf("build character: %w", err)
	}
	reg, err := skeleton.NewRegistry(s.Character.Root, s.Character.Bones)
	if err != nil {
		return nil, fmt.Errorf("register skeleton: %w", err)
	}

	clips := DemoClips(s.Character.Bones, settings.BackClip, settings.FrontClip)
	s.Rig, err = animation.NewRig(s.Character.Root, s.Character.Bones, clips, ClipIdle, log.Named("anim"))
	if err != nil {
		return nil, fmt.Errorf("animation rig: %w", err)
	}

	s.Ragdoll, err = ragdoll.New(reg, s.Rig, s.World, s.Character.RootBody, s.clock,
		ragdoll.WithSettings(settings),
		ragdoll.WithLogger(log.Named("ragdoll")),
		ragdoll.OnTransition(s.onTransition),
	)
	if err != nil {
		return nil, fmt.Errorf("ragdoll controller: %w", err)
	}

	// Pose the character before the first physics step.
	s.Rig.Update(0)
	return s, nil
}

func (s *Simulation) onTransition(from, to ragdoll.State, at float64) {
	s.transitions = append(s.transitions, Transition{From: from, To: to, At: at})
	if to == ragdoll.Ragdolled {
		k, w := s.cfg.Knockback, s.cfg.Spin
		s.Character.Launch(math.Vec3{X: k[0], Y: k[1], Z: k[2]}, math.Vec3{X: w[0], Y: w[1], Z: w[2]})
	}
}

// Now returns the simulation time in seconds.
func (s *Simulation) Now() float64 { return s.clock.Now() }

// Frame returns the number of completed frames.
func (s *Simulation) Frame() uint64 { return s.clock.Frame() }

// Transitions returns the state changes so far.
func (s *Simulation) Transitions() []Transition { return s.transitions }

// Step runs one frame.
func (s *Simulation) Step() {
	s.clock.Advance(s.dt)
	now := s.clock.Now()

	for s.next < len(s.schedule) && s.schedule[s.next].At.Seconds() <= now {
		ev := s.schedule[s.next]
		s.next++
		s.log.Debug("scheduled request", zap.Bool("ragdolled", ev.Ragdolled), zap.Duration("at", ev.At))
		s.Ragdoll.SetRagdolled(ev.Ragdolled)
	}

	s.Rig.Update(s.dt)
	s.Ragdoll.LateUpdate()
	s.World.Step(float32(s.dt))

	if s.Ragdoll.State() == ragdoll.BlendToAnim {
		s.log.Debug("blending",
			zap.Uint64("frame", s.clock.Frame()),
			zap.Float32("factor", s.Ragdoll.BlendFactor()),
			zap.String("clip", s.Rig.Current()))
	}
}

// Apply takes new ragdoll tuning from a reloaded config. Only the blend
// duration can change while running.
func (s *Simulation) Apply(cfg *config.Config) error {
	blend := cfg.Ragdoll.BlendDuration
	if err := s.Ragdoll.SetBlendDuration(blend.Seconds()); err != nil {
		return err
	}
	s.log.Info("blend duration updated", zap.Duration("blend", blend))
	return nil
}

// Run steps frames until the configured duration has elapsed or ctx is
// done. Configs received on updates are applied between frames. With
// realtime set, frames are paced to the wall clock.
func (s *Simulation) Run(ctx context.Context, updates <-chan *config.Config) (Report, error) {
	var tick <-chan time.Time
	if s.cfg.Realtime {
		ticker := time.NewTicker(time.Duration(s.dt * float64(time.Second)))
		defer ticker.Stop()
		tick = ticker.C
	}

	end := s.cfg.Duration.Seconds()
	s.log.Info("simulation started",
		zap.Int("frame_rate", s.cfg.FrameRate),
		zap.Duration("duration", s.cfg.Duration),
		zap.Int("scheduled", len(s.schedule)))

	for s.clock.Now() < end {
		select {
		case <-ctx.Done():
			return s.report(), ctx.Err()
		case cfg, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			if err := s.Apply(cfg); err != nil {
				s.log.Warn("config update rejected", zap.Error(err))
			}
			continue
		default:
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return s.report(), ctx.Err()
			case <-tick:
			}
		}
		s.Step()
	}

	r := s.report()
	s.log.Info("simulation finished",
		zap.Uint64("frames", r.Frames),
		zap.Int("transitions", len(r.Transitions)),
		zap.Stringer("state", r.Final))
	return r, nil
}

func (s *Simulation) report() Report {
	return Report{
		Frames:      s.clock.Frame(),
		Transitions: slices.Clone(s.transitions),
		Final:       s.Ragdoll.State(),
	}
}
