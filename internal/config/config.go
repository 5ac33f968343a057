// Package config handles simulator configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/ragdoll/internal/ragdoll"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulator settings.
type Config struct {
	Ragdoll    RagdollConfig    `yaml:"ragdoll"`
	Simulation SimulationConfig `yaml:"simulation"`
	Character  CharacterConfig  `yaml:"character"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// RagdollConfig tunes the recovery blend.
type RagdollConfig struct {
	BlendDuration    time.Duration `yaml:"blend_duration"`
	TransitionWindow time.Duration `yaml:"transition_window"`
	ProbeRadius      float32       `yaml:"probe_radius"`
	ProbeDistance    float32       `yaml:"probe_distance"`
	ProbeDrop        float32       `yaml:"probe_drop"`
	BackClip         string        `yaml:"back_clip"`
	FrontClip        string        `yaml:"front_clip"`
}

// SimulationConfig drives the headless frame loop.
type SimulationConfig struct {
	FrameRate int           `yaml:"frame_rate"`
	Duration  time.Duration `yaml:"duration"`
	Realtime  bool          `yaml:"realtime"`
	// Knockback is the launch velocity applied to the pelvis on ragdoll.
	Knockback [3]float32     `yaml:"knockback"`
	Spin      [3]float32     `yaml:"spin"`
	Schedule  []RagdollEvent `yaml:"schedule"`
}

// RagdollEvent requests a ragdoll toggle at a point in simulation time.
type RagdollEvent struct {
	At        time.Duration `yaml:"at"`
	Ragdolled bool          `yaml:"ragdolled"`
}

// CharacterConfig maps semantic bones to the character's node names.
// Keys are bone ids such as "hips" or "left_toes".
type CharacterConfig struct {
	Bones map[string]string `yaml:"bones"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Ragdoll: RagdollConfig{
			BlendDuration:    300 * time.Millisecond,
			TransitionWindow: 50 * time.Millisecond,
			ProbeRadius:      0.5,
			ProbeDistance:    5,
			ProbeDrop:        0.2,
			BackClip:         ragdoll.ClipGetUpBack,
			FrontClip:        ragdoll.ClipGetUpFront,
		},
		Simulation: SimulationConfig{
			FrameRate: 60,
			Duration:  6 * time.Second,
			Knockback: [3]float32{0, 2, -3},
			Spin:      [3]float32{-2.2, 0, 0},
			Schedule: []RagdollEvent{
				{At: 1 * time.Second, Ragdolled: true},
				{At: 3 * time.Second, Ragdolled: false},
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := c.RagdollSettings(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Simulation.FrameRate <= 0 {
		return fmt.Errorf("%w: frame_rate must be positive, got %d", ErrInvalid, c.Simulation.FrameRate)
	}
	if c.Simulation.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalid, c.Simulation.Duration)
	}
	for i, ev := range c.Simulation.Schedule {
		if ev.At < 0 {
			return fmt.Errorf("%w: schedule[%d] at %v is negative", ErrInvalid, i, ev.At)
		}
	}
	return nil
}

// RagdollSettings converts the ragdoll section into controller settings.
func (c *Config) RagdollSettings() (ragdoll.Settings, error) {
	s := ragdoll.Settings{
		BlendDuration:    c.Ragdoll.BlendDuration.Seconds(),
		TransitionWindow: c.Ragdoll.TransitionWindow.Seconds(),
		ProbeRadius:      c.Ragdoll.ProbeRadius,
		ProbeDistance:    c.Ragdoll.ProbeDistance,
		ProbeDrop:        c.Ragdoll.ProbeDrop,
		BackClip:         c.Ragdoll.BackClip,
		FrontClip:        c.Ragdoll.FrontClip,
	}
	return s, s.Validate()
}
