package ragdoll

import (
	"errors"
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/ragdoll/pkg/math"
)

// Clip names played when recovering.
const (
	ClipGetUpBack  = "Get Up Back"
	ClipGetUpFront = "Get Up Front"
)

// ErrInvalidSettings is returned for out-of-range tuning values.
var ErrInvalidSettings = errors.New("invalid ragdoll settings")

// Settings tunes the recovery. Times are in seconds.
type Settings struct {
	// BlendDuration is how long the ragdoll pose fades out.
	BlendDuration float64
	// TransitionWindow is the delay before the get-up clip starts moving
	// the body; the root is re-aligned every frame inside it.
	TransitionWindow float64

	// Recovery probe: a sphere swept from behind the pelvis along its
	// forward axis, tilted down by ProbeDrop.
	ProbeRadius   float32
	ProbeDistance float32
	ProbeDrop     float32

	BackClip  string
	FrontClip string
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		BlendDuration:    0.3,
		TransitionWindow: 0.05,
		ProbeRadius:      0.5,
		ProbeDistance:    5,
		ProbeDrop:        0.2,
		BackClip:         ClipGetUpBack,
		FrontClip:        ClipGetUpFront,
	}
}

// Validate checks ranges.
func (s Settings) Validate() error {
	switch {
	case !finite(s.BlendDuration, s.TransitionWindow,
		float64(s.ProbeRadius), float64(s.ProbeDistance), float64(s.ProbeDrop)):
		return fmt.Errorf("%w: non-finite value in %+v", ErrInvalidSettings, s)
	case s.BlendDuration <= 0:
		return fmt.Errorf("%w: blend duration %v must be positive", ErrInvalidSettings, s.BlendDuration)
	case s.TransitionWindow < 0:
		return fmt.Errorf("%w: transition window %v is negative", ErrInvalidSettings, s.TransitionWindow)
	case s.ProbeRadius < 0 || s.ProbeDistance <= 0:
		return fmt.Errorf("%w: probe radius %v / distance %v", ErrInvalidSettings, s.ProbeRadius, s.ProbeDistance)
	case s.BackClip == "" || s.FrontClip == "":
		return fmt.Errorf("%w: recovery clip names must be set", ErrInvalidSettings)
	}
	return nil
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if gomath.IsNaN(x) || gomath.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// TransitionFunc observes state changes. at is the clock time.
type TransitionFunc func(from, to State, at float64)

// Option configures a Controller.
type Option func(*Controller)

// WithSettings replaces the default tuning.
func WithSettings(s Settings) Option {
	return func(c *Controller) { c.settings = s }
}

// WithLogger sets the logger. Ignored transitions are logged at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithFacing overrides how the pelvis forward axis is read for the
// recovery probe.
func WithFacing(fn func() math.Vec3) Option {
	return func(c *Controller) { c.facing = fn }
}

// OnTransition registers a callback run after every state change.
func OnTransition(fn TransitionFunc) Option {
	return func(c *Controller) { c.onTransition = append(c.onTransition, fn) }
}
