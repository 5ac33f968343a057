// Package clock provides the simulation time source sampled once per frame.
package clock

// Clock returns the simulation time in seconds. Values never decrease.
type Clock interface {
	Now() float64
}

// Manual is a clock advanced explicitly by the frame loop.
type Manual struct {
	now   float64
	frame uint64
}

// NewManual creates a clock starting at start seconds.
func NewManual(start float64) *Manual {
	return &Manual{now: start}
}

// Now returns the current time.
func (m *Manual) Now() float64 { return m.now }

// Frame returns how many times the clock has been advanced.
func (m *Manual) Frame() uint64 { return m.frame }

// Advance moves time forward by dt seconds. Negative steps are ignored.
func (m *Manual) Advance(dt float64) {
	if dt < 0 {
		return
	}
	m.now += dt
	m.frame++
}

// Set jumps to t if it is not in the past.
func (m *Manual) Set(t float64) {
	if t >= m.now {
		m.now = t
	}
}
