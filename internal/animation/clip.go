// Package animation drives a skeleton from keyframed clips.
package animation

import (
	"errors"
	"fmt"

	"github.com/Faultbox/ragdoll/internal/skeleton"
	"github.com/Faultbox/ragdoll/pkg/math"
)

// DefaultFrameInterval is the keyframe spacing used when a clip sets none.
const DefaultFrameInterval = 0.15

// ErrUnknownClip is returned when a clip name is not in the library.
var ErrUnknownClip = errors.New("unknown clip")

// Pose is one keyframe: local bone rotations plus the hips offset from the
// skeleton root.
type Pose struct {
	Hips      math.Vec3
	Rotations map[skeleton.BoneID]math.Quat
}

// Clip is a named keyframe sequence. A clip that does not loop hands over
// to Next when it ends, or holds its last frame if Next is empty.
type Clip struct {
	Name     string
	Frames   []Pose
	Interval float64 // seconds between keyframes
	Loop     bool
	Next     string
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if len(c.Frames) < 2 {
		return 0
	}
	return float64(len(c.Frames)-1) * c.interval()
}

func (c *Clip) interval() float64 {
	if c.Interval <= 0 {
		return DefaultFrameInterval
	}
	return c.Interval
}

// Sample returns the interpolated pose at time t seconds into the clip.
func (c *Clip) Sample(t float64) Pose {
	if len(c.Frames) == 1 || t <= 0 {
		return c.Frames[0]
	}
	if dur := c.Duration(); t >= dur {
		if !c.Loop {
			return c.Frames[len(c.Frames)-1]
		}
		t = mod(t, dur)
	}

	pos := t / c.interval()
	i := int(pos)
	if i >= len(c.Frames)-1 {
		return c.Frames[len(c.Frames)-1]
	}
	return blendPoses(c.Frames[i], c.Frames[i+1], float32(pos-float64(i)))
}

func mod(t, d float64) float64 {
	for t >= d {
		t -= d
	}
	return t
}

func blendPoses(a, b Pose, t float32) Pose {
	out := Pose{
		Hips:      a.Hips.Lerp(b.Hips, t),
		Rotations: make(map[skeleton.BoneID]math.Quat, len(a.Rotations)),
	}
	for id, qa := range a.Rotations {
		if qb, ok := b.Rotations[id]; ok {
			out.Rotations[id] = qa.Slerp(qb, t)
		} else {
			out.Rotations[id] = qa
		}
	}
	for id, qb := range b.Rotations {
		if _, ok := out.Rotations[id]; !ok {
			out.Rotations[id] = qb
		}
	}
	return out
}

func (c *Clip) validate() error {
	if c.Name == "" {
		return fmt.Errorf("clip without name")
	}
	if len(c.Frames) == 0 {
		return fmt.Errorf("clip %q has no frames", c.Name)
	}
	return nil
}
