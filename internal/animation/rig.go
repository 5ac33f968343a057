package animation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/ragdoll/internal/skeleton"
	"github.com/Faultbox/ragdoll/pkg/math"
)

// Rig evaluates clips onto one skeleton. While disabled it leaves the
// transforms alone so physics can own them.
type Rig struct {
	root    *skeleton.Node
	bones   skeleton.BoneMap
	clips   map[string]*Clip
	rest    map[skeleton.BoneID]math.Vec3
	log     *zap.Logger
	enabled bool

	current  *Clip
	clipTime float64
}

// NewRig creates an enabled rig playing initial. The bones' current local
// offsets are taken as the bind pose that every evaluated frame restores.
func NewRig(root *skeleton.Node, bones skeleton.BoneMap, clips []*Clip, initial string, log *zap.Logger) (*Rig, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Rig{
		root:    root,
		bones:   bones,
		clips:   make(map[string]*Clip, len(clips)),
		rest:    make(map[skeleton.BoneID]math.Vec3, len(bones)),
		log:     log,
		enabled: true,
	}
	for id, n := range bones {
		if n != nil {
			r.rest[id] = n.LocalPosition
		}
	}
	for _, c := range clips {
		if err := c.validate(); err != nil {
			return nil, err
		}
		r.clips[c.Name] = c
	}
	for _, c := range clips {
		if c.Next != "" && r.clips[c.Next] == nil {
			return nil, fmt.Errorf("clip %q: next %q: %w", c.Name, c.Next, ErrUnknownClip)
		}
	}

	cur, ok := r.clips[initial]
	if !ok {
		return nil, fmt.Errorf("initial clip %q: %w", initial, ErrUnknownClip)
	}
	r.current = cur
	return r, nil
}

// SetEnabled turns evaluation on or off.
func (r *Rig) SetEnabled(enabled bool) {
	r.enabled = enabled
}

// Enabled reports whether the rig writes transforms.
func (r *Rig) Enabled() bool { return r.enabled }

// Bone returns the node mapped to id, or nil.
func (r *Rig) Bone(id skeleton.BoneID) *skeleton.Node {
	return r.bones[id]
}

// Play restarts playback with the named clip. Unknown names are logged and
// ignored.
func (r *Rig) Play(name string) {
	c, ok := r.clips[name]
	if !ok {
		r.log.Warn("play: unknown clip", zap.String("clip", name))
		return
	}
	r.current = c
	r.clipTime = 0
	r.log.Debug("play", zap.String("clip", name))
}

// Current returns the name of the clip being played.
func (r *Rig) Current() string { return r.current.Name }

// Update advances the current clip by dt seconds and writes the pose.
func (r *Rig) Update(dt float64) {
	if !r.enabled {
		return
	}

	r.clipTime += dt
	if !r.current.Loop && r.current.Next != "" && r.clipTime >= r.current.Duration() {
		over := r.clipTime - r.current.Duration()
		r.current = r.clips[r.current.Next]
		r.clipTime = over
		r.log.Debug("clip finished", zap.String("next", r.current.Name))
	}

	r.apply(r.current.Sample(r.clipTime))
}

func (r *Rig) apply(p Pose) {
	if hips := r.bones[skeleton.Hips]; hips != nil {
		hips.SetPosition(r.root.Position().Add(r.root.Rotation().Rotate(p.Hips)))
	}
	for id, off := range r.rest {
		if id != skeleton.Hips {
			r.bones[id].LocalPosition = off
		}
	}
	for id, q := range p.Rotations {
		if n := r.bones[id]; n != nil {
			n.LocalRotation = q
		}
	}
}
