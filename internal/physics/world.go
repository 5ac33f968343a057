package physics

import (
	"slices"

	"github.com/Faultbox/ragdoll/internal/skeleton"
	"github.com/Faultbox/ragdoll/pkg/math"
)

// DefaultGravity is Earth gravity along -Y.
var DefaultGravity = math.Vec3{Y: -9.81}

// Collider is a box in the world. A collider with an Owner is attached to
// that node: Bounds is relative to the owner's position and the box is
// treated as dynamic geometry.
type Collider struct {
	Bounds AABB
	Owner  *skeleton.Node
}

// WorldBounds returns the collider box in world space.
func (c Collider) WorldBounds() AABB {
	if c.Owner == nil {
		return c.Bounds
	}
	return c.Bounds.Translate(c.Owner.Position())
}

// Static reports whether the collider is fixed environment geometry.
func (c Collider) Static() bool { return c.Owner == nil }

// Hit is one ray intersection.
type Hit struct {
	Point    math.Vec3
	Distance float32
	// Node is the skeleton node owning the collider, nil for static geometry.
	Node *skeleton.Node
}

// World holds colliders and simulated bodies.
type World struct {
	Gravity math.Vec3

	colliders []Collider
	bodies    []*Body
}

// NewWorld creates an empty world with default gravity.
func NewWorld() *World {
	return &World{Gravity: DefaultGravity}
}

// AddStatic adds fixed environment geometry.
func (w *World) AddStatic(box AABB) {
	w.colliders = append(w.colliders, Collider{Bounds: box})
}

// AddCollider adds a collider, static or attached.
func (w *World) AddCollider(c Collider) {
	w.colliders = append(w.colliders, c)
}

// AddBody registers a body for simulation. Bodies are stepped in insertion
// order, so parents must be added before their children.
func (w *World) AddBody(b *Body) {
	w.bodies = append(w.bodies, b)
}

// Bodies returns the registered bodies.
func (w *World) Bodies() []*Body { return w.bodies }

// RaycastAll returns every collider the ray enters, nearest first. The ray
// is unbounded. Colliders behind the origin or containing it are skipped.
func (w *World) RaycastAll(origin, dir math.Vec3) []Hit {
	ray := NewRay(origin, dir)
	var hits []Hit
	for _, c := range w.colliders {
		tmin, _, ok := ray.Intersect(c.WorldBounds())
		if !ok || tmin < 0 {
			continue
		}
		hits = append(hits, Hit{Point: ray.At(tmin), Distance: tmin, Node: c.Owner})
	}
	slices.SortFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return hits
}

// SphereCast sweeps a sphere along dir and reports whether it touches static
// geometry within maxDist. Colliders already overlapping the sphere at the
// origin are ignored.
func (w *World) SphereCast(origin math.Vec3, radius float32, dir math.Vec3, maxDist float32) bool {
	ray := NewRay(origin, dir)
	for _, c := range w.colliders {
		if !c.Static() {
			continue
		}
		tmin, _, ok := ray.Intersect(c.WorldBounds().Expand(radius))
		if ok && tmin >= 0 && tmin <= maxDist {
			return true
		}
	}
	return false
}

// GroundHeight returns the top of the highest static collider containing
// p horizontally and lying at or below p, and whether one exists.
func (w *World) GroundHeight(p math.Vec3) (float32, bool) {
	var (
		best  float32
		found bool
	)
	for _, c := range w.colliders {
		if !c.Static() {
			continue
		}
		b := c.WorldBounds()
		if p.X < b.Min.X || p.X > b.Max.X || p.Z < b.Min.Z || p.Z > b.Max.Z {
			continue
		}
		if b.Min.Y > p.Y {
			continue
		}
		if !found || b.Max.Y > best {
			best, found = b.Max.Y, true
		}
	}
	return best, found
}

type bodyTarget struct {
	pos math.Vec3
	rot math.Quat
}

// Step advances every dynamic body by dt seconds. Bodies that sink into
// static geometry are pushed to its surface and come to rest.
func (w *World) Step(dt float32) {
	targets := make([]bodyTarget, len(w.bodies))
	for i, b := range w.bodies {
		pos, rot := b.Node.Position(), b.Node.Rotation()
		targets[i] = bodyTarget{pos: pos, rot: rot}
		if b.kinematic {
			continue
		}

		if b.useGravity {
			b.velocity = b.velocity.Add(w.Gravity.Scale(dt))
		}
		pos = pos.Add(b.velocity.Scale(dt))
		if speed := b.angularVelocity.Length(); speed > 0 {
			spin := math.QuatFromAxisAngle(b.angularVelocity.Scale(1/speed), speed*dt)
			rot = spin.Mul(rot).Normalize()
		}

		if ground, ok := w.GroundHeight(b.Node.Position()); ok && pos.Y < ground {
			pos.Y = ground
			b.velocity = math.Vec3{}
			b.angularVelocity = math.Vec3{}
		}
		targets[i] = bodyTarget{pos: pos, rot: rot}
	}

	// Targets were computed from the pre-step pose; apply parents first so
	// children land on their own targets.
	for i, b := range w.bodies {
		if b.kinematic {
			continue
		}
		b.Node.SetPosition(targets[i].pos)
		b.Node.SetRotation(targets[i].rot)
	}
}
