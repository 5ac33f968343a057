package ragdoll

import (
	"errors"
	gomath "math"
	"math/rand"
	"testing"

	"github.com/Faultbox/ragdoll/internal/clock"
	"github.com/Faultbox/ragdoll/internal/physics"
	"github.com/Faultbox/ragdoll/internal/skeleton"
	"github.com/Faultbox/ragdoll/pkg/math"
)

type fakeBody struct{ kinematic bool }

func (b *fakeBody) SetKinematic(k bool) { b.kinematic = k }
func (b *fakeBody) Kinematic() bool { return b.kinematic }

type fakeAnimator struct {
	bones   skeleton.BoneMap
	enabled bool
	played  []string
	// onEnable simulates an animation system that writes as soon as it is
	// switched on.
	onEnable func()
}

func (a *fakeAnimator) SetEnabled(on bool) {
	a.enabled = on
	if on && a.onEnable != nil {
		a.onEnable()
	}
}
func (a *fakeAnimator) Bone(id skeleton.BoneID) *skeleton.Node { return a.bones[id] }
func (a *fakeAnimator) Play(clip string) { a.played = append(a.played, clip) }

type fakePhysics struct {
	sphereHit bool
	hits      []physics.Hit

	sphereOrigin, sphereDir math.Vec3
	sphereRadius, sphereMax float32
	rayOrigins              []math.Vec3
}

func (p *fakePhysics) SphereCast(origin math.Vec3, radius float32, dir math.Vec3, maxDist float32) bool {
	p.sphereOrigin, p.sphereRadius, p.sphereDir, p.sphereMax = origin, radius, dir, maxDist
	return p.sphereHit
}

func (p *fakePhysics) RaycastAll(origin, dir math.Vec3) []physics.Hit {
	p.rayOrigins = append(p.rayOrigins, origin)
	return p.hits
}

type fakeRootBody struct {
	velocity   math.Vec3
	kinematic  bool
	useGravity bool
	calls      int
}

func (b *fakeRootBody) SetVelocity(v math.Vec3) {
	b.velocity = v
	b.calls++
}
func (b *fakeRootBody) SetKinematic(k bool) { b.kinematic = k }
func (b *fakeRootBody) SetUseGravity(on bool) { b.useGravity = on }

type rig struct {
	root  *skeleton.Node
	bones skeleton.BoneMap
	reg   *skeleton.Registry
	anim  *fakeAnimator
	phys  *fakePhysics
	body  *fakeRootBody
	clk   *clock.Manual
	ctrl  *Controller
	edges [][2]State
}

// newRig builds root -> hips -> {head, left_foot -> left_toes, right_foot -> right_toes}
// with bodies on every node except the toes.
func newRig(t *testing.T, opts ...Option) *rig {
	t.Helper()

	root := skeleton.NewNode("root", math.Vec3{})
	root.Body = &fakeBody{}
	hips := root.AddChild(skeleton.NewNode("hips", math.Vec3{Y: 1}))
	hips.Body = &fakeBody{}
	head := hips.AddChild(skeleton.NewNode("head", math.Vec3{Y: 0.7}))
	head.Body = &fakeBody{}
	lf := hips.AddChild(skeleton.NewNode("left_foot", math.Vec3{X: -0.2, Y: -0.9}))
	lf.Body = &fakeBody{}
	lt := lf.AddChild(skeleton.NewNode("left_toes", math.Vec3{Y: -0.05}))
	rf := hips.AddChild(skeleton.NewNode("right_foot", math.Vec3{X: 0.2, Y: -0.9}))
	rf.Body = &fakeBody{}
	rt := rf.AddChild(skeleton.NewNode("right_toes", math.Vec3{Y: -0.05}))

	bones := skeleton.BoneMap{
		skeleton.Hips:      hips,
		skeleton.Head:      head,
		skeleton.LeftFoot:  lf,
		skeleton.LeftToes:  lt,
		skeleton.RightFoot: rf,
		skeleton.RightToes: rt,
	}
	reg, err := skeleton.NewRegistry(root, bones)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	r := &rig{
		root:  root,
		bones: bones,
		reg:   reg,
		anim:  &fakeAnimator{bones: bones, enabled: true},
		phys:  &fakePhysics{},
		body:  &fakeRootBody{kinematic: true},
		clk:   clock.NewManual(0),
	}
	opts = append(opts, OnTransition(func(from, to State, _ float64) {
		r.edges = append(r.edges, [2]State{from, to})
	}))
	r.ctrl, err = New(reg, r.anim, r.phys, r.body, r.clk, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

// fall poses the body lying on its back at (3, 0.2, 1), head towards -Z.
func (r *rig) fall() {
	hips := r.bones[skeleton.Hips]
	hips.SetPosition(math.Vec3{X: 3, Y: 0.2, Z: 1})
	hips.SetRotation(math.QuatFromAxisAngle(math.Vec3{X: 1}, -gomath.Pi/2))
}

// animateLying writes a get-up first frame: lying on the back next to the
// root with the head towards root-relative +X.
func (r *rig) animateLying() {
	hips := r.bones[skeleton.Hips]
	pitch := math.QuatFromAxisAngle(math.Vec3{X: 1}, -gomath.Pi/2)
	yaw := math.QuatFromAxisAngle(math.Up, -gomath.Pi/2)
	hips.LocalPosition = math.Vec3{Y: 0.2}
	hips.LocalRotation = yaw.Mul(pitch)
}

// animateStanding writes an upright pose.
func (r *rig) animateStanding() {
	hips := r.bones[skeleton.Hips]
	hips.LocalPosition = math.Vec3{Y: 1}
	hips.LocalRotation = math.QuatIdentity()
}

func near(a, b math.Vec3, eps float32) bool {
	return a.Distance(b) <= eps
}

func sameRotation(a, b math.Quat) bool {
	return gomath.Abs(float64(a.Dot(b))) > 0.99999
}

func allKinematic(r *rig, want bool) bool {
	for _, s := range r.reg.Segments() {
		if s.Node.Body.Kinematic() != want {
			return false
		}
	}
	return true
}

func TestNewValidation(t *testing.T) {
	base := newRig(t)

	tests := []struct {
		name string
		fn   func() error
		want error
	}{
		{"nil registry", func() error {
			_, err := New(nil, base.anim, base.phys, base.body, base.clk)
			return err
		}, ErrNilDependency},
		{"nil animator", func() error {
			_, err := New(base.reg, nil, base.phys, base.body, base.clk)
			return err
		}, ErrNilDependency},
		{"nil physics", func() error {
			_, err := New(base.reg, base.anim, nil, base.body, base.clk)
			return err
		}, ErrNilDependency},
		{"nil root body", func() error {
			_, err := New(base.reg, base.anim, base.phys, nil, base.clk)
			return err
		}, ErrNilDependency},
		{"nil clock", func() error {
			_, err := New(base.reg, base.anim, base.phys, base.body, nil)
			return err
		}, ErrNilDependency},
		{"animator missing bone", func() error {
			anim := &fakeAnimator{bones: skeleton.BoneMap{skeleton.Hips: base.bones[skeleton.Hips]}}
			_, err := New(base.reg, anim, base.phys, base.body, base.clk)
			return err
		}, skeleton.ErrMissingBone},
		{"bad blend duration", func() error {
			s := DefaultSettings()
			s.BlendDuration = 0
			_, err := New(base.reg, base.anim, base.phys, base.body, base.clk, WithSettings(s))
			return err
		}, ErrInvalidSettings},
		{"NaN transition window", func() error {
			s := DefaultSettings()
			s.TransitionWindow = gomath.NaN()
			_, err := New(base.reg, base.anim, base.phys, base.body, base.clk, WithSettings(s))
			return err
		}, ErrInvalidSettings},
		{"infinite probe distance", func() error {
			s := DefaultSettings()
			s.ProbeDistance = float32(gomath.Inf(1))
			_, err := New(base.reg, base.anim, base.phys, base.body, base.clk, WithSettings(s))
			return err
		}, ErrInvalidSettings},
		{"NaN probe drop", func() error {
			s := DefaultSettings()
			s.ProbeDrop = float32(gomath.NaN())
			_, err := New(base.reg, base.anim, base.phys, base.body, base.clk, WithSettings(s))
			return err
		}, ErrInvalidSettings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewStartsAnimatedAndKinematic(t *testing.T) {
	r := newRig(t)
	if r.ctrl.State() != Animated || r.ctrl.Ragdolled() {
		t.Errorf("initial state = %v", r.ctrl.State())
	}
	if !allKinematic(r, true) {
		t.Error("segments should start kinematic")
	}
	if r.ctrl.TransitionTime() != neverEnded {
		t.Errorf("TransitionTime() = %v, want sentinel", r.ctrl.TransitionTime())
	}
	if r.ctrl.BlendFactor() != 1 {
		t.Errorf("BlendFactor() outside recovery = %v, want 1", r.ctrl.BlendFactor())
	}
}

func TestRagdollEnter(t *testing.T) {
	r := newRig(t)
	r.ctrl.SetRagdolled(true)

	if r.ctrl.State() != Ragdolled {
		t.Fatalf("state = %v, want ragdolled", r.ctrl.State())
	}
	if !r.ctrl.Ragdolled() {
		t.Error("Ragdolled() should be true")
	}
	if !allKinematic(r, false) {
		t.Error("all segments should be dynamic")
	}
	if r.anim.enabled {
		t.Error("animation should be disabled")
	}
}

func TestIgnoredRequests(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(r *rig)
		request bool
		want    State
	}{
		{"false while animated", func(r *rig) {}, false, Animated},
		{"true while ragdolled", func(r *rig) { r.ctrl.SetRagdolled(true) }, true, Ragdolled},
		{"true while blending", func(r *rig) {
			r.ctrl.SetRagdolled(true)
			r.ctrl.SetRagdolled(false)
		}, true, BlendToAnim},
		{"false while blending", func(r *rig) {
			r.ctrl.SetRagdolled(true)
			r.ctrl.SetRagdolled(false)
		}, false, BlendToAnim},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t)
			tt.setup(r)
			edges := len(r.edges)
			played := len(r.anim.played)
			end := r.ctrl.TransitionTime()

			r.clk.Advance(1)
			r.ctrl.SetRagdolled(tt.request)

			if r.ctrl.State() != tt.want {
				t.Errorf("state = %v, want %v", r.ctrl.State(), tt.want)
			}
			if len(r.edges) != edges || len(r.anim.played) != played || r.ctrl.TransitionTime() != end {
				t.Error("ignored request had side effects")
			}
		})
	}
}

func TestRagdollExit(t *testing.T) {
	tests := []struct {
		name      string
		sphereHit bool
		wantClip  string
	}{
		{"clear probe plays back clip", false, ClipGetUpBack},
		{"blocked probe plays front clip", true, ClipGetUpFront},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t)
			r.phys.sphereHit = tt.sphereHit

			r.ctrl.SetRagdolled(true)
			r.fall()
			r.clk.Set(2.0)

			hips := r.bones[skeleton.Hips]
			wantHips := hips.Position()
			wantHead := r.bones[skeleton.Head].Position()
			wantFeet := math.Midpoint(r.bones[skeleton.LeftToes].Position(), r.bones[skeleton.RightToes].Position())

			r.ctrl.SetRagdolled(false)

			if r.ctrl.State() != BlendToAnim {
				t.Fatalf("state = %v, want blend_to_anim", r.ctrl.State())
			}
			if r.ctrl.TransitionTime() != 2.0 {
				t.Errorf("TransitionTime() = %v, want 2.0", r.ctrl.TransitionTime())
			}
			if !r.ctrl.Ragdolled() {
				t.Error("Ragdolled() should stay true while blending")
			}
			if !allKinematic(r, true) {
				t.Error("segments should be kinematic while blending")
			}
			if !r.anim.enabled {
				t.Error("animation should be re-enabled")
			}
			if len(r.anim.played) != 1 || r.anim.played[0] != tt.wantClip {
				t.Errorf("played %v, want [%s]", r.anim.played, tt.wantClip)
			}

			lm := r.ctrl.Landmarks()
			if lm.Hips != wantHips || lm.Head != wantHead || lm.Feet != wantFeet {
				t.Errorf("landmarks = %+v, want hips %v head %v feet %v", lm, wantHips, wantHead, wantFeet)
			}
			for _, s := range r.reg.Segments() {
				if s.StoredPosition != s.Node.Position() || s.StoredRotation != s.Node.Rotation() {
					t.Errorf("%s: stored pose not captured", s.Node.Name)
				}
			}
		})
	}
}

func TestRecoveryProbeGeometry(t *testing.T) {
	r := newRig(t)
	r.ctrl.SetRagdolled(true)
	r.fall()
	r.ctrl.SetRagdolled(false)

	// Lying on the back: the pelvis forward axis points up.
	fwd := math.Vec3{Y: 1}
	hips := r.ctrl.Landmarks().Hips
	if !near(r.phys.sphereOrigin, hips.Sub(fwd), 1e-5) {
		t.Errorf("probe origin = %v, want %v", r.phys.sphereOrigin, hips.Sub(fwd))
	}
	if !near(r.phys.sphereDir, math.Vec3{Y: 0.8}, 1e-5) {
		t.Errorf("probe dir = %v, want {0 0.8 0}", r.phys.sphereDir)
	}
	if r.phys.sphereRadius != 0.5 || r.phys.sphereMax != 5 {
		t.Errorf("probe radius/distance = %v/%v", r.phys.sphereRadius, r.phys.sphereMax)
	}
}

func TestWithFacing(t *testing.T) {
	r := newRig(t, WithFacing(func() math.Vec3 { return math.Vec3{X: 1} }))
	r.ctrl.SetRagdolled(true)
	r.ctrl.SetRagdolled(false)
	if !near(r.phys.sphereDir, math.Vec3{X: 1, Y: -0.2}, 1e-6) {
		t.Errorf("probe dir = %v, want {1 -0.2 0}", r.phys.sphereDir)
	}
}

func TestSnapshotPrecedesAnimation(t *testing.T) {
	r := newRig(t)
	r.ctrl.SetRagdolled(true)
	r.fall()
	ragdollHips := r.bones[skeleton.Hips].Position()

	// An animator that overwrites transforms the moment it is enabled must
	// not leak into the captured pose.
	r.anim.onEnable = r.animateStanding
	r.ctrl.SetRagdolled(false)

	if got := r.ctrl.Landmarks().Hips; got != ragdollHips {
		t.Errorf("hips landmark = %v, want ragdoll pose %v", got, ragdollHips)
	}
	for _, s := range r.reg.Segments() {
		if s.Node == r.bones[skeleton.Hips] && s.StoredPosition != ragdollHips {
			t.Errorf("stored hips = %v, want %v", s.StoredPosition, ragdollHips)
		}
	}
}

func TestBlendIdentityAtTransition(t *testing.T) {
	r := newRig(t)
	r.ctrl.SetRagdolled(true)
	r.fall()
	r.clk.Set(2.0)
	r.ctrl.SetRagdolled(false)

	// Same instant: factor 1, nothing animated yet.
	if f := r.ctrl.BlendFactor(); f != 1 {
		t.Fatalf("BlendFactor() = %v, want 1", f)
	}
	r.ctrl.LateUpdate()

	for _, s := range r.reg.Segments() {
		if !near(s.Node.Position(), s.StoredPosition, 1e-4) {
			t.Errorf("%s position %v, stored %v", s.Node.Name, s.Node.Position(), s.StoredPosition)
		}
		if !sameRotation(s.Node.Rotation(), s.StoredRotation) {
			t.Errorf("%s rotation %v, stored %v", s.Node.Name, s.Node.Rotation(), s.StoredRotation)
		}
	}
}

func TestBlendHalfway(t *testing.T) {
	r := newRig(t)
	r.ctrl.SetRagdolled(true)
	r.fall()
	r.clk.Set(2.0)
	r.ctrl.SetRagdolled(false)

	// Past the window: root stays put, the blend runs at 0.5.
	r.clk.Set(2.0 + 0.05 + 0.15)
	r.animateStanding()
	animated := r.bones[skeleton.Hips].Position()
	stored := r.ctrl.Landmarks().Hips

	r.ctrl.LateUpdate()

	want := animated.Lerp(stored, 0.5)
	if got := r.bones[skeleton.Hips].Position(); !near(got, want, 1e-3) {
		t.Errorf("hips = %v, want %v", got, want)
	}
	if r.root.Position() != (math.Vec3{}) {
		t.Errorf("root moved outside the transition window: %v", r.root.Position())
	}

	// Non-hip segments keep their animated position relative to the hips.
	head := r.bones[skeleton.Head]
	if d := head.Position().Distance(r.bones[skeleton.Hips].Position()); gomath.Abs(float64(d-0.7)) > 1e-4 {
		t.Errorf("head drifted from hips: distance %v", d)
	}
}

func TestBlendEndsAnimated(t *testing.T) {
	r := newRig(t)
	r.ctrl.SetRagdolled(true)
	r.fall()
	r.clk.Set(2.0)
	r.ctrl.SetRagdolled(false)

	r.clk.Set(2.0 + 0.05 + 0.3)
	r.animateStanding()
	wantPos := r.bones[skeleton.Hips].Position()
	wantRot := r.bones[skeleton.Head].Rotation()

	r.ctrl.LateUpdate()

	if r.ctrl.State() != Animated {
		t.Fatalf("state = %v, want animated", r.ctrl.State())
	}
	if got := r.bones[skeleton.Hips].Position(); got != wantPos {
		t.Errorf("hips = %v, want pure animation %v", got, wantPos)
	}
	if got := r.bones[skeleton.Head].Rotation(); got != wantRot {
		t.Errorf("head rotation = %v, want pure animation %v", got, wantRot)
	}
	want := [][2]State{{Animated, Ragdolled}, {Ragdolled, BlendToAnim}, {BlendToAnim, Animated}}
	if len(r.edges) != len(want) {
		t.Fatalf("edges = %v, want %v", r.edges, want)
	}
	for i := range want {
		if r.edges[i] != want[i] {
			t.Errorf("edge %d = %v, want %v", i, r.edges[i], want[i])
		}
	}
}

func TestBlendCompletesByFrames(t *testing.T) {
	r := newRig(t)
	r.ctrl.SetRagdolled(true)
	r.fall()
	r.clk.Set(2.0)
	r.ctrl.SetRagdolled(false)

	const dt = 1.0 / 60
	prev := float32(1)
	for i := 0; i < 120 && r.ctrl.State() == BlendToAnim; i++ {
		r.clk.Advance(dt)
		f := r.ctrl.BlendFactor()
		if f > prev {
			t.Fatalf("blend factor rose from %v to %v at t=%v", prev, f, r.clk.Now())
		}
		prev = f
		r.animateStanding()
		r.ctrl.LateUpdate()
	}

	if r.ctrl.State() != Animated {
		t.Fatal("blend never finished")
	}
	if elapsed := r.clk.Now() - 2.0; elapsed > 0.35+dt {
		t.Errorf("blend finished after %v s, want within %v", elapsed, 0.35+dt)
	}
}

func TestRootBodyFreedWhileBlending(t *testing.T) {
	r := newRig(t)
	r.body.velocity = math.Vec3{X: 4, Y: -2}
	r.body.useGravity = false

	r.ctrl.LateUpdate()
	if r.body.calls != 0 {
		t.Error("LateUpdate must be idle while animated")
	}

	r.ctrl.SetRagdolled(true)
	r.ctrl.LateUpdate()
	if r.body.calls != 0 {
		t.Error("LateUpdate must be idle while ragdolled")
	}

	r.ctrl.SetRagdolled(false)
	r.ctrl.LateUpdate()
	if r.body.velocity != (math.Vec3{}) || r.body.kinematic || !r.body.useGravity {
		t.Errorf("root body = %+v, want still, dynamic, with gravity", r.body)
	}
}

func TestAlignRootToRagdoll(t *testing.T) {
	r := newRig(t)
	r.phys.hits = []physics.Hit{
		{Point: math.Vec3{Y: 0.5}, Node: r.bones[skeleton.Head]},
		{Point: math.Vec3{Y: 0.1}},
		{Point: math.Vec3{Y: -0.3}},
	}

	r.ctrl.SetRagdolled(true)
	r.fall()
	r.clk.Set(2.0)
	r.ctrl.SetRagdolled(false)

	r.clk.Set(2.02)
	r.animateLying()
	r.ctrl.LateUpdate()

	// Hips offset (3, 0, 1) moves the root; the own-skeleton hit is ignored.
	if got := r.root.Position(); !near(got, math.Vec3{X: 3, Y: 0.1, Z: 1}, 1e-5) {
		t.Errorf("root position = %v, want {3 0.1 1}", got)
	}
	if len(r.phys.rayOrigins) != 1 || !near(r.phys.rayOrigins[0], math.Vec3{X: 3, Z: 1}, 1e-5) {
		t.Errorf("ground ray cast from %v", r.phys.rayOrigins)
	}

	// Animated head points +X, ragdoll head points -Z: the root yaws so
	// root-relative +X maps to world -Z.
	got := r.root.Rotation().Rotate(math.Vec3{X: 1})
	if !near(got, math.Vec3{Z: -1}, 1e-4) {
		t.Errorf("root +X after alignment = %v, want {0 0 -1}", got)
	}
	up := r.root.Rotation().Rotate(math.Up)
	if !near(up, math.Up, 1e-5) {
		t.Errorf("root tilted: up = %v", up)
	}

	// Re-evaluating the animation under the rotated root is now aligned; a
	// second frame in the window leaves the heading unchanged.
	before := r.root.Rotation()
	r.clk.Set(2.04)
	r.animateLying()
	r.ctrl.LateUpdate()
	if !sameRotation(before, r.root.Rotation()) {
		t.Errorf("heading changed on second aligned frame: %v -> %v", before, r.root.Rotation())
	}
}

func TestAlignRootWithoutGround(t *testing.T) {
	r := newRig(t)
	r.root.SetPosition(math.Vec3{Y: 7})

	r.ctrl.SetRagdolled(true)
	r.fall()
	r.clk.Set(2.0)
	r.ctrl.SetRagdolled(false)
	r.ctrl.LateUpdate()

	if y := r.root.Position().Y; y != 0 {
		t.Errorf("root height with no ground hits = %v, want 0", y)
	}
}

func TestAlignRootOnlyOwnHits(t *testing.T) {
	r := newRig(t)
	r.phys.hits = []physics.Hit{
		{Point: math.Vec3{Y: 0.9}, Node: r.bones[skeleton.LeftToes]},
		{Point: math.Vec3{Y: 0.4}, Node: r.root},
	}

	r.ctrl.SetRagdolled(true)
	r.fall()
	r.ctrl.SetRagdolled(false)
	r.ctrl.LateUpdate()

	if y := r.root.Position().Y; y != 0 {
		t.Errorf("root height = %v, want 0 when only the character is hit", y)
	}
}

func TestRootSegmentNotBlended(t *testing.T) {
	r := newRig(t)
	r.ctrl.SetRagdolled(true)
	r.fall()
	r.clk.Set(2.0)
	r.ctrl.SetRagdolled(false)

	// Rotate the root after the snapshot; outside the window the blend must
	// leave it alone even though it is a segment.
	yaw := math.QuatFromAxisAngle(math.Up, 1)
	r.root.SetRotation(yaw)
	r.clk.Set(2.1)
	r.ctrl.LateUpdate()
	if !sameRotation(r.root.Rotation(), yaw) {
		t.Errorf("root rotation blended: %v", r.root.Rotation())
	}
}

func TestStateEdges(t *testing.T) {
	allowed := map[[2]State]bool{
		{Animated, Ragdolled}:    true,
		{Ragdolled, BlendToAnim}: true,
		{BlendToAnim, Animated}:  true,
	}

	rnd := rand.New(rand.NewSource(7))
	r := newRig(t)
	for i := 0; i < 2000; i++ {
		switch rnd.Intn(3) {
		case 0:
			r.ctrl.SetRagdolled(rnd.Intn(2) == 0)
		case 1:
			r.clk.Advance(rnd.Float64() * 0.1)
		default:
			r.ctrl.LateUpdate()
		}
	}

	if len(r.edges) == 0 {
		t.Fatal("random walk produced no transitions")
	}
	for _, e := range r.edges {
		if !allowed[e] {
			t.Errorf("illegal edge %v -> %v", e[0], e[1])
		}
	}
}

func TestSetBlendDuration(t *testing.T) {
	r := newRig(t)
	for _, bad := range []float64{-1, 0, gomath.NaN(), gomath.Inf(1), gomath.Inf(-1)} {
		if err := r.ctrl.SetBlendDuration(bad); !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("SetBlendDuration(%v): expected ErrInvalidSettings, got %v", bad, err)
		}
		if got := r.ctrl.Settings().BlendDuration; got != 0.3 {
			t.Errorf("SetBlendDuration(%v) changed duration to %v", bad, got)
		}
	}
	if err := r.ctrl.SetBlendDuration(1.2); err != nil {
		t.Fatal(err)
	}
	if r.ctrl.Settings().BlendDuration != 1.2 {
		t.Errorf("BlendDuration = %v", r.ctrl.Settings().BlendDuration)
	}

	r.ctrl.SetRagdolled(true)
	r.clk.Set(1)
	r.ctrl.SetRagdolled(false)
	r.clk.Set(1 + 0.05 + 0.6)
	if f := r.ctrl.BlendFactor(); gomath.Abs(float64(f-0.5)) > 1e-5 {
		t.Errorf("BlendFactor() = %v, want 0.5 with 1.2s blend", f)
	}

	// A rejected value mid-blend leaves the fade on schedule.
	if err := r.ctrl.SetBlendDuration(gomath.NaN()); err == nil {
		t.Fatal("expected NaN to be rejected")
	}
	r.clk.Set(1 + 0.05 + 1.2)
	r.ctrl.LateUpdate()
	if r.ctrl.State() != Animated {
		t.Errorf("state = %v, want animated after window+blend", r.ctrl.State())
	}
	hips := r.bones[skeleton.Hips].Position()
	if hips.X != hips.X || hips.Y != hips.Y || hips.Z != hips.Z {
		t.Errorf("hips = %v, want finite", hips)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		Animated:    "animated",
		Ragdolled:   "ragdolled",
		BlendToAnim: "blend_to_anim",
		State(9):    "State(9)",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("String() = %q, want %q", s.String(), want)
		}
	}
}
