package controller

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/raycontroller/levels"
	"github.com/milk9111/raycontroller/physics"
	"github.com/milk9111/raycontroller/raycast"
)

const (
	dt  = 1.0 / 60.0
	eps = 1e-9
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func floorOnly() *physics.Boxes {
	return physics.NewBoxes(physics.Box{BB: cp.BB{L: -50, B: -1, R: 50, T: 0}})
}

// groundedBody returns a default body resting on a floor at y=0 after one
// settling step.
func groundedBody(t *testing.T, caster raycast.Caster) *Body {
	t.Helper()
	b, err := New(cp.Vector{X: 0, Y: 0.5}, DefaultTuning(), caster)
	if err != nil {
		t.Fatalf("new body: %v", err)
	}
	if err := b.Step(Input{}, dt); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !b.Grounded() {
		t.Fatalf("expected body to be grounded after settling, contacts %+v", b.Contacts())
	}
	return b
}

func TestJumpConstants(t *testing.T) {
	cases := []struct {
		name   string
		tuning Tuning
		want   JumpConstants
	}{
		{"defaults", DefaultTuning(), JumpConstants{Gravity: -50, MaxJumpVelocity: 20, MinJumpVelocity: 10}},
		{"floaty", Tuning{MaxJumpHeight: 2, MinJumpHeight: 0.5, TimeToJumpApex: 1}, JumpConstants{Gravity: -4, MaxJumpVelocity: 4, MinJumpVelocity: 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.tuning.Jump()
			if !approx(got.Gravity, c.want.Gravity) || !approx(got.MaxJumpVelocity, c.want.MaxJumpVelocity) || !approx(got.MinJumpVelocity, c.want.MinJumpVelocity) {
				t.Fatalf("expected %+v, got %+v", c.want, got)
			}
		})
	}
}

func TestTuningValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Tuning)
		ok     bool
	}{
		{"defaults", func(*Tuning) {}, true},
		{"zero_smoothing", func(t *Tuning) { t.AccelerationTimeGrounded = 0; t.AccelerationTimeAirborne = 0 }, true},
		{"no_speed", func(t *Tuning) { t.MoveSpeed = 0 }, false},
		{"no_apex_time", func(t *Tuning) { t.TimeToJumpApex = 0 }, false},
		{"no_max_jump", func(t *Tuning) { t.MaxJumpHeight = -1 }, false},
		{"min_above_max", func(t *Tuning) { t.MinJumpHeight = 5 }, false},
		{"negative_smoothing", func(t *Tuning) { t.AccelerationTimeAirborne = -0.1 }, false},
		{"nan_smoothing", func(t *Tuning) { t.AccelerationTimeGrounded = math.NaN() }, false},
		{"flat_collider", func(t *Tuning) { t.Height = 0 }, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tuning := DefaultTuning()
			c.mutate(&tuning)
			err := tuning.Validate()
			if c.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !c.ok {
				var cfgErr *raycast.ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("expected ConfigurationError, got %v", err)
				}
			}
		})
	}
}

func TestNewRejectsBadConfiguration(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Width = 0.02 // thinner than two skins
	if _, err := New(cp.Vector{}, tuning, floorOnly()); err == nil {
		t.Fatalf("expected error for collider thinner than skin")
	}
	if _, err := New(cp.Vector{}, DefaultTuning(), nil); !errors.Is(err, raycast.ErrNilCaster) {
		t.Fatalf("expected ErrNilCaster, got %v", err)
	}
}

func TestJumpSequence(t *testing.T) {
	b := groundedBody(t, floorOnly())
	jump := b.Jump()

	if err := b.Step(Input{JumpPressed: true}, dt); err != nil {
		t.Fatalf("jump: %v", err)
	}
	if want := jump.MaxJumpVelocity + jump.Gravity*dt; !approx(b.Velocity().Y, want) {
		t.Fatalf("expected vy %f after jump, got %f", want, b.Velocity().Y)
	}
	if b.Grounded() {
		t.Fatalf("expected body to leave the ground")
	}

	if err := b.Step(Input{JumpReleased: true}, dt); err != nil {
		t.Fatalf("release: %v", err)
	}
	if want := jump.MinJumpVelocity + jump.Gravity*dt; !approx(b.Velocity().Y, want) {
		t.Fatalf("expected vy clamped to %f, got %f", want, b.Velocity().Y)
	}

	// a second release below the cutoff must leave velocity alone
	before := b.Velocity().Y
	if before > jump.MinJumpVelocity {
		t.Fatalf("expected vy below cutoff, got %f", before)
	}
	if err := b.Step(Input{JumpReleased: true}, dt); err != nil {
		t.Fatalf("release: %v", err)
	}
	if want := before + jump.Gravity*dt; !approx(b.Velocity().Y, want) {
		t.Fatalf("expected vy %f, got %f", want, b.Velocity().Y)
	}
}

func TestJumpIgnoredInAir(t *testing.T) {
	b, err := New(cp.Vector{X: 0, Y: 10}, DefaultTuning(), floorOnly())
	if err != nil {
		t.Fatalf("new body: %v", err)
	}
	if err := b.Step(Input{}, dt); err != nil {
		t.Fatalf("step: %v", err)
	}
	before := b.Velocity().Y
	if err := b.Step(Input{JumpPressed: true}, dt); err != nil {
		t.Fatalf("step: %v", err)
	}
	if want := before + b.Jump().Gravity*dt; !approx(b.Velocity().Y, want) {
		t.Fatalf("expected vy %f, got %f", want, b.Velocity().Y)
	}
}

func TestGroundedStepsDoNotAccumulateGravity(t *testing.T) {
	b := groundedBody(t, floorOnly())
	startY := b.Position().Y
	for i := 0; i < 120; i++ {
		if err := b.Step(Input{}, dt); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if !approx(b.Velocity().Y, b.Jump().Gravity*dt) {
			t.Fatalf("step %d: expected vy %f, got %f", i, b.Jump().Gravity*dt, b.Velocity().Y)
		}
		if !b.Grounded() {
			t.Fatalf("step %d: lost ground contact", i)
		}
	}
	if math.Abs(b.Position().Y-startY) > 1e-6 {
		t.Fatalf("expected body to stay at %f, got %f", startY, b.Position().Y)
	}
}

func TestGroundedAccelerationIsSnappier(t *testing.T) {
	grounded := groundedBody(t, floorOnly())

	airborne, err := New(cp.Vector{X: 0, Y: 20}, DefaultTuning(), floorOnly())
	if err != nil {
		t.Fatalf("new body: %v", err)
	}
	if err := airborne.Step(Input{}, dt); err != nil {
		t.Fatalf("step: %v", err)
	}

	right := Input{Axis: cp.Vector{X: 1}}
	for _, b := range []*Body{grounded, airborne} {
		if err := b.Step(right, dt); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if grounded.Velocity().X <= airborne.Velocity().X {
		t.Fatalf("expected grounded vx %f to exceed airborne vx %f", grounded.Velocity().X, airborne.Velocity().X)
	}
	if grounded.Velocity().X <= 0 || grounded.Velocity().X > grounded.Tuning().MoveSpeed {
		t.Fatalf("unexpected grounded vx %f", grounded.Velocity().X)
	}
}

func TestInputAxisIsClamped(t *testing.T) {
	b := groundedBody(t, floorOnly())
	for i := 0; i < 240; i++ {
		if err := b.Step(Input{Axis: cp.Vector{X: 5}}, dt); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if b.Velocity().X > b.Tuning().MoveSpeed+1e-6 {
		t.Fatalf("expected vx capped at %f, got %f", b.Tuning().MoveSpeed, b.Velocity().X)
	}
}

func TestRunIntoWall(t *testing.T) {
	world := physics.NewBoxes(
		physics.Box{BB: cp.BB{L: -50, B: -1, R: 50, T: 0}},
		physics.Box{BB: cp.BB{L: 3, B: 0, R: 4, T: 5}},
	)
	b := groundedBody(t, world)
	for i := 0; i < 120; i++ {
		if err := b.Step(Input{Axis: cp.Vector{X: 1}}, dt); err != nil {
			t.Fatalf("step: %v", err)
		}
		if b.Bounds().R > 3+1e-9 {
			t.Fatalf("step %d: right edge %f passed the wall", i, b.Bounds().R)
		}
	}
	c := b.Contacts()
	if !c.Right || c.Left || !c.Below {
		t.Fatalf("expected right and below contacts, got %+v", c)
	}
	if math.Abs(b.Bounds().R-3) > 1e-6 {
		t.Fatalf("expected body flush with wall, right edge %f", b.Bounds().R)
	}

	// idle against the wall still reports it
	for i := 0; i < 10; i++ {
		if err := b.Step(Input{}, dt); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if !b.Contacts().Right {
		t.Fatalf("expected right contact while idle, got %+v", b.Contacts())
	}
}

func TestCeilingCancelsJump(t *testing.T) {
	world := physics.NewBoxes(
		physics.Box{BB: cp.BB{L: -50, B: -1, R: 50, T: 0}},
		physics.Box{BB: cp.BB{L: -50, B: 1.5, R: 50, T: 2.5}},
	)
	b := groundedBody(t, world)
	if err := b.Step(Input{JumpPressed: true}, dt); err != nil {
		t.Fatalf("jump: %v", err)
	}
	hit := false
	for i := 0; i < 30 && !hit; i++ {
		if err := b.Step(Input{}, dt); err != nil {
			t.Fatalf("step: %v", err)
		}
		hit = b.Contacts().Above
	}
	if !hit {
		t.Fatalf("expected to reach the ceiling")
	}
	if b.Bounds().T > 1.5+1e-9 {
		t.Fatalf("head %f went through ceiling", b.Bounds().T)
	}
	if err := b.Step(Input{}, dt); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !approx(b.Velocity().Y, b.Jump().Gravity*dt) {
		t.Fatalf("expected vy reset to %f, got %f", b.Jump().Gravity*dt, b.Velocity().Y)
	}
}

func TestLandInLevel(t *testing.T) {
	lvl, err := levels.Load("box")
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	space := physics.NewSpace()
	space.AddLevel(lvl)

	tuning := DefaultTuning()
	spawn := lvl.Spawn()
	b, err := New(cp.Vector{X: spawn.X, Y: spawn.Y + tuning.Height/2 + 1}, tuning, space)
	if err != nil {
		t.Fatalf("new body: %v", err)
	}
	for i := 0; i < 120; i++ {
		if err := b.Step(Input{}, dt); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if !b.Grounded() {
		t.Fatalf("expected to land, contacts %+v", b.Contacts())
	}
	if math.Abs(b.Bounds().B-spawn.Y) > 1e-6 {
		t.Fatalf("expected feet at %f, got %f", spawn.Y, b.Bounds().B)
	}
}

func TestZeroDeltaIsNoop(t *testing.T) {
	b, err := New(cp.Vector{X: 1, Y: 5}, DefaultTuning(), floorOnly())
	if err != nil {
		t.Fatalf("new body: %v", err)
	}
	for _, d := range []float64{0, -1} {
		if err := b.Step(Input{Axis: cp.Vector{X: 1}, JumpPressed: true}, d); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if b.Position() != (cp.Vector{X: 1, Y: 5}) || b.Velocity() != (cp.Vector{}) {
		t.Fatalf("expected no change, got pos %+v vel %+v", b.Position(), b.Velocity())
	}
}

func TestRetune(t *testing.T) {
	b := groundedBody(t, floorOnly())
	if err := b.Step(Input{Axis: cp.Vector{X: -1}}, dt); err != nil {
		t.Fatalf("step: %v", err)
	}

	tuning := DefaultTuning()
	tuning.Height = 2
	tuning.MaxJumpHeight = 2
	if err := b.Retune(tuning); err != nil {
		t.Fatalf("retune: %v", err)
	}
	if got := b.Bounds().T - b.Bounds().B; !approx(got, 2) {
		t.Fatalf("expected height 2, got %f", got)
	}
	if b.Contacts().Facing != -1 {
		t.Fatalf("expected facing kept, got %d", b.Contacts().Facing)
	}
	if !approx(b.Jump().Gravity, tuning.Jump().Gravity) {
		t.Fatalf("expected gravity %f, got %f", tuning.Jump().Gravity, b.Jump().Gravity)
	}
	hs, _ := b.Probe().Spacing()
	if want := (2 - 2*raycast.DefaultSkinWidth) / 5; !approx(hs, want) {
		t.Fatalf("expected spacing %f, got %f", want, hs)
	}

	bad := tuning
	bad.Width = 0.01
	if err := b.Retune(bad); err == nil {
		t.Fatalf("expected retune error")
	}
	if b.Tuning().Width != tuning.Width {
		t.Fatalf("expected tuning to be rolled back, got width %f", b.Tuning().Width)
	}
}

func TestTeleport(t *testing.T) {
	b := groundedBody(t, floorOnly())
	if err := b.Step(Input{Axis: cp.Vector{X: 1}, JumpPressed: true}, dt); err != nil {
		t.Fatalf("step: %v", err)
	}
	b.Teleport(cp.Vector{X: 7, Y: 3})
	if b.Position() != (cp.Vector{X: 7, Y: 3}) || b.Velocity() != (cp.Vector{}) {
		t.Fatalf("unexpected state after teleport: pos %+v vel %+v", b.Position(), b.Velocity())
	}
}

func TestJumpRightAfterRetune(t *testing.T) {
	b := groundedBody(t, floorOnly())
	if err := b.Retune(DefaultTuning()); err != nil {
		t.Fatalf("retune: %v", err)
	}
	if !b.Grounded() {
		t.Fatalf("expected grounding to survive retune, contacts %+v", b.Contacts())
	}

	if err := b.Step(Input{JumpPressed: true}, dt); err != nil {
		t.Fatalf("step: %v", err)
	}
	jump := b.Jump()
	if want := jump.MaxJumpVelocity + jump.Gravity*dt; !approx(b.Velocity().Y, want) {
		t.Fatalf("expected vy %f after jump, got %f", want, b.Velocity().Y)
	}
}

func TestTeleportClearsContacts(t *testing.T) {
	b := groundedBody(t, floorOnly())
	if err := b.Step(Input{Axis: cp.Vector{X: -1}}, dt); err != nil {
		t.Fatalf("step: %v", err)
	}

	b.Teleport(cp.Vector{X: 0, Y: 30})
	c := b.Contacts()
	if c.Any() {
		t.Fatalf("expected no contacts after teleport, got %+v", c)
	}
	if c.Facing != -1 {
		t.Fatalf("expected facing kept across teleport, got %d", c.Facing)
	}

	if err := b.Step(Input{JumpPressed: true}, dt); err != nil {
		t.Fatalf("step: %v", err)
	}
	if want := b.Jump().Gravity * dt; !approx(b.Velocity().Y, want) {
		t.Fatalf("expected mid-air jump to be ignored (vy %f), got %f", want, b.Velocity().Y)
	}
}
