package controller

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/raycontroller/common"
	"github.com/milk9111/raycontroller/raycast"
)

// Body is a kinematic character: it integrates its own velocity and lets a
// raycast probe clip each step's displacement against solid geometry.
// Position is the centre of its collider.
type Body struct {
	pos     cp.Vector
	vel     cp.Vector
	smoothX float64

	tuning Tuning
	jump   JumpConstants

	caster raycast.Caster
	probe  *raycast.Probe
}

func New(pos cp.Vector, t Tuning, caster raycast.Caster) (*Body, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	b := &Body{pos: pos, tuning: t, jump: t.Jump(), caster: caster}
	probe, err := raycast.New(b, caster, t.Collision)
	if err != nil {
		return nil, err
	}
	b.probe = probe
	return b, nil
}

// Bounds implements raycast.BoundsSource.
func (b *Body) Bounds() cp.BB {
	hw := b.tuning.Width / 2
	hh := b.tuning.Height / 2
	return cp.BB{L: b.pos.X - hw, B: b.pos.Y - hh, R: b.pos.X + hw, T: b.pos.Y + hh}
}

// Step advances the body by dt seconds. Contacts from the previous step
// decide grounding; the ones produced here are visible through Contacts
// once Step returns. Position is untouched when an error is returned.
func (b *Body) Step(in Input, dt float64) error {
	if dt <= 0 {
		return nil
	}
	contacts := b.probe.Contacts()

	targetX := common.Clamp(in.Axis.X, -1, 1) * b.tuning.MoveSpeed
	smoothTime := b.tuning.AccelerationTimeAirborne
	if contacts.Below {
		smoothTime = b.tuning.AccelerationTimeGrounded
	}
	b.vel.X = common.SmoothDamp(b.vel.X, targetX, &b.smoothX, smoothTime, dt)

	if contacts.Above || contacts.Below {
		b.vel.Y = 0
	}
	if in.JumpPressed && contacts.Below {
		b.vel.Y = b.jump.MaxJumpVelocity
	}
	if in.JumpReleased && b.vel.Y > b.jump.MinJumpVelocity {
		b.vel.Y = b.jump.MinJumpVelocity
	}
	b.vel.Y += b.jump.Gravity * dt

	d, _, err := b.probe.Move(b.vel.Mult(dt))
	if err != nil {
		return err
	}
	b.pos = b.pos.Add(d)
	return nil
}

// Retune swaps in new settings, rebuilding the probe so ray spacing follows
// the new collider. The body keeps its position, velocity and contacts, so a
// grounded body can still jump on the next step.
func (b *Body) Retune(t Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}
	prev := b.tuning
	b.tuning = t
	probe, err := raycast.New(b, b.caster, t.Collision)
	if err != nil {
		b.tuning = prev
		return err
	}
	probe.SetContacts(b.probe.Contacts())
	probe.SetDebug(b.probe.Debug())
	b.probe = probe
	b.jump = t.Jump()
	return nil
}

// Teleport moves the body without collision and clears its motion. Contacts
// are cleared too since they describe the old position; facing survives.
func (b *Body) Teleport(pos cp.Vector) {
	b.pos = pos
	b.vel = cp.Vector{}
	b.smoothX = 0
	b.probe.ResetContacts()
}

func (b *Body) Position() cp.Vector {
	return b.pos
}

func (b *Body) Velocity() cp.Vector {
	return b.vel
}

func (b *Body) Contacts() raycast.Contacts {
	return b.probe.Contacts()
}

func (b *Body) Grounded() bool {
	return b.probe.Contacts().Below
}

func (b *Body) Probe() *raycast.Probe {
	return b.probe
}

func (b *Body) Tuning() Tuning {
	return b.tuning
}

func (b *Body) Jump() JumpConstants {
	return b.jump
}
