package controller

import (
	"math"

	"github.com/milk9111/raycontroller/raycast"
)

// Tuning holds the designer-facing movement settings of a body.
type Tuning struct {
	MoveSpeed float64

	MaxJumpHeight  float64
	MinJumpHeight  float64
	TimeToJumpApex float64

	AccelerationTimeAirborne float64
	AccelerationTimeGrounded float64

	// collider size in world units
	Width  float64
	Height float64

	Collision raycast.Config
}

func DefaultTuning() Tuning {
	return Tuning{
		MoveSpeed:                6,
		MaxJumpHeight:            4,
		MinJumpHeight:            1,
		TimeToJumpApex:           0.4,
		AccelerationTimeAirborne: 0.2,
		AccelerationTimeGrounded: 0.1,
		Width:                    1,
		Height:                   1,
		Collision:                raycast.DefaultConfig(),
	}
}

// JumpConstants are derived once from a Tuning.
type JumpConstants struct {
	Gravity         float64
	MaxJumpVelocity float64
	MinJumpVelocity float64
}

// Jump derives gravity and launch speeds from the apex height and time.
func (t Tuning) Jump() JumpConstants {
	gravity := -(2 * t.MaxJumpHeight) / (t.TimeToJumpApex * t.TimeToJumpApex)
	return JumpConstants{
		Gravity:         gravity,
		MaxJumpVelocity: math.Abs(gravity) * t.TimeToJumpApex,
		MinJumpVelocity: math.Sqrt(2 * math.Abs(gravity) * t.MinJumpHeight),
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Validate reports the first setting that would make the derived constants
// meaningless.
func (t Tuning) Validate() error {
	switch {
	case !positive(t.MoveSpeed):
		return &raycast.ConfigurationError{Field: "move speed", Reason: "must be positive"}
	case !positive(t.MaxJumpHeight):
		return &raycast.ConfigurationError{Field: "max jump height", Reason: "must be positive"}
	case !positive(t.MinJumpHeight):
		return &raycast.ConfigurationError{Field: "min jump height", Reason: "must be positive"}
	case t.MinJumpHeight > t.MaxJumpHeight:
		return &raycast.ConfigurationError{Field: "min jump height", Reason: "must not exceed max jump height"}
	case !positive(t.TimeToJumpApex):
		return &raycast.ConfigurationError{Field: "time to jump apex", Reason: "must be positive"}
	case !(t.AccelerationTimeAirborne >= 0):
		return &raycast.ConfigurationError{Field: "airborne acceleration time", Reason: "must not be negative"}
	case !(t.AccelerationTimeGrounded >= 0):
		return &raycast.ConfigurationError{Field: "grounded acceleration time", Reason: "must not be negative"}
	case !positive(t.Width) || !positive(t.Height):
		return &raycast.ConfigurationError{Field: "collider", Reason: "width and height must be positive"}
	}
	return nil
}
