package system

import (
	"fmt"

	"github.com/milk9111/raycontroller/controller"
	"github.com/milk9111/raycontroller/ecs"
)

// MovementSystem steps every body with its current input. Jump edges are
// consumed so a press is only seen once even if nothing refreshes the input
// before the next step.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (m *MovementSystem) Update(w *ecs.World) error {
	if w == nil {
		return nil
	}
	inputs := w.Inputs()
	for _, e := range w.Bodies().Entities() {
		body, _ := w.Body(e)
		in, _ := inputs.Get(e)
		if err := body.Step(in, w.Delta()); err != nil {
			return fmt.Errorf("movement: entity %s: %w", e, err)
		}
		if p := inputs.Ptr(e); p != nil {
			p.JumpPressed = false
			p.JumpReleased = false
		}
	}
	return nil
}

// SetInput replaces an entity's input, keeping jump edges that have not been
// consumed yet.
func SetInput(w *ecs.World, e ecs.Entity, in controller.Input) {
	if w == nil {
		return
	}
	p := w.Inputs().Ptr(e)
	if p == nil {
		return
	}
	in.JumpPressed = in.JumpPressed || p.JumpPressed
	in.JumpReleased = in.JumpReleased || p.JumpReleased
	*p = in
}
