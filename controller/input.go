package controller

import "github.com/jakecoffman/cp"

// Input is the per-step control signal. Axis components are in [-1, 1];
// the jump fields are edges, true only on the step the button changed.
type Input struct {
	Axis         cp.Vector
	JumpPressed  bool
	JumpReleased bool
}
