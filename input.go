package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/raycontroller/controller"
)

const stickDeadzone = 0.2

var jumpKeys = []ebiten.Key{ebiten.KeySpace, ebiten.KeyW, ebiten.KeyArrowUp}

// readInput polls keyboard and the first gamepad. Jump edges come from
// inpututil so a press is reported on exactly one tick.
func readInput() controller.Input {
	var in controller.Input

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Axis.X -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Axis.X += 1
	}
	for _, k := range jumpKeys {
		in.JumpPressed = in.JumpPressed || inpututil.IsKeyJustPressed(k)
		in.JumpReleased = in.JumpReleased || inpututil.IsKeyJustReleased(k)
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		y := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Abs(x) > stickDeadzone {
			in.Axis.X = x
		}
		if math.Abs(y) > stickDeadzone {
			// gamepad Y points down
			in.Axis.Y = -y
		}

		button := ebiten.StandardGamepadButtonRightBottom
		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, button)
		in.JumpReleased = in.JumpReleased || inpututil.IsStandardGamepadButtonJustReleased(id, button)
	}
	return in
}
