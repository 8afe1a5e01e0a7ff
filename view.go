package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/raycontroller/controller"
	"github.com/milk9111/raycontroller/physics"
	"github.com/milk9111/raycontroller/prefabs"
	"github.com/milk9111/raycontroller/raycast"
	"golang.org/x/image/colornames"
)

const maxPixelsPerUnit = 32

var (
	backgroundColor = color.RGBA{R: 0x1b, G: 0x1d, B: 0x26, A: 0xff}
	solidColor      = colornames.Slategray
	boundsColor     = colornames.Darkslategray
	bodyColor       = colornames.Crimson
	rayMissColor    = color.RGBA{R: 0x7f, G: 0xff, B: 0x7f, A: 0xa0}
	rayHitColor     = colornames.Gold
)

// view maps world units (Y up) to screen pixels (Y down), fitting the level
// into the base resolution.
type view struct {
	ppu    float64
	offX   float64
	offY   float64
	height float64
}

func newView(width, height int) view {
	w, h := float64(width), float64(height)
	ppu := math.Min(baseWidth/w, baseHeight/h)
	ppu = math.Min(ppu, maxPixelsPerUnit)
	return view{
		ppu:    ppu,
		offX:   (baseWidth - w*ppu) / 2,
		offY:   (baseHeight - h*ppu) / 2,
		height: h,
	}
}

func (v view) toScreen(p cp.Vector) (float32, float32) {
	return float32(v.offX + p.X*v.ppu), float32(v.offY + (v.height-p.Y)*v.ppu)
}

func (v view) rect(screen *ebiten.Image, bb cp.BB, fill color.Color) {
	x, y := v.toScreen(cp.Vector{X: bb.L, Y: bb.T})
	w := float32((bb.R - bb.L) * v.ppu)
	h := float32((bb.T - bb.B) * v.ppu)
	vector.FillRect(screen, x, y, w, h, fill, false)
}

func (v view) drawLevel(screen *ebiten.Image, boxes []physics.Box) {
	for _, b := range boxes {
		c := solidColor
		if b.Category == ^uint(0) {
			c = boundsColor
		}
		v.rect(screen, b.BB, c)
	}
}

func (v view) drawBody(screen *ebiten.Image, b *controller.Body, spec *prefabs.PlayerSpec) {
	var fill color.Color = bodyColor
	if spec != nil && spec.Color != nil && spec.Color.Color != nil {
		fill = spec.Color.Color
	}
	v.rect(screen, b.Bounds(), fill)

	// facing marker
	c := b.Contacts()
	pos := b.Position()
	tip := cp.Vector{X: pos.X + float64(c.Facing)*b.Tuning().Width/2, Y: pos.Y}
	x0, y0 := v.toScreen(pos)
	x1, y1 := v.toScreen(tip)
	vector.StrokeLine(screen, x0, y0, x1, y1, 2, colornames.White, true)
}

func (v view) drawRays(screen *ebiten.Image, rays []raycast.Ray) {
	for _, r := range rays {
		c := color.Color(rayMissColor)
		if r.Hit {
			c = rayHitColor
		}
		end := r.Origin.Add(r.Dir.Mult(r.Length))
		x0, y0 := v.toScreen(r.Origin)
		x1, y1 := v.toScreen(end)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, c, false)
	}
}

// drawSpace outlines every chipmunk shape, which shows the merged solids
// the caster actually queries.
func (v view) drawSpace(screen *ebiten.Image, space *physics.Space) {
	if space == nil || space.CP() == nil {
		return
	}
	cp.DrawSpace(space.CP(), &spaceDrawer{screen: screen, view: v})
}
