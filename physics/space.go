package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/raycontroller/levels"
	"github.com/milk9111/raycontroller/raycast"
)

// DefaultCategory is the collision category given to solids that do not
// declare one.
const DefaultCategory uint = 1

const boundsThickness = 1.0

// Space answers ray queries with a chipmunk space holding only static
// shapes. Nothing is ever stepped; chipmunk is used for its spatial index
// and segment queries.
type Space struct {
	space  *cp.Space
	shapes []*cp.Shape
	boxes  []Box
}

func NewSpace() *Space {
	space := cp.NewSpace()
	space.Iterations = 20
	return &Space{space: space}
}

// AddBox adds a static box. A zero category is stored as DefaultCategory.
func (s *Space) AddBox(bb cp.BB, category uint) *cp.Shape {
	if s == nil || s.space == nil {
		return nil
	}
	if category == 0 {
		category = DefaultCategory
	}
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetFilter(cp.ShapeFilter{Group: 0, Categories: category, Mask: ^uint(0)})
	s.space.AddShape(shape)
	s.shapes = append(s.shapes, shape)
	s.boxes = append(s.boxes, Box{BB: bb, Category: category})
	return shape
}

// AddLevel adds every merged solid rectangle of lvl plus a wall of boxes
// just outside the level so bodies cannot leave it.
func (s *Space) AddLevel(lvl *levels.Level) {
	if s == nil || lvl == nil {
		return
	}
	for _, solid := range lvl.SolidRects() {
		s.AddBox(solid.BB, solid.Category)
	}

	w := float64(lvl.Width)
	h := float64(lvl.Height)
	if w <= 0 || h <= 0 {
		return
	}
	t := boundsThickness
	bounds := []cp.BB{
		{L: -t, B: h, R: w + t, T: h + t}, // top
		{L: -t, B: -t, R: w + t, T: 0},    // bottom
		{L: -t, B: 0, R: 0, T: h},         // left
		{L: w, B: 0, R: w + t, T: h},      // right
	}
	for _, bb := range bounds {
		s.AddBox(bb, ^uint(0))
	}
}

// CastRay implements raycast.Caster with a first-hit segment query.
func (s *Space) CastRay(origin, dir cp.Vector, maxDist float64, mask uint) (raycast.Hit, bool) {
	if s == nil || s.space == nil || maxDist <= 0 {
		return raycast.Hit{}, false
	}
	end := origin.Add(dir.Mult(maxDist))
	filter := cp.ShapeFilter{Group: 0, Categories: ^uint(0), Mask: mask}
	info := s.space.SegmentQueryFirst(origin, end, 0, filter)
	if info.Shape == nil {
		return raycast.Hit{}, false
	}
	return raycast.Hit{
		Distance: info.Alpha * maxDist,
		Point:    info.Point,
		Normal:   info.Normal,
	}, true
}

// CP exposes the underlying chipmunk space for debug drawing.
func (s *Space) CP() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

func (s *Space) ShapeCount() int {
	if s == nil {
		return 0
	}
	return len(s.shapes)
}

// Boxes returns the bounding boxes of every shape added so far.
func (s *Space) Boxes() []Box {
	if s == nil {
		return nil
	}
	return append([]Box(nil), s.boxes...)
}
