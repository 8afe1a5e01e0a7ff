package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/raycontroller/raycast"
)

// Box is a static axis-aligned solid tagged with a collision category.
type Box struct {
	BB       cp.BB
	Category uint
}

// Boxes is a brute-force caster over a flat list of static boxes. It is
// handy for small scenes and tests where a chipmunk space is overkill.
type Boxes struct {
	items []Box
}

func NewBoxes(items ...Box) *Boxes {
	b := &Boxes{}
	for _, it := range items {
		b.Add(it.BB, it.Category)
	}
	return b
}

func (b *Boxes) Add(bb cp.BB, category uint) {
	if category == 0 {
		category = DefaultCategory
	}
	b.items = append(b.items, Box{BB: bb, Category: category})
}

func (b *Boxes) Items() []Box {
	return b.items
}

// CastRay returns the nearest box hit along dir within maxDist. A ray that
// starts on a box face reports distance zero.
func (b *Boxes) CastRay(origin, dir cp.Vector, maxDist float64, mask uint) (raycast.Hit, bool) {
	if b == nil || maxDist <= 0 {
		return raycast.Hit{}, false
	}
	dx := dir.X * maxDist
	dy := dir.Y * maxDist
	if dx == 0 && dy == 0 {
		return raycast.Hit{}, false
	}

	closestT := math.Inf(1)
	var normal cp.Vector
	for _, it := range b.items {
		if it.Category&mask == 0 {
			continue
		}
		hit, t, n := segmentAABBHit(origin.X, origin.Y, dx, dy, it.BB)
		if hit && t < closestT {
			closestT = t
			normal = n
		}
	}
	if math.IsInf(closestT, 1) {
		return raycast.Hit{}, false
	}

	return raycast.Hit{
		Distance: closestT * maxDist,
		Point:    cp.Vector{X: origin.X + dx*closestT, Y: origin.Y + dy*closestT},
		Normal:   normal,
	}, true
}

// segmentAABBHit intersects the segment origin+t*(dx,dy), t in [0,1], with
// bb using the slab method and returns the entry parameter and face normal.
func segmentAABBHit(x0, y0, dx, dy float64, bb cp.BB) (bool, float64, cp.Vector) {
	tmin := 0.0
	tmax := 1.0
	var normal cp.Vector

	if dx != 0 {
		invD := 1.0 / dx
		t1 := (bb.L - x0) * invD
		t2 := (bb.R - x0) * invD
		n := cp.Vector{X: -1}
		if t1 > t2 {
			t1, t2 = t2, t1
			n = cp.Vector{X: 1}
		}
		if t1 > tmin {
			tmin = t1
			normal = n
		}
		tmax = math.Min(tmax, t2)
	} else if x0 < bb.L || x0 > bb.R {
		return false, 0, cp.Vector{}
	}

	if dy != 0 {
		invD := 1.0 / dy
		t1 := (bb.B - y0) * invD
		t2 := (bb.T - y0) * invD
		n := cp.Vector{Y: -1}
		if t1 > t2 {
			t1, t2 = t2, t1
			n = cp.Vector{Y: 1}
		}
		if t1 > tmin {
			tmin = t1
			normal = n
		}
		tmax = math.Min(tmax, t2)
	} else if y0 < bb.B || y0 > bb.T {
		return false, 0, cp.Vector{}
	}

	if tmax < tmin {
		return false, 0, cp.Vector{}
	}
	if normal == (cp.Vector{}) {
		// started on or inside the box
		normal = cp.Vector{X: -dx, Y: -dy}.Normalize()
	}
	return true, tmin, normal
}
