package raycast

import "github.com/jakecoffman/cp"

// Hit is the nearest intersection reported by a Caster.
type Hit struct {
	Distance float64
	Point    cp.Vector
	Normal   cp.Vector
}

// Caster answers ray queries against solid geometry. dir is a unit vector and
// only shapes whose category intersects mask may be reported.
type Caster interface {
	CastRay(origin, dir cp.Vector, maxDist float64, mask uint) (Hit, bool)
}

// BoundsSource reports the current world-space extents of a volume.
type BoundsSource interface {
	Bounds() cp.BB
}

// Ray is a single cast recorded for debug drawing.
type Ray struct {
	Origin cp.Vector
	Dir    cp.Vector
	Length float64
	Hit    bool
}
