package raycast

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/raycontroller/common"
)

const (
	DefaultSkinWidth      = 0.015
	DefaultHorizontalRays = 6
	DefaultVerticalRays   = 4
	DefaultMask           = 1

	minRays = 2
)

// Config holds the probe settings that are fixed for its lifetime.
type Config struct {
	Mask           uint
	HorizontalRays int
	VerticalRays   int
	SkinWidth      float64

	Logger *log.Logger
}

func DefaultConfig() Config {
	return Config{
		Mask:           DefaultMask,
		HorizontalRays: DefaultHorizontalRays,
		VerticalRays:   DefaultVerticalRays,
		SkinWidth:      DefaultSkinWidth,
	}
}

// Probe casts fans of rays from the edges of a volume to find how far it can
// move along each axis before touching solid geometry.
type Probe struct {
	source BoundsSource
	caster Caster
	mask   uint
	skin   float64

	horizontalRays    int
	verticalRays      int
	horizontalSpacing float64
	verticalSpacing   float64

	volume   cp.BB
	origins  Origins
	contacts Contacts

	debug bool
	rays  []Ray
}

// New builds a probe for the volume reported by source. Ray counts below two
// are raised to two so spacing is always defined.
func New(source BoundsSource, caster Caster, cfg Config) (*Probe, error) {
	if source == nil {
		return nil, &ConfigurationError{Field: "source", Reason: "missing", Err: ErrNilSource}
	}
	if caster == nil {
		return nil, &ConfigurationError{Field: "caster", Reason: "missing", Err: ErrNilCaster}
	}
	if cfg.SkinWidth < 0 || math.IsNaN(cfg.SkinWidth) || math.IsInf(cfg.SkinWidth, 0) {
		return nil, configErr("skin width", "must be a finite value >= 0")
	}

	p := &Probe{
		source:         source,
		caster:         caster,
		mask:           cfg.Mask,
		skin:           cfg.SkinWidth,
		horizontalRays: max(cfg.HorizontalRays, minRays),
		verticalRays:   max(cfg.VerticalRays, minRays),
		contacts:       Contacts{Facing: 1},
	}

	volume, err := p.shrink(source.Bounds())
	if err != nil {
		return nil, err
	}
	p.horizontalSpacing = (volume.T - volume.B) / float64(p.horizontalRays-1)
	p.verticalSpacing = (volume.R - volume.L) / float64(p.verticalRays-1)
	p.setVolume(volume)

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Debug("raycast probe ready",
		"horizontal_rays", p.horizontalRays,
		"vertical_rays", p.verticalRays,
		"skin", p.skin,
	)
	return p, nil
}

func (p *Probe) shrink(bb cp.BB) (cp.BB, error) {
	bb = cp.BB{L: bb.L + p.skin, B: bb.B + p.skin, R: bb.R - p.skin, T: bb.T - p.skin}
	w := bb.R - bb.L
	h := bb.T - bb.B
	if !(w > 0) {
		return cp.BB{}, configErr("volume", "width must be greater than twice the skin width")
	}
	if !(h > 0) {
		return cp.BB{}, configErr("volume", "height must be greater than twice the skin width")
	}
	return bb, nil
}

func (p *Probe) setVolume(bb cp.BB) {
	p.volume = bb
	p.origins = Origins{
		BottomLeft:  cp.Vector{X: bb.L, Y: bb.B},
		BottomRight: cp.Vector{X: bb.R, Y: bb.B},
		TopLeft:     cp.Vector{X: bb.L, Y: bb.T},
		TopRight:    cp.Vector{X: bb.R, Y: bb.T},
	}
}

// Refresh re-reads the volume from its source and recomputes the ray
// origins. It must run once per step before any Resolve call.
func (p *Probe) Refresh() error {
	volume, err := p.shrink(p.source.Bounds())
	if err != nil {
		return err
	}
	p.setVolume(volume)
	if p.debug {
		p.rays = p.rays[:0]
	}
	return nil
}

func (p *Probe) ResetContacts() {
	p.contacts.Reset()
}

// ResolveHorizontal returns d with its X component clamped so the volume
// stops skin width short of the nearest wall in the facing direction.
func (p *Probe) ResolveHorizontal(d cp.Vector) cp.Vector {
	if d.X != 0 {
		p.contacts.Facing = int(common.Sign(d.X))
	}
	dirX := float64(p.contacts.Facing)

	rayLength := math.Abs(d.X) + p.skin
	if math.Abs(d.X) < p.skin {
		rayLength = 2 * p.skin
	}

	base := p.origins.BottomRight
	if dirX < 0 {
		base = p.origins.BottomLeft
	}
	dir := cp.Vector{X: dirX}

	for i := 0; i < p.horizontalRays; i++ {
		origin := cp.Vector{X: base.X, Y: base.Y + p.horizontalSpacing*float64(i)}
		hit, ok := p.caster.CastRay(origin, dir, rayLength, p.mask)
		p.record(origin, dir, rayLength, ok)
		if !ok {
			continue
		}
		// already touching: resting flush against a wall must not freeze the body
		if hit.Distance == 0 {
			continue
		}

		d.X = (hit.Distance - p.skin) * dirX
		rayLength = hit.Distance

		p.contacts.Left = dirX < 0
		p.contacts.Right = dirX > 0
	}
	return d
}

// ResolveVertical returns d with its Y component clamped against floors or
// ceilings. Ray origins are shifted by the already resolved d.X so a
// diagonal move cannot clip a corner. A zero d.Y is returned unchanged.
func (p *Probe) ResolveVertical(d cp.Vector) cp.Vector {
	if d.Y == 0 {
		return d
	}
	dirY := common.Sign(d.Y)
	rayLength := math.Abs(d.Y) + p.skin

	base := p.origins.TopLeft
	if dirY < 0 {
		base = p.origins.BottomLeft
	}
	dir := cp.Vector{Y: dirY}

	for i := 0; i < p.verticalRays; i++ {
		origin := cp.Vector{X: base.X + p.verticalSpacing*float64(i) + d.X, Y: base.Y}
		hit, ok := p.caster.CastRay(origin, dir, rayLength, p.mask)
		p.record(origin, dir, rayLength, ok)
		if !ok {
			continue
		}

		d.Y = (hit.Distance - p.skin) * dirY
		rayLength = hit.Distance

		p.contacts.Below = dirY < 0
		p.contacts.Above = dirY > 0
	}
	return d
}

// Move runs a full resolution pass for one step and returns the corrected
// displacement with the contacts it produced.
func (p *Probe) Move(d cp.Vector) (cp.Vector, Contacts, error) {
	if err := p.Refresh(); err != nil {
		return cp.Vector{}, p.contacts, err
	}
	p.ResetContacts()

	d = p.ResolveHorizontal(d)
	if d.Y != 0 {
		d = p.ResolveVertical(d)
	}
	return d, p.contacts, nil
}

func (p *Probe) record(origin, dir cp.Vector, length float64, hit bool) {
	if !p.debug {
		return
	}
	p.rays = append(p.rays, Ray{Origin: origin, Dir: dir, Length: length, Hit: hit})
}

// SetDebug toggles ray recording for Rays.
func (p *Probe) SetDebug(on bool) {
	p.debug = on
	if !on {
		p.rays = nil
	}
}

func (p *Probe) Debug() bool {
	return p.debug
}

// Rays returns the rays cast since the last Refresh. Empty unless debug
// recording is on.
func (p *Probe) Rays() []Ray {
	return p.rays
}

func (p *Probe) Contacts() Contacts {
	return p.contacts
}

func (p *Probe) Origins() Origins {
	return p.origins
}

// Volume is the skin-shrunk box computed by the last Refresh.
func (p *Probe) Volume() cp.BB {
	return p.volume
}

func (p *Probe) SkinWidth() float64 {
	return p.skin
}

func (p *Probe) Mask() uint {
	return p.mask
}

func (p *Probe) RayCounts() (horizontal, vertical int) {
	return p.horizontalRays, p.verticalRays
}

func (p *Probe) Spacing() (horizontal, vertical float64) {
	return p.horizontalSpacing, p.verticalSpacing
}

// SetContacts seeds the contact state, e.g. when a probe replaces another
// mid-game. Facing is normalised to -1 or 1.
func (p *Probe) SetContacts(c Contacts) {
	c.Facing = int(common.Sign(float64(c.Facing)))
	p.contacts = c
}
