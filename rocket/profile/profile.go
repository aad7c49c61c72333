// Package profile builds the closed cross-section outlines of fins in the
// chord plane. X is axial with the leading edge at ForeX and the trailing
// edge at ForeX-Chord. Y is the thickness direction.
//
// Every outline starts at the leading edge point (ForeX, 0), runs
// counter-clockwise and is convex.
package profile

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/form2"
	"github.com/rocketcad/sdf/internal/d2"
	"github.com/rocketcad/sdf/rocket"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// facets per full turn used to sample round edges.
	facets = 48
	// airfoilPoints is the number of stations per airfoil side.
	airfoilPoints = 24
	tolerance     = 1e-9
)

// Params dimension one cross section.
type Params struct {
	Kind      rocket.CrossSection
	ForeX     float64
	Chord     float64
	Thickness float64
	// Height is the span station of the section. It does not change the outline.
	Height float64
	// Percent selects Length1 and Length2 as percentages of the chord.
	Percent bool
	// Length1 is measured from the leading edge, except for TaperTE where it
	// is the length of the trailing taper.
	Length1 float64
	// Length2 is measured from the leading edge. See EffectiveLength2.
	Length2 float64
}

// EffectiveLength2 converts a user length2 to the builder convention. In
// absolute mode the user value is measured from the trailing edge.
func EffectiveLength2(percent bool, chord, length2 float64) float64 {
	if percent {
		return length2
	}
	return chord - length2
}

// Profile is a built cross section.
type Profile struct {
	Params
	Outline []r2.Vec
}

// Validate checks the dimensions for the kind.
func (p Params) Validate() error {
	if p.Kind == rocket.Same || !p.Kind.Valid() {
		return fmt.Errorf("profile %v: %w", p.Kind, rocket.ErrUnknownCrossSection)
	}
	if err := rocket.Positive(
		rocket.Field{Name: "Chord", Value: p.Chord},
		rocket.Field{Name: "Thickness", Value: p.Thickness},
	); err != nil {
		return err
	}
	l1, l2 := p.lengths()
	inside := func(name string, l float64) error {
		if !(l > 0 && l < p.Chord) {
			return rocket.Invalid(name, "%g outside chord %g", l, p.Chord)
		}
		return nil
	}
	switch p.Kind {
	case rocket.Round:
		if p.Chord < p.Thickness {
			return rocket.Invalid("Chord", "round section chord %g shorter than thickness %g", p.Chord, p.Thickness)
		}
	case rocket.Diamond, rocket.TaperLE, rocket.TaperTE:
		return inside("Length1", l1)
	case rocket.TaperLETE:
		if err := inside("Length1", l1); err != nil {
			return err
		}
		return inside("Length2", l2)
	}
	return nil
}

// lengths returns Length1 and Length2 in absolute units.
func (p Params) lengths() (l1, l2 float64) {
	if p.Percent {
		return p.Length1 * p.Chord / 100, p.Length2 * p.Chord / 100
	}
	return p.Length1, p.Length2
}

// Build returns the outline for the kind of p.
func Build(p Params) (Profile, error) {
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	var v []r2.Vec
	switch p.Kind {
	case rocket.Square:
		v = p.square()
	case rocket.Round:
		v = p.round()
	case rocket.Airfoil:
		v = p.airfoil()
	case rocket.Wedge:
		v = p.wedge()
	case rocket.Diamond:
		v = p.diamond()
	case rocket.TaperLE:
		v = p.taperLE()
	case rocket.TaperTE:
		v = p.taperTE()
	case rocket.TaperLETE:
		v = p.taperLETE()
	default:
		return Profile{}, fmt.Errorf("profile %v: %w", p.Kind, rocket.ErrUnknownCrossSection)
	}
	return Profile{Params: p, Outline: clean(v)}, nil
}

func (p Params) te() float64   { return p.ForeX - p.Chord }
func (p Params) half() float64 { return p.Thickness / 2 }

func (p Params) square() []r2.Vec {
	f, te, t := p.ForeX, p.te(), p.half()
	return []r2.Vec{{X: f}, {X: f, Y: t}, {X: te, Y: t}, {X: te, Y: -t}, {X: f, Y: -t}}
}

func (p Params) round() []r2.Vec {
	f, te, t := p.ForeX, p.te(), p.half()
	fc := r2.Vec{X: f - t}
	ac := r2.Vec{X: te + t}
	path := sdf.NewPath(sdf.PlaneXY, r2.Vec{X: f}).
		ArcTo(r2.Vec{X: f - t, Y: t}, fc, true).
		LineTo(r2.Vec{X: te + t, Y: t}).
		ArcTo(r2.Vec{X: te}, ac, true).
		ArcTo(r2.Vec{X: te + t, Y: -t}, ac, true).
		LineTo(r2.Vec{X: f - t, Y: -t}).
		ArcTo(r2.Vec{X: f}, fc, true)
	return path.Vertices(facets)
}

// naca is the symmetric NACA 4-digit half thickness at chord fraction x
// for a section of unit thickness. The trailing edge is closed.
func naca(x float64) float64 {
	return 5 * (0.2969*math.Sqrt(x) - 0.1260*x - 0.3516*x*x + 0.2843*x*x*x - 0.1036*x*x*x*x)
}

func (p Params) airfoil() []r2.Vec {
	n := airfoilPoints
	station := func(i int) (x, y float64) {
		u := (1 - math.Cos(math.Pi*float64(i)/float64(n))) / 2
		y = p.Thickness * naca(u)
		if i == 0 || i == n {
			y = 0
		}
		return p.ForeX - u*p.Chord, y
	}
	v := make([]r2.Vec, 0, 2*n)
	for i := 0; i <= n; i++ {
		x, y := station(i)
		v = append(v, r2.Vec{X: x, Y: y})
	}
	for i := n - 1; i > 0; i-- {
		x, y := station(i)
		v = append(v, r2.Vec{X: x, Y: -y})
	}
	return v
}

func (p Params) wedge() []r2.Vec {
	te, t := p.te(), p.half()
	return []r2.Vec{{X: p.ForeX}, {X: te, Y: t}, {X: te, Y: -t}}
}

func (p Params) diamond() []r2.Vec {
	l1, _ := p.lengths()
	f, t := p.ForeX, p.half()
	return []r2.Vec{{X: f}, {X: f - l1, Y: t}, {X: p.te()}, {X: f - l1, Y: -t}}
}

func (p Params) taperLE() []r2.Vec {
	l1, _ := p.lengths()
	f, te, t := p.ForeX, p.te(), p.half()
	return []r2.Vec{{X: f}, {X: f - l1, Y: t}, {X: te, Y: t}, {X: te, Y: -t}, {X: f - l1, Y: -t}}
}

func (p Params) taperTE() []r2.Vec {
	l1, _ := p.lengths()
	f, te, t := p.ForeX, p.te(), p.half()
	return []r2.Vec{{X: f}, {X: f, Y: t}, {X: te + l1, Y: t}, {X: te}, {X: te + l1, Y: -t}, {X: f, Y: -t}}
}

func (p Params) taperLETE() []r2.Vec {
	l1, l2 := p.lengths()
	if l1 > l2 {
		l1 = (l1 + l2) / 2
		l2 = l1
	}
	f, t := p.ForeX, p.half()
	return []r2.Vec{{X: f}, {X: f - l1, Y: t}, {X: f - l2, Y: t}, {X: p.te()}, {X: f - l2, Y: -t}, {X: f - l1, Y: -t}}
}

// clean drops repeated vertices and the closing vertex.
func clean(v []r2.Vec) []r2.Vec {
	out := v[:0:0]
	for _, p := range v {
		if len(out) > 0 && d2.EqualWithin(p, out[len(out)-1], tolerance) {
			continue
		}
		out = append(out, p)
	}
	if n := len(out); n > 1 && d2.EqualWithin(out[0], out[n-1], tolerance) {
		out = out[:n-1]
	}
	return out
}

// Face returns the outline as a planar region.
func (p Profile) Face() (sdf.SDF2, error) {
	return form2.Polygon(p.Outline)
}

// Ring returns the outline as a closed orb ring.
func (p Profile) Ring() orb.Ring {
	r := make(orb.Ring, len(p.Outline)+1)
	for i, v := range p.Outline {
		r[i] = orb.Point{v.X, v.Y}
	}
	r[len(p.Outline)] = r[0]
	return r
}

// Area returns the enclosed area.
func (p Profile) Area() float64 {
	return planar.Area(p.Ring())
}

// Centroid returns the area centroid.
func (p Profile) Centroid() r2.Vec {
	c, _ := planar.CentroidArea(p.Ring())
	return r2.Vec{X: c[0], Y: c[1]}
}

// Perimeter returns the length of the outline.
func (p Profile) Perimeter() float64 {
	var l float64
	for i, v := range p.Outline {
		l += r2.Norm(r2.Sub(p.Outline[(i+1)%len(p.Outline)], v))
	}
	return l
}

// Contains reports whether q is inside the outline.
func (p Profile) Contains(q r2.Vec) bool {
	return planar.RingContains(p.Ring(), orb.Point{q.X, q.Y})
}

// OffsetPath returns the exact outward offset of the outline by r on
// plane pl: every edge moved r along its outward normal joined by arcs of
// radius r around the vertices.
func (p Profile) OffsetPath(pl sdf.Plane, r float64) *sdf.Path {
	v := p.Outline
	n := len(v)
	normal := func(i int) r2.Vec {
		d := r2.Unit(r2.Sub(v[(i+1)%n], v[i]))
		return r2.Vec{X: d.Y, Y: -d.X}
	}
	prev := normal(n - 1)
	path := sdf.NewPath(pl, r2.Add(v[0], r2.Scale(r, prev)))
	for i := 0; i < n; i++ {
		ni := normal(i)
		if r2.Cross(prev, ni) > tolerance {
			path.ArcTo(r2.Add(v[i], r2.Scale(r, ni)), v[i], true)
		}
		path.LineTo(r2.Add(v[(i+1)%n], r2.Scale(r, ni)))
		prev = ni
	}
	return path
}

// Inflate returns the profile offset outward by r. The chord and
// thickness grow by 2r and the leading edge moves forward by r.
func (p Profile) Inflate(r float64) (Profile, error) {
	if !(r > 0) {
		return Profile{}, rocket.Invalid("FilletRadius", "must be greater than zero, got %g", r)
	}
	if len(p.Outline) < 3 {
		return Profile{}, rocket.Invalid("Outline", "%d vertices", len(p.Outline))
	}
	q := p.Params
	q.ForeX += r
	q.Chord += 2 * r
	q.Thickness += 2 * r
	return Profile{Params: q, Outline: leadingFirst(clean(p.OffsetPath(sdf.PlaneXY, r).Vertices(facets)))}, nil
}

// leadingFirst rotates a closed outline to start at its foremost vertex,
// preferring the one nearest the chord line.
func leadingFirst(v []r2.Vec) []r2.Vec {
	k := 0
	for i, p := range v {
		q := v[k]
		if p.X > q.X+tolerance || (math.Abs(p.X-q.X) <= tolerance && math.Abs(p.Y) < math.Abs(q.Y)) {
			k = i
		}
	}
	return append(v[k:len(v):len(v)], v[:k]...)
}
