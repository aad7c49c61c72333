package must2

import (
	"math"

	"github.com/rocketcad/sdf/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	tolerance = 1e-9
)

// 2D Circle

// circle is the 2d signed distance object for a circle.
type circle struct {
	center r2.Vec
	radius float64
	bb     r2.Box
}

// Circle returns the SDF2 for a 2d circle centered on the origin.
func Circle(radius float64) *circle {
	return CircleAt(r2.Vec{}, radius)
}

// CircleAt returns the SDF2 for a 2d circle centered on c.
func CircleAt(c r2.Vec, radius float64) *circle {
	if radius <= 0 {
		panic("radius <= 0")
	}
	d := d2.Elem(radius)
	return &circle{
		center: c,
		radius: radius,
		bb:     r2.Box{Min: r2.Sub(c, d), Max: r2.Add(c, d)},
	}
}

// Evaluate returns the minimum distance to a 2d circle.
func (s *circle) Evaluate(p r2.Vec) float64 {
	return r2.Norm(r2.Sub(p, s.center)) - s.radius
}

// Bounds returns the bounding box of a 2d circle.
func (s *circle) Bounds() r2.Box {
	return s.bb
}

// 2D Box (rounded corners with round > 0)

// box is the 2d signed distance object for a rectangular box.
type box struct {
	center r2.Vec
	size   r2.Vec // half size minus rounding
	round  float64
	bb     r2.Box
}

// Box returns a 2d box centered on the origin.
func Box(size r2.Vec, round float64) *box {
	return Rect(r2.Scale(-0.5, size), r2.Scale(0.5, size), round)
}

// Rect returns a 2d box spanning from min to max.
func Rect(min, max r2.Vec, round float64) *box {
	size := r2.Sub(max, min)
	if d2.LTEZero(size) {
		panic("box size <= 0")
	}
	if round < 0 || 2*round > d2.Min(size) {
		panic("invalid box rounding")
	}
	half := r2.Scale(0.5, size)
	return &box{
		center: r2.Add(min, half),
		size:   r2.Sub(half, d2.Elem(round)),
		round:  round,
		bb:     r2.Box{Min: min, Max: max},
	}
}

// Evaluate returns the minimum distance to a 2d box.
func (s *box) Evaluate(p r2.Vec) float64 {
	return sdfBox2d(r2.Sub(p, s.center), s.size) - s.round
}

// Bounds returns the bounding box for a 2d box.
func (s *box) Bounds() r2.Box {
	return s.bb
}

// sdfBox2d is the exact distance to a box with half extents s.
func sdfBox2d(p, s r2.Vec) float64 {
	d := r2.Sub(d2.AbsElem(p), s)
	outside := r2.Norm(d2.MaxElem(d, r2.Vec{}))
	inside := math.Min(d2.Max(d), 0)
	return outside + inside
}
