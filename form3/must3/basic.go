package must3

import (
	"math"

	"github.com/rocketcad/sdf/internal/d2"
	"github.com/rocketcad/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// box is a 3d box.
type box struct {
	size  r3.Vec
	round float64
	bb    r3.Box
}

// Box return an SDF3 for a 3d box (rounded corners with round > 0).
func Box(size r3.Vec, round float64) *box {
	if d3.LTEZero(size) {
		panic("size <= 0")
	}
	if round < 0 {
		panic("round < 0")
	}
	if 2*round > d3.Min(size) {
		panic("round > size/2")
	}
	size = r3.Scale(0.5, size)
	s := box{
		size:  r3.Sub(size, d3.Elem(round)),
		round: round,
		bb:    r3.Box{Min: r3.Scale(-1, size), Max: size},
	}
	return &s
}

// Evaluate returns the minimum distance to a 3d box.
func (s *box) Evaluate(p r3.Vec) float64 {
	return sdfBox3d(p, s.size) - s.round
}

// Bounds returns the bounding box for a 3d box.
func (s *box) Bounds() r3.Box {
	return s.bb
}

// Sphere (exact distance field)

// sphere is a sphere.
type sphere struct {
	radius float64
	bb     r3.Box
}

// Sphere return an SDF3 for a sphere.
func Sphere(radius float64) *sphere {
	if radius <= 0 {
		panic("radius <= 0")
	}
	d := d3.Elem(radius)
	return &sphere{
		radius: radius,
		bb:     r3.Box{Min: r3.Scale(-1, d), Max: d},
	}
}

// Evaluate returns the minimum distance to a sphere.
func (s *sphere) Evaluate(p r3.Vec) float64 {
	return r3.Norm(p) - s.radius
}

// Bounds returns the bounding box for a sphere.
func (s *sphere) Bounds() r3.Box {
	return s.bb
}

// Cylinder (exact distance field)

// cylinder is a cylinder along the z axis centered on the origin.
type cylinder struct {
	height float64
	radius float64
	round  float64
	bb     r3.Box
}

// Cylinder return an SDF3 for a cylinder (rounded edges with round > 0).
func Cylinder(height, radius, round float64) *cylinder {
	if radius <= 0 {
		panic("radius <= 0")
	}
	if height <= 0 {
		panic("height <= 0")
	}
	if round < 0 {
		panic("round < 0")
	}
	if round > radius {
		panic("round > radius")
	}
	if height < 2.0*round {
		panic("height < 2 * round")
	}
	d := r3.Vec{X: radius, Y: radius, Z: height / 2}
	return &cylinder{
		height: (height / 2) - round,
		radius: radius - round,
		round:  round,
		bb:     r3.Box{Min: r3.Scale(-1, d), Max: d},
	}
}

// Evaluate returns the minimum distance to a cylinder.
func (s *cylinder) Evaluate(p r3.Vec) float64 {
	d := sdfBox2d(r2.Vec{X: math.Hypot(p.X, p.Y), Y: p.Z}, r2.Vec{X: s.radius, Y: s.height})
	return d - s.round
}

// Bounds returns the bounding box for a cylinder.
func (s *cylinder) Bounds() r3.Box {
	return s.bb
}

func sdfBox2d(p, s r2.Vec) float64 {
	d := r2.Sub(d2.AbsElem(p), s)
	return r2.Norm(d2.MaxElem(d, r2.Vec{})) + math.Min(d2.Max(d), 0)
}

func sdfBox3d(p, s r3.Vec) float64 {
	d := r3.Sub(d3.AbsElem(p), s)
	return r3.Norm(d3.MaxElem(d, r3.Vec{})) + math.Min(d3.Max(d), 0)
}
