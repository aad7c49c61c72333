package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Elem returns a vector with every component set to v.
func Elem(v float64) r3.Vec { return r3.Vec{X: v, Y: v, Z: v} }

// EqualWithin reports whether a and b differ by at most tol per component.
func EqualWithin(a, b r3.Vec, tol float64) bool {
	d := AbsElem(r3.Sub(a, b))
	return Max(d) <= tol
}

// LTZero reports whether any component is negative.
func LTZero(a r3.Vec) bool { return Min(a) < 0 }

// LTEZero reports whether any component is zero or negative.
func LTEZero(a r3.Vec) bool { return Min(a) <= 0 }

// MinElem returns the componentwise minimum of a and b.
func MinElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxElem returns the componentwise maximum of a and b.
func MaxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// Max returns the largest component of a.
func Max(a r3.Vec) float64 { return math.Max(a.X, math.Max(a.Y, a.Z)) }

// Min returns the smallest component of a.
func Min(a r3.Vec) float64 { return math.Min(a.X, math.Min(a.Y, a.Z)) }

// AbsElem returns a with every component made non-negative.
func AbsElem(a r3.Vec) r3.Vec {
	return r3.Vec{X: math.Abs(a.X), Y: math.Abs(a.Y), Z: math.Abs(a.Z)}
}

// Set is a list of points, used for bounding box corners.
type Set []r3.Vec

// Min returns the componentwise minimum of a non-empty set.
func (a Set) Min() r3.Vec {
	m := a[0]
	for _, v := range a[1:] {
		m = MinElem(m, v)
	}
	return m
}

// Max returns the componentwise maximum of a non-empty set.
func (a Set) Max() r3.Vec {
	m := a[0]
	for _, v := range a[1:] {
		m = MaxElem(m, v)
	}
	return m
}

// FromR2 lifts v to the plane at height z.
func FromR2(v r2.Vec, z float64) r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: z} }
