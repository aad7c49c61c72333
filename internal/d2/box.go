package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Box is a 2d bounding box.
type Box r2.Box

// Extend returns a box enclosing two 2d boxes.
func (a Box) Extend(b Box) Box {
	return Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Include enlarges a 2d box to include a point.
func (a Box) Include(v r2.Vec) Box {
	return Box{Min: MinElem(a.Min, v), Max: MaxElem(a.Max, v)}
}

// Size returns the size of a 2d box.
func (a Box) Size() r2.Vec {
	return r2.Sub(a.Max, a.Min)
}

// Center returns the center of a 2d box.
func (a Box) Center() r2.Vec {
	return r2.Add(a.Min, r2.Scale(0.5, a.Size()))
}

// Vertices returns a slice of 2d box corner vertices.
func (a Box) Vertices() Set {
	return Set{a.Min, {X: a.Max.X, Y: a.Min.Y}, {X: a.Min.X, Y: a.Max.Y}, a.Max}
}

// MinMaxDist2 returns the squared distances from p to the nearest point of
// the box, zero inside it, and to its farthest corner, as (min, max).
func (a Box) MinMaxDist2(p r2.Vec) r2.Vec {
	var far float64
	for _, v := range a.Vertices() {
		far = math.Max(far, r2.Norm2(r2.Sub(v, p)))
	}
	near := r2.Sub(MaxElem(a.Min, MinElem(p, a.Max)), p)
	return r2.Vec{X: r2.Norm2(near), Y: far}
}
