package d3

import "gonum.org/v1/gonum/spatial/r3"

// Box is a 3d bounding box.
type Box r3.Box

// NewBox creates a 3d box with a given center and size.
func NewBox(center, size r3.Vec) Box {
	half := r3.Scale(0.5, size)
	return Box{Min: r3.Sub(center, half), Max: r3.Add(center, half)}
}

// Extend returns a box enclosing two 3d boxes.
func (a Box) Extend(b Box) Box {
	return Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Size returns the size of a 3d box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Center returns the center of a 3d box.
func (a Box) Center() r3.Vec {
	return r3.Add(a.Min, r3.Scale(0.5, a.Size()))
}

// ScaleAboutCenter returns a new 3d box scaled about the center of a box.
func (a Box) ScaleAboutCenter(k float64) Box {
	return NewBox(a.Center(), r3.Scale(k, a.Size()))
}

// Enlarge returns a new 3d box enlarged by a size vector.
func (a Box) Enlarge(v r3.Vec) Box {
	v = r3.Scale(0.5, v)
	return Box{
		Min: r3.Sub(a.Min, v),
		Max: r3.Add(a.Max, v),
	}
}

// Vertices returns a slice of 3d box corner vertices.
func (a Box) Vertices() Set {
	v := make([]r3.Vec, 8)
	v[0] = a.Min
	v[1] = r3.Vec{X: a.Min.X, Y: a.Min.Y, Z: a.Max.Z}
	v[2] = r3.Vec{X: a.Min.X, Y: a.Max.Y, Z: a.Min.Z}
	v[3] = r3.Vec{X: a.Min.X, Y: a.Max.Y, Z: a.Max.Z}
	v[4] = r3.Vec{X: a.Max.X, Y: a.Min.Y, Z: a.Min.Z}
	v[5] = r3.Vec{X: a.Max.X, Y: a.Min.Y, Z: a.Max.Z}
	v[6] = r3.Vec{X: a.Max.X, Y: a.Max.Y, Z: a.Min.Z}
	v[7] = a.Max
	return v
}
