package render

import (
	"math"

	"github.com/rocketcad/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// OpenEdges returns the number of distinct edges in model that are not
// shared by exactly two triangles. A closed manifold mesh has none.
// Vertices are compared exactly.
func OpenEdges(model []Triangle3) int {
	edges := make(map[[2]r3.Vec]int, 3*len(model)/2)
	for _, t := range model {
		for i := 0; i < 3; i++ {
			a, b := t.V[i], t.V[(i+1)%3]
			if vecLess(b, a) {
				a, b = b, a
			}
			edges[[2]r3.Vec{a, b}]++
		}
	}
	open := 0
	for _, n := range edges {
		if n != 2 {
			open++
		}
	}
	return open
}

// Volume returns the signed volume enclosed by a closed mesh. It is
// positive when triangles wind counter-clockwise seen from outside.
func Volume(model []Triangle3) float64 {
	var v float64
	for _, t := range model {
		v += r3.Dot(t.V[0], r3.Cross(t.V[1], t.V[2]))
	}
	return v / 6
}

// Bounds returns the axis aligned box containing every vertex of model.
func Bounds(model []Triangle3) r3.Box {
	inf := math.Inf(1)
	bb := r3.Box{Min: r3.Vec{X: inf, Y: inf, Z: inf}, Max: r3.Vec{X: -inf, Y: -inf, Z: -inf}}
	for _, t := range model {
		for _, v := range t.V {
			bb.Min = d3.MinElem(bb.Min, v)
			bb.Max = d3.MaxElem(bb.Max, v)
		}
	}
	return bb
}
