package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer produces the triangles of a mesh in batches. ReadTriangles
// returns io.EOF once the whole mesh has been read.
type Renderer interface {
	ReadTriangles(dst []Triangle3) (int, error)
}

// Triangle3 is a 3D triangle. Vertices are counter-clockwise when seen
// from outside the solid.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	n := r3.Cross(e1, e2)
	if l := r3.Norm(n); l > 0 {
		return r3.Scale(1/l, n)
	}
	return r3.Vec{}
}

// Area returns the area of the triangle.
func (t Triangle3) Area() float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0])))
}

// Degenerate returns true if two vertices of the triangle are within tol
// of each other.
func (t Triangle3) Degenerate(tol float64) bool {
	return r3.Norm(r3.Sub(t.V[0], t.V[1])) <= tol ||
		r3.Norm(r3.Sub(t.V[1], t.V[2])) <= tol ||
		r3.Norm(r3.Sub(t.V[2], t.V[0])) <= tol
}
