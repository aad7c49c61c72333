package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// maxCubeTriangles is the most triangles a single cube can produce:
// two for each of its six tetrahedra.
const maxCubeTriangles = 12

// cubeTetrahedra splits a cube into six tetrahedra around the diagonal
// joining corner 0 and corner 6. Every cube face is split along the same
// diagonal as the matching face of its neighbour so the mesh has no cracks.
var cubeTetrahedra = [6][4]int{
	{0, 6, 1, 2},
	{0, 6, 2, 3},
	{0, 6, 3, 7},
	{0, 6, 7, 4},
	{0, 6, 4, 5},
	{0, 6, 5, 1},
}

// mtToTriangles polygonizes a cube with marching tetrahedra and writes the
// resulting triangles to dst. Corners are ordered as in processCube.
func mtToTriangles(dst []Triangle3, p [8]r3.Vec, v [8]float64, iso float64) int {
	n := 0
	for _, tet := range cubeTetrahedra {
		var (
			tp [4]r3.Vec
			tv [4]float64
		)
		for i, c := range tet {
			tp[i], tv[i] = p[c], v[c]-iso
		}
		n += tetraToTriangles(dst[n:], tp, tv)
	}
	return n
}

func tetraToTriangles(dst []Triangle3, p [4]r3.Vec, v [4]float64) int {
	var in, out []int
	for i := range v {
		if v[i] < 0 {
			in = append(in, i)
		} else {
			out = append(out, i)
		}
	}
	var tris [2]Triangle3
	nt := 0
	switch len(in) {
	case 0, 4:
		return 0
	case 1:
		a := in[0]
		tris[0] = Triangle3{V: [3]r3.Vec{
			edgePoint(p[a], v[a], p[out[0]], v[out[0]]),
			edgePoint(p[a], v[a], p[out[1]], v[out[1]]),
			edgePoint(p[a], v[a], p[out[2]], v[out[2]]),
		}}
		nt = 1
	case 3:
		a := out[0]
		tris[0] = Triangle3{V: [3]r3.Vec{
			edgePoint(p[a], v[a], p[in[0]], v[in[0]]),
			edgePoint(p[a], v[a], p[in[1]], v[in[1]]),
			edgePoint(p[a], v[a], p[in[2]], v[in[2]]),
		}}
		nt = 1
	case 2:
		a, b, c, d := in[0], in[1], out[0], out[1]
		ac := edgePoint(p[a], v[a], p[c], v[c])
		ad := edgePoint(p[a], v[a], p[d], v[d])
		bd := edgePoint(p[b], v[b], p[d], v[d])
		bc := edgePoint(p[b], v[b], p[c], v[c])
		tris[0] = Triangle3{V: [3]r3.Vec{ac, ad, bd}}
		tris[1] = Triangle3{V: [3]r3.Vec{ac, bd, bc}}
		nt = 2
	}
	// Outward is from the inside corners toward the outside corners.
	var ci, co r3.Vec
	for _, i := range in {
		ci = r3.Add(ci, p[i])
	}
	for _, i := range out {
		co = r3.Add(co, p[i])
	}
	dir := r3.Sub(r3.Scale(1/float64(len(out)), co), r3.Scale(1/float64(len(in)), ci))
	for i := 0; i < nt; i++ {
		t := tris[i]
		n := r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))
		if r3.Dot(n, dir) < 0 {
			t.V[1], t.V[2] = t.V[2], t.V[1]
		}
		dst[i] = t
	}
	return nt
}

// edgePoint interpolates the zero crossing on the edge between two corners.
// The corners are put in a fixed order first so neighbouring tetrahedra
// sharing the edge compute identical points.
func edgePoint(p0 r3.Vec, v0 float64, p1 r3.Vec, v1 float64) r3.Vec {
	const tmin = 1e-6
	if vecLess(p1, p0) {
		p0, p1, v0, v1 = p1, p0, v1, v0
	}
	t := 0.5
	if d := v0 - v1; d != 0 {
		t = v0 / d
	}
	t = math.Max(tmin, math.Min(1-tmin, t))
	return r3.Add(p0, r3.Scale(t, r3.Sub(p1, p0)))
}

func vecLess(a, b r3.Vec) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}
