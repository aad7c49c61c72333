package sdf

import (
	"math"

	"github.com/rocketcad/sdf/internal/d2"
	"github.com/rocketcad/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Plane is an oriented plane in space. U and V are orthonormal in-plane
// axes and the normal is U x V.
type Plane struct {
	Origin r3.Vec
	U, V   r3.Vec
}

// Canonical planes through the origin.
var (
	PlaneXY = Plane{U: r3.Vec{X: 1}, V: r3.Vec{Y: 1}}
	PlaneXZ = Plane{U: r3.Vec{X: 1}, V: r3.Vec{Z: 1}}
	PlaneYZ = Plane{U: r3.Vec{Y: 1}, V: r3.Vec{Z: 1}}
)

// NewPlane returns a plane through origin spanned by u and v.
// The in-plane axes are orthonormalized starting from u.
// It panics if u and v are parallel.
func NewPlane(origin, u, v r3.Vec) Plane {
	if r3.Norm(r3.Cross(u, v)) < epsilon {
		panic("degenerate plane axes")
	}
	u = r3.Unit(u)
	v = r3.Unit(r3.Sub(v, r3.Scale(r3.Dot(u, v), u)))
	return Plane{Origin: origin, U: u, V: v}
}

// Normal returns the unit normal of the plane.
func (pl Plane) Normal() r3.Vec {
	return r3.Unit(r3.Cross(pl.U, pl.V))
}

// Offset returns the plane translated by d along its normal.
func (pl Plane) Offset(d float64) Plane {
	pl.Origin = r3.Add(pl.Origin, r3.Scale(d, pl.Normal()))
	return pl
}

// Point maps in-plane coordinates to a point in space.
func (pl Plane) Point(p r2.Vec) r3.Vec {
	return r3.Add(pl.Origin, r3.Add(r3.Scale(p.X, pl.U), r3.Scale(p.Y, pl.V)))
}

// Project returns the in-plane coordinates of p and its signed height
// above the plane.
func (pl Plane) Project(p r3.Vec) (r2.Vec, float64) {
	d := r3.Sub(p, pl.Origin)
	return r2.Vec{X: r3.Dot(d, pl.U), Y: r3.Dot(d, pl.V)}, r3.Dot(d, pl.Normal())
}

// Face is a planar region.
type Face struct {
	Plane
	Region SDF2
}

// corners returns the corners of the face region bounding box in space.
func (f Face) corners() d3.Set {
	v := d2.Box(f.Region.Bounds()).Vertices()
	c := make(d3.Set, len(v))
	for i := range v {
		c[i] = f.Point(v[i])
	}
	return c
}

// loftFaces is a solid spanning two faces on parallel planes.
type loftFaces struct {
	a, b   Face
	height float64 // signed distance from a to b along the normal of a.
	bb     r3.Box
}

// LoftFaces returns the solid that transitions between faces a and b.
// Sections between the two planes blend the region distances linearly.
// It panics if the planes are not parallel or coincide.
func LoftFaces(a, b Face) SDF3 {
	if a.Region == nil || b.Region == nil {
		panic("nil face region")
	}
	na, nb := a.Normal(), b.Normal()
	if r3.Norm(r3.Cross(na, nb)) > 1e-6 {
		panic("loft faces are not parallel")
	}
	_, h := a.Project(b.Origin)
	if math.Abs(h) < epsilon {
		panic("loft faces are coplanar")
	}
	c := append(a.corners(), b.corners()...)
	return &loftFaces{
		a:      a,
		b:      b,
		height: h,
		bb:     r3.Box{Min: c.Min(), Max: c.Max()},
	}
}

// Evaluate returns the minimum distance to the loft.
func (s *loftFaces) Evaluate(p r3.Vec) float64 {
	pa, h := s.a.Project(p)
	pb, _ := s.b.Project(p)
	k := Clamp(h/s.height, 0, 1)
	d := Mix(s.a.Region.Evaluate(pa), s.b.Region.Evaluate(pb), k)
	half := math.Abs(s.height) / 2
	return roundedSlab(d, math.Abs(h-s.height/2)-half)
}

// Bounds returns the bounding box of the loft.
func (s *loftFaces) Bounds() r3.Box {
	return s.bb
}

// extrudeFace is a face extruded along its normal.
type extrudeFace struct {
	f     Face
	depth float64
	bb    r3.Box
}

// ExtrudeFace extrudes a face along its normal by depth. A negative depth
// extrudes against the normal.
func ExtrudeFace(f Face, depth float64) SDF3 {
	if f.Region == nil {
		panic("nil face region")
	}
	if depth == 0 {
		panic("zero extrusion depth")
	}
	top := Face{Plane: f.Offset(depth), Region: f.Region}
	c := append(f.corners(), top.corners()...)
	return &extrudeFace{f: f, depth: depth, bb: r3.Box{Min: c.Min(), Max: c.Max()}}
}

// Evaluate returns the minimum distance to the extrusion.
func (s *extrudeFace) Evaluate(p r3.Vec) float64 {
	pp, h := s.f.Project(p)
	return math.Max(s.f.Region.Evaluate(pp), math.Abs(h-s.depth/2)-math.Abs(s.depth)/2)
}

// Bounds returns the bounding box of the extrusion.
func (s *extrudeFace) Bounds() r3.Box {
	return s.bb
}
