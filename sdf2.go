package sdf

import (
	"math"

	"github.com/rocketcad/sdf/internal/d2"
	"github.com/rocketcad/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
)

// SDF2 is the interface to a 2d signed distance function object.
// A planar profile or face is an SDF2 placed on a Plane.
type SDF2 interface {
	// Evaluate takes a point in 2D space as input and returns
	// the minimum distance of the SDF2 to the point. The distance
	// is negative if the point is contained within the SDF2.
	Evaluate(p r2.Vec) float64

	// Bounds returns the bounding box that completely contains the SDF2.
	Bounds() r2.Box
}

type SDF2Union interface {
	SDF2
	SetMin(MinFunc)
}

type SDF2Diff interface {
	SDF2
	SetMax(MaxFunc)
}

// cut2 is an SDF2 made by cutting across an existing SDF2.
type cut2 struct {
	sdf SDF2
	a   r2.Vec // point on line
	n   r2.Vec // normal to line
	bb  r2.Box
}

// Cut2D cuts the SDF2 along a line from a in direction v.
// The SDF2 to the right of the line remains.
func Cut2D(sdf SDF2, a, v r2.Vec) SDF2 {
	if sdf == nil {
		panic("nil SDF2 argument to Cut2D")
	}
	v = r2.Unit(v)
	return &cut2{
		sdf: sdf,
		a:   a,
		n:   r2.Vec{X: -v.Y, Y: v.X},
		bb:  sdf.Bounds(),
	}
}

// Evaluate returns the minimum distance to cut SDF2.
func (s *cut2) Evaluate(p r2.Vec) float64 {
	return math.Max(r2.Dot(s.n, r2.Sub(p, s.a)), s.sdf.Evaluate(p))
}

// Bounds returns the bounding box for the cut SDF2.
func (s *cut2) Bounds() r2.Box {
	return s.bb
}

// transform2 is an SDF2 transformed by an affine m33 matrix.
type transform2 struct {
	sdf  SDF2
	mInv m33
	bb   r2.Box
}

// Transform2D applies a transformation matrix to an SDF2.
// Distance is preserved for rotations, translations and mirroring only.
func Transform2D(sdf SDF2, m m33) SDF2 {
	if sdf == nil {
		panic("nil SDF2 argument to Transform2D")
	}
	return &transform2{
		sdf:  sdf,
		mInv: m.Inverse(),
		bb:   m.MulBox(sdf.Bounds()),
	}
}

// Evaluate returns the minimum distance to a transformed SDF2.
func (s *transform2) Evaluate(p r2.Vec) float64 {
	return s.sdf.Evaluate(s.mInv.MulPosition(p))
}

// Bounds returns the bounding box of a transformed SDF2.
func (s *transform2) Bounds() r2.Box {
	return s.bb
}

// Mirror2D returns the union of an SDF2 and its mirror image across the Y axis.
func Mirror2D(sdf SDF2) SDF2 {
	return Union2D(sdf, Transform2D(sdf, MirrorX2D()))
}

// rotateUnion2 defines a union of rotated SDF2s.
type rotateUnion2 struct {
	sdf  SDF2
	num  int
	step m33
	min  MinFunc
	bb   r2.Box
}

// RotateUnion2D returns a union of num copies of an SDF2, each rotated
// by step relative to the previous one. Unlike RotateCopy2D the copies
// may overlap sector boundaries.
func RotateUnion2D(sdf SDF2, num int, step m33) SDF2Union {
	if sdf == nil {
		panic("nil SDF2 argument to RotateUnion2D")
	}
	if num <= 0 {
		return empty2From(sdf)
	}
	s := rotateUnion2{
		sdf:  sdf,
		num:  num,
		step: step.Inverse(),
		min:  math.Min,
	}
	vset := d2.Box(sdf.Bounds()).Vertices()
	bbMin, bbMax := vset.Min(), vset.Max()
	for i := 0; i < num; i++ {
		bbMin = d2.MinElem(bbMin, vset.Min())
		bbMax = d2.MaxElem(bbMax, vset.Max())
		for j := range vset {
			vset[j] = step.MulPosition(vset[j])
		}
	}
	s.bb = r2.Box{Min: bbMin, Max: bbMax}
	return &s
}

// Evaluate returns the minimum distance to a union of rotated SDF2s.
func (s *rotateUnion2) Evaluate(p r2.Vec) float64 {
	d := math.MaxFloat64
	rot := identity2d()
	for i := 0; i < s.num; i++ {
		d = s.min(d, s.sdf.Evaluate(rot.MulPosition(p)))
		rot = rot.Mul(s.step)
	}
	return d
}

// SetMin sets the minimum function to control blending.
func (s *rotateUnion2) SetMin(min MinFunc) {
	s.min = min
}

// Bounds returns the bounding box of a union of rotated SDF2s.
func (s *rotateUnion2) Bounds() r2.Box {
	return s.bb
}

// slice2 creates an SDF2 from a planar slice through an SDF3.
type slice2 struct {
	sdf   SDF3
	plane Plane
	bb    r2.Box
}

// Slice2D returns the cross section of an SDF3 on a plane.
func Slice2D(sdf SDF3, pl Plane) SDF2 {
	if sdf == nil {
		panic("nil SDF3 argument to Slice2D")
	}
	v3 := d3.Box(sdf.Bounds()).Vertices()
	vec := make(d2.Set, len(v3))
	for i, v := range v3 {
		vec[i], _ = pl.Project(v)
	}
	return &slice2{sdf: sdf, plane: pl, bb: r2.Box{Min: vec.Min(), Max: vec.Max()}}
}

// Evaluate returns the minimum distance to the sliced SDF2.
func (s *slice2) Evaluate(p r2.Vec) float64 {
	return s.sdf.Evaluate(s.plane.Point(p))
}

// Bounds returns the bounding box of the sliced SDF2.
func (s *slice2) Bounds() r2.Box {
	return s.bb
}

// union2 is a union of multiple SDF2 objects.
type union2 struct {
	sdf []SDF2
	min MinFunc
	bb  r2.Box
}

// Union2D returns the union of multiple SDF2 objects.
func Union2D(sdf ...SDF2) SDF2Union {
	if len(sdf) == 0 {
		panic("union requires at least one sdf")
	}
	bb := d2.Box(sdf[0].Bounds())
	for _, x := range sdf {
		if x == nil {
			panic("nil argument to Union2D")
		}
		bb = bb.Extend(d2.Box(x.Bounds()))
	}
	return &union2{sdf: sdf, min: math.Min, bb: r2.Box(bb)}
}

// Evaluate returns the minimum distance to the SDF2 union.
func (s *union2) Evaluate(p r2.Vec) float64 {
	// Only children whose box distance range overlaps the nearest box
	// can contribute to the minimum.
	vs := make([]r2.Vec, len(s.sdf))
	minIndex := 0
	for i := range s.sdf {
		vs[i] = d2.Box(s.sdf[i].Bounds()).MinMaxDist2(p)
		if vs[i].X < vs[minIndex].X {
			minIndex = i
		}
	}
	var d float64
	first := true
	for i := range s.sdf {
		if i != minIndex && !d2.Overlap(vs[minIndex], vs[i]) {
			continue
		}
		x := s.sdf[i].Evaluate(p)
		if first {
			first = false
			d = x
		} else {
			d = s.min(d, x)
		}
	}
	return d
}

// SetMin sets the minimum function to control SDF2 blending.
func (s *union2) SetMin(min MinFunc) {
	s.min = min
}

// Bounds returns the bounding box of an SDF2 union.
func (s *union2) Bounds() r2.Box {
	return s.bb
}

// diff2 is the difference of two SDF2s.
type diff2 struct {
	s0  SDF2
	s1  SDF2
	max MaxFunc
	bb  r2.Box
}

// Difference2D returns the difference of two SDF2 objects, s0 - s1.
func Difference2D(s0, s1 SDF2) SDF2Diff {
	if s0 == nil || s1 == nil {
		panic("nil argument to Difference2D")
	}
	return &diff2{s0: s0, s1: s1, max: math.Max, bb: s0.Bounds()}
}

// Evaluate returns the minimum distance to the difference of two SDF2s.
func (s *diff2) Evaluate(p r2.Vec) float64 {
	return s.max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// SetMax sets the maximum function to control blending.
func (s *diff2) SetMax(max MaxFunc) {
	s.max = max
}

// Bounds returns the bounding box of the difference of two SDF2s.
func (s *diff2) Bounds() r2.Box {
	return s.bb
}

// intersection2 is the intersection of two SDF2s.
type intersection2 struct {
	s0  SDF2
	s1  SDF2
	max MaxFunc
	bb  r2.Box
}

// Intersect2D returns the intersection of two SDF2s.
func Intersect2D(s0, s1 SDF2) SDF2Diff {
	if s0 == nil || s1 == nil {
		panic("nil argument to Intersect2D")
	}
	bb0, bb1 := s0.Bounds(), s1.Bounds()
	return &intersection2{
		s0:  s0,
		s1:  s1,
		max: math.Max,
		bb: r2.Box{
			Min: d2.MaxElem(bb0.Min, bb1.Min),
			Max: d2.MinElem(bb0.Max, bb1.Max),
		},
	}
}

// Evaluate returns the minimum distance to the SDF2 intersection.
func (s *intersection2) Evaluate(p r2.Vec) float64 {
	return s.max(s.s0.Evaluate(p), s.s1.Evaluate(p))
}

// SetMax sets the maximum function to control blending.
func (s *intersection2) SetMax(max MaxFunc) {
	s.max = max
}

// Bounds returns the bounding box of an SDF2 intersection.
func (s *intersection2) Bounds() r2.Box {
	return s.bb
}

func empty2From(s SDF2) empty2 {
	return empty2{center: d2.Box(s.Bounds()).Center()}
}

type empty2 struct {
	center r2.Vec
}

var _ SDF2 = empty2{}

func (e empty2) Evaluate(r2.Vec) float64 { return math.MaxFloat64 }

func (e empty2) Bounds() r2.Box { return r2.Box{Min: e.center, Max: e.center} }

func (e empty2) SetMin(MinFunc) {}
func (e empty2) SetMax(MaxFunc) {}
