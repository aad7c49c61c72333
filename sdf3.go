package sdf

import (
	"math"
	"strconv"

	"github.com/rocketcad/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D signed distance utility functions.

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

type SDF3Union interface {
	SDF3
	SetMin(MinFunc)
}

type SDF3Diff interface {
	SDF3
	SetMax(MaxFunc)
}

// extrude3 extrudes an SDF2 to an SDF3.
type extrude3 struct {
	sdf    SDF2
	height float64
	bb     r3.Box
}

// Extrude3D does a linear extrude of an SDF2 along Z, centered on z=0.
func Extrude3D(sdf SDF2, height float64) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	s := extrude3{
		sdf:    sdf,
		height: height / 2,
	}
	bb := sdf.Bounds()
	s.bb = r3.Box{Min: d3.FromR2(bb.Min, -s.height), Max: d3.FromR2(bb.Max, s.height)}
	return &s
}

// Evaluate returns the minimum distance to an extrusion.
func (s *extrude3) Evaluate(p r3.Vec) float64 {
	// sdf for the projected 2d surface
	a := s.sdf.Evaluate(r2.Vec{X: p.X, Y: p.Y})
	// sdf for the extrusion region: z = [-height, height]
	b := math.Abs(p.Z) - s.height
	return math.Max(a, b)
}

// Bounds returns the bounding box for an extrusion.
func (s *extrude3) Bounds() r3.Box {
	return s.bb
}

// Extrude/Loft (with rounded edges)
// Blend between sdf0 and sdf1 as we move from bottom to top.

// roundedSlab combines a planar distance a with the axial slab distance b.
func roundedSlab(a, b float64) float64 {
	switch {
	case b > 0 && a < 0:
		return b
	case b > 0:
		return math.Hypot(a, b)
	case a < 0:
		return math.Max(a, b)
	}
	return a
}

// Transform SDF3 (rotation, translation - distance preserving)

// transform3 is an SDF3 transformed with a 4x4 transformation matrix.
type transform3 struct {
	sdf     SDF3
	inverse m44
	bb      r3.Box
}

// Transform3D applies a transformation matrix to an SDF3.
// Distance is *not* preserved with scaling.
func Transform3D(sdf SDF3, matrix m44) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	return &transform3{
		sdf:     sdf,
		inverse: matrix.Inverse(),
		bb:      matrix.MulBox(sdf.Bounds()),
	}
}

// Evaluate returns the minimum distance to a transformed SDF3.
func (s *transform3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.MulPosition(p))
}

// Bounds returns the bounding box of a transformed SDF3.
func (s *transform3) Bounds() r3.Box {
	return s.bb
}

// scaleUniform3 is an SDF3 scaled uniformly in XYZ directions.
type scaleUniform3 struct {
	sdf     SDF3
	k, invK float64
	bb      r3.Box
}

// ScaleUniform3D uniformly scales an SDF3 on all axes. The distance stays exact.
func ScaleUniform3D(sdf SDF3, k float64) SDF3 {
	if k <= 0 {
		panic("scale factor must be positive")
	}
	m := Scale3D(d3.Elem(k))
	return &scaleUniform3{
		sdf:  sdf,
		k:    k,
		invK: 1.0 / k,
		bb:   m.MulBox(sdf.Bounds()),
	}
}

// Evaluate returns the minimum distance to a uniformly scaled SDF3.
func (s *scaleUniform3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(r3.Scale(s.invK, p)) * s.k
}

// Bounds returns the bounding box of a uniformly scaled SDF3.
func (s *scaleUniform3) Bounds() r3.Box {
	return s.bb
}

// union3 is a union of SDF3s.
type union3 struct {
	sdf []SDF3
	min MinFunc
	bb  r3.Box
}

// Union3D returns the union of multiple SDF3 objects.
// Union3D will panic if arguments list is empty or if
// an argument SDF3 is nil.
func Union3D(sdf ...SDF3) SDF3Union {
	if len(sdf) == 0 {
		panic("union requires at least one sdf")
	}
	for i, x := range sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union3D")
		}
	}
	bb := d3.Box(sdf[0].Bounds())
	for _, x := range sdf[1:] {
		bb = bb.Extend(d3.Box(x.Bounds()))
	}
	return &union3{sdf: sdf, min: math.Min, bb: r3.Box(bb)}
}

// Evaluate returns the minimum distance to an SDF3 union.
func (s *union3) Evaluate(p r3.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	for _, x := range s.sdf[1:] {
		d = s.min(d, x.Evaluate(p))
	}
	return d
}

// SetMin sets the minimum function to control blending.
func (s *union3) SetMin(min MinFunc) {
	s.min = min
}

// Bounds returns the bounding box of an SDF3 union.
func (s *union3) Bounds() r3.Box {
	return s.bb
}

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0  SDF3
	s1  SDF3
	max MaxFunc
	bb  r3.Box
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
// Difference3D will panic if one any of the arguments is nil.
func Difference3D(s0, s1 SDF3) SDF3Diff {
	if s1 == nil || s0 == nil {
		panic("nil argument to Difference3D")
	}
	return &diff3{s0: s0, s1: s1, max: math.Max, bb: s0.Bounds()}
}

// Evaluate returns the minimum distance to the SDF3 difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	return s.max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// SetMax sets the maximum function to control blending.
func (s *diff3) SetMax(max MaxFunc) {
	s.max = max
}

// Bounds returns the bounding box of the SDF3 difference.
func (s *diff3) Bounds() r3.Box {
	return s.bb
}

// intersection3 is the intersection of two SDF3s.
type intersection3 struct {
	s0  SDF3
	s1  SDF3
	max MaxFunc
	bb  r3.Box
}

// Intersect3D returns the intersection of two SDF3s.
// Intersect3D will panic if any of the arguments are nil.
func Intersect3D(s0, s1 SDF3) SDF3Diff {
	if s0 == nil || s1 == nil {
		panic("nil argument to Intersect3D")
	}
	bb0, bb1 := s0.Bounds(), s1.Bounds()
	bb := r3.Box{Min: d3.MaxElem(bb0.Min, bb1.Min), Max: d3.MinElem(bb0.Max, bb1.Max)}
	if d3.LTZero(r3.Sub(bb.Max, bb.Min)) {
		// Disjoint boxes. Keep a degenerate box at the first operand.
		bb = r3.Box{Min: bb0.Min, Max: bb0.Min}
	}
	return &intersection3{s0: s0, s1: s1, max: math.Max, bb: bb}
}

// Evaluate returns the minimum distance to the SDF3 intersection.
func (s *intersection3) Evaluate(p r3.Vec) float64 {
	return s.max(s.s0.Evaluate(p), s.s1.Evaluate(p))
}

// SetMax sets the maximum function to control blending.
func (s *intersection3) SetMax(max MaxFunc) {
	s.max = max
}

// Bounds returns the bounding box of an SDF3 intersection.
func (s *intersection3) Bounds() r3.Box {
	return s.bb
}

// cut3 makes a planar cut through an SDF3.
type cut3 struct {
	sdf SDF3
	a   r3.Vec // point on plane
	n   r3.Vec // normal to plane
	bb  r3.Box // bounding box
}

// Cut3D cuts an SDF3 along a plane passing through a with normal n.
// The SDF3 on the same side as the normal remains.
func Cut3D(sdf SDF3, a, n r3.Vec) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	if r3.Norm(n) == 0 {
		panic("zero cut normal")
	}
	return &cut3{
		sdf: sdf,
		a:   a,
		n:   r3.Scale(-1, r3.Unit(n)),
		bb:  sdf.Bounds(),
	}
}

// Evaluate returns the minimum distance to the cut SDF3.
func (s *cut3) Evaluate(p r3.Vec) float64 {
	return math.Max(r3.Dot(r3.Sub(p, s.a), s.n), s.sdf.Evaluate(p))
}

// Bounds returns the bounding box of the cut SDF3.
func (s *cut3) Bounds() r3.Box {
	return s.bb
}

// rotateUnion creates a union of rotated SDF3s.
type rotateUnion struct {
	sdf  SDF3
	num  int
	step m44
	min  MinFunc
	bb   r3.Box
}

// RotateUnion3D creates a union of num SDF3 copies, each one transformed
// by step relative to the previous. Passing RotateX(tau/n) replicates
// a feature polar-wise about the X axis.
func RotateUnion3D(sdf SDF3, num int, step m44) SDF3Union {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	if num <= 0 {
		return empty3From(sdf)
	}
	s := rotateUnion{
		sdf:  sdf,
		num:  num,
		step: step.Inverse(),
		min:  math.Min,
	}
	v := d3.Box(sdf.Bounds()).Vertices()
	bbMin, bbMax := v.Min(), v.Max()
	for i := 0; i < s.num; i++ {
		bbMin = d3.MinElem(bbMin, v.Min())
		bbMax = d3.MaxElem(bbMax, v.Max())
		for j := range v {
			v[j] = step.MulPosition(v[j])
		}
	}
	s.bb = r3.Box{Min: bbMin, Max: bbMax}
	return &s
}

// Evaluate returns the minimum distance to a rotate/union object.
func (s *rotateUnion) Evaluate(p r3.Vec) float64 {
	d := math.MaxFloat64
	rot := Identity3d()
	for i := 0; i < s.num; i++ {
		d = s.min(d, s.sdf.Evaluate(rot.MulPosition(p)))
		rot = rot.Mul(s.step)
	}
	return d
}

// SetMin sets the minimum function to control blending.
func (s *rotateUnion) SetMin(min MinFunc) {
	s.min = min
}

// Bounds returns the bounding box of a rotate/union object.
func (s *rotateUnion) Bounds() r3.Box {
	return s.bb
}

func empty3From(s SDF3) empty3 {
	return empty3{
		center: d3.Box(s.Bounds()).Center(),
	}
}

type empty3 struct {
	center r3.Vec
}

var _ SDF3 = empty3{}

func (e empty3) Evaluate(r3.Vec) float64 {
	return math.MaxFloat64
}

func (e empty3) Bounds() r3.Box {
	return r3.Box{
		Min: e.center,
		Max: e.center,
	}
}

func (e empty3) SetMin(MinFunc) {}
func (e empty3) SetMax(MaxFunc) {}
