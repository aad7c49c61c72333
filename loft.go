package sdf

import (
	"math"
	"sort"

	"github.com/rocketcad/sdf/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// loftPoly is a ruled solid between two closed polygons lying on the
// planes z=z0 and z=z1. Vertex i of the bottom polygon is joined to
// vertex i of the top polygon.
type loftPoly struct {
	bottom, top []r2.Vec
	z0, z1      float64
	lip         float64 // gradient bound of the section distance.
	bb          r3.Box
}

// LoftPolygons returns the ruled loft between a bottom polygon at z0 and a
// top polygon at z1. When the polygons have different vertex counts both
// are resampled on the union of their normalized arc length stations so
// every corner of either outline is kept.
func LoftPolygons(bottom, top []r2.Vec, z0, z1 float64) SDF3 {
	bottom, top = openPolygon(bottom), openPolygon(top)
	if len(bottom) < 3 || len(top) < 3 {
		panic("loft polygons need at least 3 vertices")
	}
	if z1 <= z0 {
		panic("loft top below bottom")
	}
	if len(bottom) != len(top) {
		bottom, top = matchStations(bottom, top)
	}
	var vmax float64
	for i := range bottom {
		vmax = math.Max(vmax, r2.Norm(r2.Sub(top[i], bottom[i])))
	}
	set := append(d2.Set{}, bottom...)
	set = append(set, top...)
	lo, hi := set.Min(), set.Max()
	return &loftPoly{
		bottom: bottom,
		top:    top,
		z0:     z0,
		z1:     z1,
		lip:    math.Hypot(1, vmax/(z1-z0)),
		bb:     r3.Box{Min: r3.Vec{X: lo.X, Y: lo.Y, Z: z0}, Max: r3.Vec{X: hi.X, Y: hi.Y, Z: z1}},
	}
}

// Evaluate returns the minimum distance to the loft.
func (s *loftPoly) Evaluate(p r3.Vec) float64 {
	k := Clamp((p.Z-s.z0)/(s.z1-s.z0), 0, 1)
	n := len(s.bottom)
	vertex := func(i int) r2.Vec {
		i %= n
		a, b := s.bottom[i], s.top[i]
		return r2.Vec{X: Mix(a.X, b.X, k), Y: Mix(a.Y, b.Y, k)}
	}
	d := polygonDistance(r2.Vec{X: p.X, Y: p.Y}, n, vertex) / s.lip
	h := (s.z1 - s.z0) / 2
	return roundedSlab(d, math.Abs(p.Z-s.z0-h)-h)
}

// Bounds returns the bounding box of the loft.
func (s *loftPoly) Bounds() r3.Box {
	return s.bb
}

// polygonDistance is the signed distance from p to the closed polygon of
// n vertices given by vertex. Inside is decided by the winding number.
func polygonDistance(p r2.Vec, n int, vertex func(i int) r2.Vec) float64 {
	dd := math.MaxFloat64
	wn := 0
	a := vertex(0)
	for i := 0; i < n; i++ {
		b := vertex(i + 1)
		e := r2.Sub(b, a)
		w := r2.Sub(p, a)
		l2 := r2.Norm2(e)
		t := 0.0
		if l2 > 0 {
			t = Clamp(r2.Dot(w, e)/l2, 0, 1)
		}
		dd = math.Min(dd, r2.Norm2(r2.Sub(w, r2.Scale(t, e))))
		c := r2.Cross(e, w)
		if a.Y <= p.Y {
			if b.Y > p.Y && c > 0 {
				wn++
			}
		} else if b.Y <= p.Y && c < 0 {
			wn--
		}
		a = b
	}
	d := math.Sqrt(dd)
	if wn != 0 {
		return -d
	}
	return d
}

// openPolygon drops a closing vertex equal to the first one.
func openPolygon(v []r2.Vec) []r2.Vec {
	if n := len(v); n > 1 && d2.EqualWithin(v[0], v[n-1], tolerance) {
		return v[:n-1]
	}
	return v
}

// stations returns the normalized arc length of every vertex of a closed polygon.
func stations(v []r2.Vec) []float64 {
	t := make([]float64, len(v))
	var l float64
	for i := 1; i < len(v); i++ {
		l += r2.Norm(r2.Sub(v[i], v[i-1]))
		t[i] = l
	}
	l += r2.Norm(r2.Sub(v[0], v[len(v)-1]))
	for i := range t {
		t[i] /= l
	}
	return t
}

// sampleAt returns the point of the closed polygon v at normalized arc length u.
func sampleAt(v []r2.Vec, st []float64, u float64) r2.Vec {
	i := sort.SearchFloat64s(st, u)
	if i < len(st) && st[i] == u {
		return v[i]
	}
	a := v[i-1]
	b, tb := v[0], 1.0
	if i < len(v) {
		b, tb = v[i], st[i]
	}
	return r2.Add(a, r2.Scale((u-st[i-1])/(tb-st[i-1]), r2.Sub(b, a)))
}

func matchStations(a, b []r2.Vec) ([]r2.Vec, []r2.Vec) {
	sa, sb := stations(a), stations(b)
	u := append(append([]float64{}, sa...), sb...)
	sort.Float64s(u)
	var merged []float64
	for _, x := range u {
		if len(merged) == 0 || x-merged[len(merged)-1] > 1e-9 {
			merged = append(merged, x)
		}
	}
	ra := make([]r2.Vec, len(merged))
	rb := make([]r2.Vec, len(merged))
	for i, x := range merged {
		ra[i] = sampleAt(a, sa, x)
		rb[i] = sampleAt(b, sb, x)
	}
	return ra, rb
}
