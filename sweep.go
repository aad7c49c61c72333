package sdf

import (
	"math"

	"github.com/rocketcad/sdf/internal/d2"
	"github.com/rocketcad/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

type segment struct {
	a, b   r2.Vec
	arc    bool
	center r2.Vec
	ccw    bool
}

// Path is a planar chain of line and circular arc segments.
// Coordinates are in the frame of the path's plane.
type Path struct {
	plane Plane
	start r2.Vec
	end   r2.Vec
	segs  []segment
}

// NewPath starts a path at start on plane pl.
func NewPath(pl Plane, start r2.Vec) *Path {
	return &Path{plane: pl, start: start, end: start}
}

// PolylinePath returns a path of straight segments through pts. If closed
// is true a segment back to the first point is appended.
func PolylinePath(pl Plane, pts []r2.Vec, closed bool) *Path {
	if len(pts) < 2 {
		panic("polyline path needs at least 2 points")
	}
	p := NewPath(pl, pts[0])
	for _, v := range pts[1:] {
		p.LineTo(v)
	}
	if closed {
		p.Close()
	}
	return p
}

// Plane returns the plane the path lies on.
func (p *Path) Plane() Plane { return p.plane }

// End returns the current end point of the path.
func (p *Path) End() r2.Vec { return p.end }

// LineTo appends a straight segment to b.
func (p *Path) LineTo(b r2.Vec) *Path {
	p.segs = append(p.segs, segment{a: p.end, b: b})
	p.end = b
	return p
}

// ArcTo appends a circular arc to b around center. The arc turns
// counter-clockwise if ccw is true. It panics if b is not on the circle
// through the current end point.
func (p *Path) ArcTo(b, center r2.Vec, ccw bool) *Path {
	r0 := r2.Norm(r2.Sub(p.end, center))
	r1 := r2.Norm(r2.Sub(b, center))
	if r0 < epsilon {
		panic("arc center on path end")
	}
	if math.Abs(r0-r1) > 1e-6*math.Max(1, r0) {
		panic("arc end point not on circle")
	}
	p.segs = append(p.segs, segment{a: p.end, b: b, arc: true, center: center, ccw: ccw})
	p.end = b
	return p
}

// Close appends a straight segment back to the start if needed.
func (p *Path) Close() *Path {
	if !d2.EqualWithin(p.start, p.end, tolerance) {
		p.LineTo(p.start)
	}
	return p
}

// Closed reports whether the path ends where it started.
func (p *Path) Closed() bool {
	return len(p.segs) > 0 && d2.EqualWithin(p.start, p.end, tolerance)
}

// Len returns the number of segments.
func (p *Path) Len() int { return len(p.segs) }

// Length returns the arc length of the path.
func (p *Path) Length() float64 {
	var l float64
	for _, s := range p.segs {
		if s.arc {
			l += s.radius() * s.sweep()
		} else {
			l += r2.Norm(r2.Sub(s.b, s.a))
		}
	}
	return l
}

// Vertices returns a polyline approximation of the path. Arcs are split
// into at least facets pieces per full turn.
func (p *Path) Vertices(facets int) []r2.Vec {
	if facets < 3 {
		facets = 3
	}
	v := []r2.Vec{p.start}
	for _, s := range p.segs {
		if !s.arc {
			v = append(v, s.b)
			continue
		}
		sw := s.sweep()
		n := int(math.Ceil(sw / tau * float64(facets)))
		if n < 1 {
			n = 1
		}
		a0 := s.angle(s.a)
		sign := 1.0
		if !s.ccw {
			sign = -1
		}
		for i := 1; i < n; i++ {
			a := a0 + sign*sw*float64(i)/float64(n)
			v = append(v, r2.Add(s.center, d2.PolarToXY(s.radius(), a)))
		}
		v = append(v, s.b)
	}
	return v
}

// Distance returns the in-plane distance from q to the path.
func (p *Path) Distance(q r2.Vec) float64 {
	if len(p.segs) == 0 {
		return r2.Norm(r2.Sub(q, p.start))
	}
	d := math.MaxFloat64
	for _, s := range p.segs {
		d = math.Min(d, s.distance(q))
	}
	return d
}

// Bounds returns an in-plane box containing the path.
func (p *Path) Bounds() r2.Box {
	bb := d2.Box{Min: p.start, Max: p.start}
	for _, s := range p.segs {
		bb = bb.Include(s.b)
		if s.arc {
			r := d2.Elem(s.radius())
			bb = bb.Extend(d2.Box{Min: r2.Sub(s.center, r), Max: r2.Add(s.center, r)})
		}
	}
	return r2.Box(bb)
}

func (s segment) radius() float64 { return r2.Norm(r2.Sub(s.a, s.center)) }

func (s segment) angle(v r2.Vec) float64 {
	d := r2.Sub(v, s.center)
	return math.Atan2(d.Y, d.X)
}

// sweep returns the swept angle of an arc in (0, tau].
func (s segment) sweep() float64 {
	a0, a1 := s.angle(s.a), s.angle(s.b)
	if !s.ccw {
		a0, a1 = a1, a0
	}
	sw := math.Mod(a1-a0, tau)
	if sw < 0 {
		sw += tau
	}
	if sw < epsilon {
		sw = tau
	}
	return sw
}

func (s segment) distance(q r2.Vec) float64 {
	if !s.arc {
		ab := r2.Sub(s.b, s.a)
		l2 := r2.Norm2(ab)
		if l2 == 0 {
			return r2.Norm(r2.Sub(q, s.a))
		}
		t := Clamp(r2.Dot(r2.Sub(q, s.a), ab)/l2, 0, 1)
		return r2.Norm(r2.Sub(q, r2.Add(s.a, r2.Scale(t, ab))))
	}
	cq := r2.Sub(q, s.center)
	rq := r2.Norm(cq)
	if rq > 0 {
		rel := math.Atan2(cq.Y, cq.X) - s.angle(s.a)
		if !s.ccw {
			rel = -rel
		}
		rel = math.Mod(rel, tau)
		if rel < 0 {
			rel += tau
		}
		if rel <= s.sweep() {
			return math.Abs(rq - s.radius())
		}
	}
	return math.Min(r2.Norm(r2.Sub(q, s.a)), r2.Norm(r2.Sub(q, s.b)))
}

// sweep3 is a circle of constant radius swept along a planar path.
type sweep3 struct {
	path   *Path
	radius float64
	bb     r3.Box
}

// Sweep3D sweeps a circle of radius r along path. The circle stays normal
// to the path, giving a tube whose surface is at distance r from the path.
func Sweep3D(path *Path, r float64) SDF3 {
	if path == nil || path.Len() == 0 {
		panic("empty sweep path")
	}
	if r <= 0 {
		panic("sweep radius must be positive")
	}
	v := d2.Box(path.Bounds()).Vertices()
	c := make(d3.Set, len(v))
	for i := range v {
		c[i] = path.plane.Point(v[i])
	}
	bb := d3.Box{Min: c.Min(), Max: c.Max()}.Enlarge(d3.Elem(2 * r))
	return &sweep3{path: path, radius: r, bb: r3.Box(bb)}
}

// Evaluate returns the minimum distance to the swept tube.
func (s *sweep3) Evaluate(p r3.Vec) float64 {
	q, h := s.path.plane.Project(p)
	return math.Hypot(s.path.Distance(q), h) - s.radius
}

// Bounds returns the bounding box of the swept tube.
func (s *sweep3) Bounds() r3.Box {
	return s.bb
}
