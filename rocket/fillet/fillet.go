package fillet

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Fillet is a circle of Radius tangent to two curves at Tangent1 and Tangent2.
type Fillet struct {
	Center   r2.Vec
	Tangent1 r2.Vec
	Tangent2 r2.Vec
	Radius   float64
}

// Mirror returns the fillet reflected about the vertical line x = x0.
func (f Fillet) Mirror(x0 float64) Fillet {
	m := func(v r2.Vec) r2.Vec { return r2.Vec{X: 2*x0 - v.X, Y: v.Y} }
	f.Center, f.Tangent1, f.Tangent2 = m(f.Center), m(f.Tangent1), m(f.Tangent2)
	return f
}

// PlaneFillet returns the circle of radius r tangent to the line through
// p1,p2 and the line through p3,p4, on the offset side of both lines.
func PlaneFillet(r float64, p1, p2, p3, p4 r2.Vec) (Fillet, error) {
	if !(r > 0) {
		return Fillet{}, fmt.Errorf("plane fillet r=%g: %w", r, ErrRadius)
	}
	o1, err := Classify(p1, p2)
	if err != nil {
		return Fillet{}, err
	}
	o2, err := Classify(p3, p4)
	if err != nil {
		return Fillet{}, err
	}
	if o1 == o2 && o1 != General {
		return Fillet{}, fmt.Errorf("plane fillet between two %v lines: %w", o1, ErrParallel)
	}

	var c r2.Vec
	switch {
	case o1 == Vertical:
		c, err = besideVertical(r, p1, o2, p3, p4)
	case o2 == Vertical:
		c, err = besideVertical(r, p3, o1, p1, p2)
	default:
		var l1, l2 Line
		if l1, err = ParallelOffset(p1, p2, r); err != nil {
			return Fillet{}, err
		}
		if l2, err = ParallelOffset(p3, p4, r); err != nil {
			return Fillet{}, err
		}
		c, err = Intersect(l1, l2)
	}
	if err != nil {
		return Fillet{}, fmt.Errorf("plane fillet: %w", err)
	}

	t1, err := Foot(c, p1, p2)
	if err != nil {
		return Fillet{}, err
	}
	t2, err := Foot(c, p3, p4)
	if err != nil {
		return Fillet{}, err
	}
	return Fillet{Center: c, Tangent1: t1, Tangent2: t2, Radius: r}, nil
}

// besideVertical places a center r to the left of the vertical line
// through v and r away from the other line.
func besideVertical(r float64, v r2.Vec, o Orientation, q1, q2 r2.Vec) (r2.Vec, error) {
	c := r2.Vec{X: v.X - r}
	if o == Horizontal {
		c.Y = q1.Y + r
		return c, nil
	}
	l, err := ParallelOffset(q1, q2, r)
	if err != nil {
		return r2.Vec{}, err
	}
	c.Y = l.At(c.X)
	return c, nil
}

// TubeFillet returns the circle of radius r tangent to the line through
// p1,p2 and resting on the outside of a tube of radius tubeR whose axis
// is at (0, -tubeR). Tangent1 lies on the line and Tangent2 on the tube.
// Of the two candidate centers the one with the larger Y is chosen.
func TubeFillet(r, tubeR float64, p1, p2 r2.Vec) (Fillet, error) {
	if !(r > 0) || !(tubeR > 0) {
		return Fillet{}, fmt.Errorf("tube fillet r=%g tube=%g: %w", r, tubeR, ErrRadius)
	}
	o, err := Classify(p1, p2)
	if err != nil {
		return Fillet{}, err
	}
	var a, b r2.Vec
	if o == Vertical {
		a, b = r2.Vec{X: p1.X - r, Y: 0}, r2.Vec{X: p1.X - r, Y: 1}
	} else {
		l, err := ParallelOffset(p1, p2, r)
		if err != nil {
			return Fillet{}, err
		}
		a, b = r2.Vec{X: 0, Y: l.At(0)}, r2.Vec{X: 1, Y: l.At(1)}
	}
	axis := r2.Vec{Y: -tubeR}
	pts, err := LineCircle(a, b, axis, tubeR+r)
	if err != nil {
		return Fillet{}, fmt.Errorf("tube fillet: %w", err)
	}
	c := pts[0]
	for _, v := range pts[1:] {
		if v.Y > c.Y {
			c = v
		}
	}
	t1, err := Foot(c, p1, p2)
	if err != nil {
		return Fillet{}, err
	}
	t2 := r2.Add(axis, r2.Scale(tubeR/(tubeR+r), r2.Sub(c, axis)))
	return Fillet{Center: c, Tangent1: t1, Tangent2: t2, Radius: r}, nil
}

// Sweep returns the angle swept from Tangent1 to Tangent2 around the center.
func (f Fillet) Sweep() float64 {
	a := r2.Sub(f.Tangent1, f.Center)
	b := r2.Sub(f.Tangent2, f.Center)
	return math.Abs(math.Atan2(r2.Cross(a, b), r2.Dot(a, b)))
}
