// Package fillet solves the planar line geometry that positions fin
// fillets: offsets, perpendiculars, intersections and the tangent circles
// between two lines or between a line and the body tube.
//
// Points are r2.Vec with X as the run and Y as the rise. Callers choose
// which pair of fin axes maps to the plane.
package fillet

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrParallel       = errors.New("lines are parallel")
	ErrZeroSlope      = errors.New("zero slope has no finite perpendicular")
	ErrVerticalLine   = errors.New("vertical line has no slope")
	ErrDegenerateLine = errors.New("line points coincide")
	ErrNoTangent      = errors.New("no tangent circle")
	ErrRadius         = errors.New("radius must be positive")
	ErrFlatEdge       = errors.New("edge does not rise")
)

// Orientation tags a line through two points.
type Orientation int

const (
	General Orientation = iota
	Vertical
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	}
	return "general"
}

// Classify returns the orientation of the line through p1 and p2.
// Coordinates are compared exactly.
func Classify(p1, p2 r2.Vec) (Orientation, error) {
	v, h := p1.X == p2.X, p1.Y == p2.Y
	switch {
	case v && h:
		return General, fmt.Errorf("classify %v: %w", p1, ErrDegenerateLine)
	case v:
		return Vertical, nil
	case h:
		return Horizontal, nil
	}
	return General, nil
}

// Line is y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// NewLine returns the line through p1 and p2.
func NewLine(p1, p2 r2.Vec) (Line, error) {
	o, err := Classify(p1, p2)
	if err != nil {
		return Line{}, err
	}
	if o == Vertical {
		return Line{}, fmt.Errorf("line through %v and %v: %w", p1, p2, ErrVerticalLine)
	}
	m := (p2.Y - p1.Y) / (p2.X - p1.X)
	return Line{Slope: m, Intercept: p1.Y - m*p1.X}, nil
}

// At returns y at x.
func (l Line) At(x float64) float64 { return l.Slope*x + l.Intercept }

// Distance returns the perpendicular distance from p to the line.
func (l Line) Distance(p r2.Vec) float64 {
	return math.Abs(l.Slope*p.X-p.Y+l.Intercept) / math.Sqrt(l.Slope*l.Slope+1)
}

// ParallelOffset returns the line through p1 and p2 moved a normal
// distance |d|. The sign of d is flipped for a falling line, so a positive
// d moves any sloped line towards negative x and a horizontal line up.
func ParallelOffset(p1, p2 r2.Vec, d float64) (Line, error) {
	l, err := NewLine(p1, p2)
	if err != nil {
		return Line{}, err
	}
	if l.Slope < 0 {
		d = -d
	}
	l.Intercept += d * math.Sqrt(l.Slope*l.Slope+1)
	return l, nil
}

// Perpendicular returns the line through p normal to a line of slope m.
func Perpendicular(p r2.Vec, m float64) (Line, error) {
	if m == 0 {
		return Line{}, ErrZeroSlope
	}
	s := -1 / m
	return Line{Slope: s, Intercept: p.Y - s*p.X}, nil
}

// Intersect returns the crossing point of two lines. The rise is
// evaluated on the shallower line.
func Intersect(l1, l2 Line) (r2.Vec, error) {
	if l1.Slope == l2.Slope {
		return r2.Vec{}, ErrParallel
	}
	x := (l2.Intercept - l1.Intercept) / (l1.Slope - l2.Slope)
	if math.Abs(l2.Slope) < math.Abs(l1.Slope) {
		l1 = l2
	}
	return r2.Vec{X: x, Y: l1.At(x)}, nil
}

// Foot returns the orthogonal projection of p on the line through p1 and p2.
func Foot(p, p1, p2 r2.Vec) (r2.Vec, error) {
	o, err := Classify(p1, p2)
	if err != nil {
		return r2.Vec{}, err
	}
	switch o {
	case Vertical:
		return r2.Vec{X: p1.X, Y: p.Y}, nil
	case Horizontal:
		return r2.Vec{X: p.X, Y: p1.Y}, nil
	}
	l, _ := NewLine(p1, p2)
	n, err := Perpendicular(p, l.Slope)
	if err != nil {
		return r2.Vec{}, err
	}
	return Intersect(l, n)
}

// LineCircle returns the intersections of the line through p1 and p2
// with a circle, ordered along the direction p1 to p2.
func LineCircle(p1, p2, center r2.Vec, radius float64) ([]r2.Vec, error) {
	if radius <= 0 {
		return nil, ErrRadius
	}
	d := r2.Sub(p2, p1)
	a := r2.Norm2(d)
	if a == 0 {
		return nil, ErrDegenerateLine
	}
	f := r2.Sub(p1, center)
	b := 2 * r2.Dot(f, d)
	c := r2.Norm2(f) - radius*radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil, fmt.Errorf("line misses circle of radius %g: %w", radius, ErrNoTangent)
	}
	sq := math.Sqrt(disc)
	t0, t1 := (-b-sq)/(2*a), (-b+sq)/(2*a)
	pts := []r2.Vec{r2.Add(p1, r2.Scale(t0, d))}
	if disc > 0 {
		pts = append(pts, r2.Add(p1, r2.Scale(t1, d)))
	}
	return pts, nil
}

// XAtZ returns the x coordinate at height z of the edge from p2 on the
// reference plane z=0 to p1.
func XAtZ(p1, p2 r3.Vec, z float64) (float64, error) {
	if p1.Z == 0 {
		return 0, fmt.Errorf("x at z=%g: %w", z, ErrFlatEdge)
	}
	return p2.X - z*(p2.X-p1.X)/p1.Z, nil
}

// YAtZ is XAtZ for the y coordinate.
func YAtZ(p1, p2 r3.Vec, z float64) (float64, error) {
	if p1.Z == 0 {
		return 0, fmt.Errorf("y at z=%g: %w", z, ErrFlatEdge)
	}
	return p2.Y - z*(p2.Y-p1.Y)/p1.Z, nil
}
