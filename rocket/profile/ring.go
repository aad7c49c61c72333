package profile

import (
	"math"

	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/form2"
	"github.com/rocketcad/sdf/rocket"
	"gonum.org/v1/gonum/spatial/r2"
)

// RingParams dimension the section of a body tube carrying FinCount fins.
// The tube is centered on the origin and the first fin points along +Y.
type RingParams struct {
	Diameter      float64
	RootThickness float64
	TipThickness  float64
	Span          float64
	FinCount      int
	// GlueRadius adds a fillet disk at each side of a fin root. Zero disables it.
	GlueRadius float64
}

// Validate checks the ring dimensions.
func (p RingParams) Validate() error {
	if err := rocket.Positive(
		rocket.Field{Name: "Diameter", Value: p.Diameter},
		rocket.Field{Name: "RootThickness", Value: p.RootThickness},
		rocket.Field{Name: "TipThickness", Value: p.TipThickness},
		rocket.Field{Name: "Span", Value: p.Span},
	); err != nil {
		return err
	}
	if p.FinCount < 1 {
		return rocket.Invalid("FinCount", "must be at least 1, got %d", p.FinCount)
	}
	if p.GlueRadius < 0 {
		return rocket.Invalid("GlueRadius", "must not be negative, got %g", p.GlueRadius)
	}
	return nil
}

// FinOutline returns one fin grown by offset, from the tube center out
// along +Y.
func (p RingParams) FinOutline(offset float64) []r2.Vec {
	R, o := p.Diameter/2, offset
	rt, tt := p.RootThickness/2+o, p.TipThickness/2+o
	return []r2.Vec{
		{X: -rt, Y: 0},
		{X: rt, Y: 0},
		{X: rt, Y: R + o},
		{X: tt, Y: R + p.Span + o},
		{X: -tt, Y: R + p.Span + o},
		{X: -rt, Y: R + o},
	}
}

// Ring returns the tube disk of radius Diameter/2+offset fused with
// FinCount fins spaced evenly around it.
func Ring(p RingParams, offset float64) (sdf.SDF2, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	R := p.Diameter / 2
	tube, err := form2.Circle(R + offset)
	if err != nil {
		return nil, err
	}
	fin, err := form2.Polygon(p.FinOutline(offset))
	if err != nil {
		return nil, err
	}
	if p.GlueRadius > 0 {
		glue, err := form2.CircleAt(r2.Vec{X: p.RootThickness / 2, Y: R}, p.GlueRadius+offset)
		if err != nil {
			return nil, err
		}
		fin = sdf.Union2D(fin, sdf.Mirror2D(glue))
	}
	fins := sdf.RotateUnion2D(fin, p.FinCount, sdf.Rotate2D(2*math.Pi/float64(p.FinCount)))
	return sdf.Union2D(tube, fins), nil
}
