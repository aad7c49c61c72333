// Package guide draws printed alignment jigs: fin guides that slide over a
// body tube and its fins, and rail guides that ride a launch rail.
package guide

import (
	"fmt"

	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/helpers/matter"
	"github.com/rocketcad/sdf/rocket"
	"github.com/rocketcad/sdf/rocket/profile"
	"gonum.org/v1/gonum/spatial/r3"
)

// FinGuideParams dimension a fin guide. The guide axis is Z and the first
// fin slot points along +Y.
type FinGuideParams struct {
	Diameter      float64 `yaml:"diameter"`
	RootThickness float64 `yaml:"root_thickness"`
	TipThickness  float64 `yaml:"tip_thickness"`
	Span          float64 `yaml:"span"`
	FinCount      int     `yaml:"fin_count"`
	GlueRadius    float64 `yaml:"glue_radius"`
	Length        float64 `yaml:"length"`
	Thickness     float64 `yaml:"thickness"`
	// Material names a printing material whose shrink is compensated in
	// the bore and slots. Empty disables compensation.
	Material string `yaml:"material,omitempty"`
}

// DefaultFinGuide returns a four fin guide for a 25mm tube.
func DefaultFinGuide() FinGuideParams {
	return FinGuideParams{
		Diameter:      25,
		RootThickness: 3,
		TipThickness:  3,
		Span:          100,
		FinCount:      4,
		GlueRadius:    5,
		Length:        2,
		Thickness:     2,
	}
}

func (p FinGuideParams) ring() profile.RingParams {
	return profile.RingParams{
		Diameter:      p.Diameter,
		RootThickness: p.RootThickness,
		TipThickness:  p.TipThickness,
		Span:          p.Span,
		FinCount:      p.FinCount,
		GlueRadius:    p.GlueRadius,
	}
}

// Validate checks the guide dimensions.
func (p FinGuideParams) Validate() error {
	if err := p.ring().Validate(); err != nil {
		return err
	}
	if err := rocket.Positive(
		rocket.Field{Name: "Length", Value: p.Length},
		rocket.Field{Name: "Thickness", Value: p.Thickness},
	); err != nil {
		return err
	}
	if _, _, err := matter.Lookup(p.Material); err != nil {
		return rocket.Invalid("Material", "%v", err)
	}
	return nil
}

// bore returns the ring of the tube and fins the guide slides over.
func (p FinGuideParams) bore() profile.RingParams {
	rp := p.ring()
	m, ok, _ := matter.Lookup(p.Material)
	if !ok {
		return rp
	}
	rp.Diameter = m.InternalDimScale(rp.Diameter)
	rp.RootThickness = m.InternalDimScale(rp.RootThickness)
	rp.TipThickness = m.InternalDimScale(rp.TipThickness)
	return rp
}

// Draw returns the guide: the ring grown by Thickness less the bore ring,
// extruded from z=0 to z=Length.
func (p FinGuideParams) Draw() (s sdf.SDF3, err error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	defer func() {
		if a := recover(); a != nil {
			err = fmt.Errorf("fin guide %w: %v", rocket.ErrInvalidShape, a)
		}
	}()
	outer, err := profile.Ring(p.ring(), p.Thickness)
	if err != nil {
		return nil, fmt.Errorf("fin guide %w: %v", rocket.ErrInvalidShape, err)
	}
	inner, err := profile.Ring(p.bore(), 0)
	if err != nil {
		return nil, fmt.Errorf("fin guide %w: %v", rocket.ErrInvalidShape, err)
	}
	section := sdf.Difference2D(outer, inner)
	guide := sdf.Extrude3D(section, p.Length)
	rocket.Logger().Debug().Int("fins", p.FinCount).Str("material", p.Material).Msg("fin guide")
	return sdf.Transform3D(guide, sdf.Translate3D(r3.Vec{Z: p.Length / 2})), nil
}
