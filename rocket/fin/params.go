// Package fin draws trapezoidal fins, their fin-to-body fillets and fin
// sets.
//
// The fin frame has X axial with the root trailing edge at x=0 and the
// root leading edge at x=RootChord, Y through the thickness and Z along the
// span. The body tube axis is parallel to X through (y=0, z=-ParentRadius),
// so the tube touches the fin root along y=0, z=0.
package fin

import (
	"github.com/rocketcad/sdf/rocket"
	"github.com/rocketcad/sdf/rocket/profile"
)

// Params is the parameter record of one draw. It is never modified.
type Params struct {
	RootChord     float64 `yaml:"root_chord"`
	TipChord      float64 `yaml:"tip_chord"`
	SweepLength   float64 `yaml:"sweep_length"`
	Height        float64 `yaml:"height"`
	RootThickness float64 `yaml:"root_thickness"`
	TipThickness  float64 `yaml:"tip_thickness"`

	RootCrossSection rocket.CrossSection `yaml:"root_cross_section"`
	RootPerCent      bool                `yaml:"root_percent"`
	RootLength1      float64             `yaml:"root_length1"`
	RootLength2      float64             `yaml:"root_length2"`

	TipCrossSection rocket.CrossSection `yaml:"tip_cross_section"`
	TipPerCent      bool                `yaml:"tip_percent"`
	TipLength1      float64             `yaml:"tip_length1"`
	TipLength2      float64             `yaml:"tip_length2"`

	Fillets      bool    `yaml:"fillets"`
	FilletRadius float64 `yaml:"fillet_radius"`
	ParentRadius float64 `yaml:"parent_radius"`
	FinCount     int     `yaml:"fin_count"`
}

// DefaultFin returns a swept trapezoid on a 25mm body tube.
func DefaultFin() Params {
	return Params{
		RootChord:        100,
		TipChord:         40,
		SweepLength:      20,
		Height:           80,
		RootThickness:    6,
		TipThickness:     4,
		RootCrossSection: rocket.Square,
		RootPerCent:      true,
		RootLength1:      20,
		RootLength2:      80,
		TipCrossSection:  rocket.Same,
		TipPerCent:       true,
		TipLength1:       20,
		TipLength2:       80,
		FilletRadius:     3,
		ParentRadius:     12.5,
		FinCount:         4,
	}
}

// Validate checks the record before any geometry is built.
func (p Params) Validate() error {
	if err := rocket.Positive(
		rocket.Field{Name: "RootChord", Value: p.RootChord},
		rocket.Field{Name: "TipChord", Value: p.TipChord},
		rocket.Field{Name: "Height", Value: p.Height},
		rocket.Field{Name: "RootThickness", Value: p.RootThickness},
		rocket.Field{Name: "TipThickness", Value: p.TipThickness},
		rocket.Field{Name: "ParentRadius", Value: p.ParentRadius},
	); err != nil {
		return err
	}
	if p.FinCount < 1 {
		return rocket.Invalid("FinCount", "must be at least 1, got %d", p.FinCount)
	}
	if p.RootThickness/2 >= p.ParentRadius {
		return rocket.Invalid("RootThickness", "root half width %g reaches the tube radius %g", p.RootThickness/2, p.ParentRadius)
	}
	if p.Fillets {
		if err := rocket.Positive(rocket.Field{Name: "FilletRadius", Value: p.FilletRadius}); err != nil {
			return err
		}
		if w := p.RootThickness/2 + p.FilletRadius; w >= p.ParentRadius {
			return rocket.Invalid("FilletRadius", "root fillet width %g reaches the tube radius %g", w, p.ParentRadius)
		}
	}
	if _, err := p.RootProfile(); err != nil {
		return err
	}
	_, err := p.TipProfile()
	return err
}

// RootParams returns the root section parameters at z=0.
func (p Params) RootParams() profile.Params {
	return profile.Params{
		Kind:      p.RootCrossSection,
		ForeX:     p.RootChord,
		Chord:     p.RootChord,
		Thickness: p.RootThickness,
		Percent:   p.RootPerCent,
		Length1:   p.RootLength1,
		Length2:   profile.EffectiveLength2(p.RootPerCent, p.RootChord, p.RootLength2),
	}
}

// TipParams returns the tip section parameters at z=Height. A tip of kind
// Same takes the root kind.
func (p Params) TipParams() (profile.Params, error) {
	kind, err := p.TipCrossSection.Resolve(p.RootCrossSection)
	if err != nil {
		return profile.Params{}, err
	}
	return profile.Params{
		Kind:      kind,
		ForeX:     p.RootChord - p.SweepLength,
		Chord:     p.TipChord,
		Thickness: p.TipThickness,
		Height:    p.Height,
		Percent:   p.TipPerCent,
		Length1:   p.TipLength1,
		Length2:   profile.EffectiveLength2(p.TipPerCent, p.TipChord, p.TipLength2),
	}, nil
}

// RootProfile builds the root section.
func (p Params) RootProfile() (profile.Profile, error) {
	return profile.Build(p.RootParams())
}

// TipProfile builds the tip section.
func (p Params) TipProfile() (profile.Profile, error) {
	tp, err := p.TipParams()
	if err != nil {
		return profile.Profile{}, err
	}
	return profile.Build(tp)
}
