package openrocket

import (
	"fmt"
	"strings"

	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/rocket"
	"github.com/rocketcad/sdf/rocket/fin"
)

// BodyTube is the geometry of a tube-like record in metres.
type BodyTube struct {
	Radius     float64
	Length     float64
	Thickness  float64
	AutoRadius bool
}

// tubeKinds are the records that carry a tube radius.
var tubeKinds = map[string]string{
	"bodytube":    "radius",
	"launchlug":   "radius",
	"innertube":   "outerradius",
	"tubecoupler": "outerradius",
	"engineblock": "outerradius",
}

// AsBodyTube reads the tube geometry of c.
func AsBodyTube(c *Component) (BodyTube, error) {
	tag, ok := tubeKinds[c.Type]
	if !ok {
		return BodyTube{}, fmt.Errorf("%s %q is not a tube", c.Type, c.Name)
	}
	r, err := c.Float(tag)
	if err != nil {
		return BodyTube{}, err
	}
	t := BodyTube{Radius: r, AutoRadius: c.Auto(tag)}
	if c.Has("length") {
		if t.Length, err = c.Float("length"); err != nil {
			return BodyTube{}, err
		}
	}
	if c.Has("thickness") {
		if t.Thickness, err = c.Float("thickness"); err != nil {
			return BodyTube{}, err
		}
	}
	return t, nil
}

// TrapezoidFinSet is an imported trapezoidal fin set in metres.
type TrapezoidFinSet struct {
	Name         string
	FinCount     int
	RootChord    float64
	TipChord     float64
	SweepLength  float64
	Height       float64
	Thickness    float64
	FilletRadius float64
	CrossSection rocket.CrossSection
	// ParentRadius is the radius of the enclosing tube, zero when the
	// file does not say.
	ParentRadius float64
}

// AsTrapezoidFinSet reads a trapezoidfinset record.
func AsTrapezoidFinSet(c *Component) (TrapezoidFinSet, error) {
	if c.Type != "trapezoidfinset" {
		return TrapezoidFinSet{}, fmt.Errorf("%s %q is not a trapezoidal fin set", c.Type, c.Name)
	}
	f := TrapezoidFinSet{Name: c.Name, FinCount: 1}
	var err error
	if c.Has("fincount") {
		if f.FinCount, err = c.Int("fincount"); err != nil {
			return f, err
		}
	}
	for _, v := range []struct {
		tag string
		dst *float64
	}{
		{"rootchord", &f.RootChord},
		{"tipchord", &f.TipChord},
		{"sweeplength", &f.SweepLength},
		{"height", &f.Height},
		{"thickness", &f.Thickness},
	} {
		if *v.dst, err = c.Float(v.tag); err != nil {
			return f, err
		}
	}
	if c.Has("filletradius") {
		if f.FilletRadius, err = c.Float("filletradius"); err != nil {
			return f, err
		}
	}
	if s, ok := c.Values["crosssection"]; ok {
		if f.CrossSection, err = parseCrossSection(s); err != nil {
			return f, fmt.Errorf("%s %q: %w", c.Type, c.Name, err)
		}
	}
	for p := c.parent; p != nil; p = p.parent {
		if _, ok := tubeKinds[p.Type]; !ok {
			continue
		}
		if t, err := AsBodyTube(p); err == nil {
			f.ParentRadius = t.Radius
			break
		}
	}
	return f, nil
}

// parseCrossSection maps the OpenRocket names, which call the round
// section "rounded".
func parseCrossSection(s string) (rocket.CrossSection, error) {
	if strings.EqualFold(strings.TrimSpace(s), "rounded") {
		return rocket.Round, nil
	}
	return rocket.ParseCrossSection(s)
}

// FinParams converts the fin set to a fin record in millimetres. Profile
// lengths keep the defaults of fin.DefaultFin and the tip takes the root
// section. Without a parent radius the default body tube is used.
func (f TrapezoidFinSet) FinParams() fin.Params {
	p := fin.DefaultFin()
	p.RootChord = f.RootChord * sdf.MillimetresPerMetre
	p.TipChord = f.TipChord * sdf.MillimetresPerMetre
	p.SweepLength = f.SweepLength * sdf.MillimetresPerMetre
	p.Height = f.Height * sdf.MillimetresPerMetre
	p.RootThickness = f.Thickness * sdf.MillimetresPerMetre
	p.TipThickness = f.Thickness * sdf.MillimetresPerMetre
	p.RootCrossSection = f.CrossSection
	p.TipCrossSection = rocket.Same
	p.FinCount = f.FinCount
	p.Fillets = f.FilletRadius > 0
	if p.Fillets {
		p.FilletRadius = f.FilletRadius * sdf.MillimetresPerMetre
	}
	if f.ParentRadius > 0 {
		p.ParentRadius = f.ParentRadius * sdf.MillimetresPerMetre
	}
	return p
}
