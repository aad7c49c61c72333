package guide

import (
	"fmt"
	"math"
	"strings"

	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/form2"
	"github.com/rocketcad/sdf/helpers/matter"
	"github.com/rocketcad/sdf/rocket"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// BaseType is the shape of the underside of a rail guide.
type BaseType int

const (
	// BaseFlat is a flat underside.
	BaseFlat BaseType = iota
	// BaseConformal follows the body tube surface.
	BaseConformal
	// BaseV is a V notch that sits on the tube along two lines.
	BaseV
)

func (b BaseType) String() string {
	switch b {
	case BaseConformal:
		return "conformal"
	case BaseV:
		return "v"
	}
	return "flat"
}

// ParseBaseType parses "flat", "conformal" or "v".
func ParseBaseType(s string) (BaseType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat", "":
		return BaseFlat, nil
	case "conformal":
		return BaseConformal, nil
	case "v":
		return BaseV, nil
	}
	return BaseFlat, rocket.Invalid("BaseType", "unknown rail guide base %q", s)
}

// MarshalYAML encodes the base type by name.
func (b BaseType) MarshalYAML() (interface{}, error) { return b.String(), nil }

// UnmarshalYAML decodes a base type name.
func (b *BaseType) UnmarshalYAML(value *yaml.Node) (err error) {
	var s string
	if err = value.Decode(&s); err != nil {
		return err
	}
	*b, err = ParseBaseType(s)
	return err
}

// RailGuideParams dimension a rail guide. The guide runs along X from 0 to
// Length with its underside on z=0 and the body tube axis at
// (y=0, z=-Diameter/2).
type RailGuideParams struct {
	BaseType      BaseType `yaml:"base_type"`
	TopWidth      float64  `yaml:"top_width"`
	MiddleWidth   float64  `yaml:"middle_width"`
	BaseWidth     float64  `yaml:"base_width"`
	TopThickness  float64  `yaml:"top_thickness"`
	BaseThickness float64  `yaml:"base_thickness"`
	Thickness     float64  `yaml:"thickness"`
	Length        float64  `yaml:"length"`
	Diameter      float64  `yaml:"diameter"`
	AutoDiameter  bool     `yaml:"auto_diameter"`
	// VAngle is the included angle of a V base in degrees.
	VAngle float64 `yaml:"v_angle"`

	ForwardRake      bool    `yaml:"forward_rake"`
	ForwardRakeAngle float64 `yaml:"forward_rake_angle"`
	AftRake          bool    `yaml:"aft_rake"`
	AftRakeAngle     float64 `yaml:"aft_rake_angle"`

	Material string `yaml:"material,omitempty"`
}

// DefaultRailGuide returns a 1010 rail guide for a 25mm tube.
func DefaultRailGuide() RailGuideParams {
	return RailGuideParams{
		BaseType:         BaseFlat,
		TopWidth:         9.462,
		MiddleWidth:      6.2375,
		BaseWidth:        15,
		TopThickness:     2.096,
		BaseThickness:    3.429,
		Thickness:        7.62,
		Length:           20,
		Diameter:         24.79,
		AutoDiameter:     true,
		VAngle:           135,
		ForwardRakeAngle: 30,
		AftRakeAngle:     30,
	}
}

// OnTube returns p with Diameter set to the parent tube diameter when
// AutoDiameter is on.
func (p RailGuideParams) OnTube(diameter float64) RailGuideParams {
	if p.AutoDiameter && diameter > 0 {
		p.Diameter = diameter
	}
	return p
}

// Validate checks the guide dimensions.
func (p RailGuideParams) Validate() error {
	if err := rocket.Positive(
		rocket.Field{Name: "TopWidth", Value: p.TopWidth},
		rocket.Field{Name: "MiddleWidth", Value: p.MiddleWidth},
		rocket.Field{Name: "BaseWidth", Value: p.BaseWidth},
		rocket.Field{Name: "TopThickness", Value: p.TopThickness},
		rocket.Field{Name: "BaseThickness", Value: p.BaseThickness},
		rocket.Field{Name: "Thickness", Value: p.Thickness},
		rocket.Field{Name: "Length", Value: p.Length},
	); err != nil {
		return err
	}
	if p.MiddleWidth >= p.TopWidth || p.MiddleWidth >= p.BaseWidth {
		return rocket.Invalid("MiddleWidth", "must be narrower than the top and base widths")
	}
	if p.TopThickness+p.BaseThickness >= p.Thickness {
		return rocket.Invalid("Thickness", "must exceed top and base thicknesses combined")
	}
	switch p.BaseType {
	case BaseFlat:
	case BaseConformal:
		if p.Diameter <= p.BaseWidth {
			return rocket.Invalid("Diameter", "must be larger than the base width for a conformal base")
		}
	case BaseV:
		if p.VAngle <= 0 || p.VAngle >= 180 {
			return rocket.Invalid("VAngle", "must be between 0 and 180 degrees, got %g", p.VAngle)
		}
	default:
		return rocket.Invalid("BaseType", "undeclared base type %d", int(p.BaseType))
	}
	var run float64
	for _, r := range []struct {
		name  string
		on    bool
		angle float64
	}{
		{"ForwardRakeAngle", p.ForwardRake, p.ForwardRakeAngle},
		{"AftRakeAngle", p.AftRake, p.AftRakeAngle},
	} {
		if !r.on {
			continue
		}
		if r.angle < 0 || r.angle >= 90 {
			return rocket.Invalid(r.name, "must be in [0, 90) degrees, got %g", r.angle)
		}
		run += p.Thickness * math.Tan(sdf.DtoR(r.angle))
	}
	if run >= p.Length {
		return rocket.Invalid("Length", "too short for the rake angles")
	}
	if _, _, err := matter.Lookup(p.Material); err != nil {
		return rocket.Invalid("Material", "%v", err)
	}
	return nil
}

// Section returns the cross section of the guide in the (y, z) plane.
func (p RailGuideParams) Section() (sdf.SDF2, error) {
	bw, mw, tw := p.BaseWidth/2, p.MiddleWidth/2, p.TopWidth/2
	web0, web1 := p.BaseThickness, p.Thickness-p.TopThickness
	var bottom []r2.Vec
	switch p.BaseType {
	case BaseFlat:
		bottom = []r2.Vec{{X: -bw}, {X: bw}}
	case BaseV:
		drop := -bw * math.Tan(sdf.DtoR((180-p.VAngle)/2))
		bottom = []r2.Vec{{X: -bw, Y: drop}, {}, {X: bw, Y: drop}}
	case BaseConformal:
		R := p.Diameter / 2
		drop := -1.1 * (R - math.Sqrt(R*R-bw*bw))
		bottom = []r2.Vec{{X: -bw, Y: drop}, {X: bw, Y: drop}}
	}
	outline := append(bottom, []r2.Vec{
		{X: bw, Y: web0},
		{X: mw, Y: web0},
		{X: mw, Y: web1},
		{X: tw, Y: web1},
		{X: tw, Y: p.Thickness},
		{X: -tw, Y: p.Thickness},
		{X: -tw, Y: web1},
		{X: -mw, Y: web1},
		{X: -mw, Y: web0},
		{X: -bw, Y: web0},
	}...)
	section, err := form2.Polygon(outline)
	if err != nil {
		return nil, err
	}
	if p.BaseType == BaseConformal {
		tube, err := form2.CircleAt(r2.Vec{Y: -p.Diameter / 2}, p.Diameter/2)
		if err != nil {
			return nil, err
		}
		return sdf.Difference2D(section, tube), nil
	}
	return section, nil
}

// Draw returns the rail guide solid.
func (p RailGuideParams) Draw() (s sdf.SDF3, err error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	defer func() {
		if a := recover(); a != nil {
			err = fmt.Errorf("rail guide %w: %v", rocket.ErrInvalidShape, a)
		}
	}()
	section, err := p.Section()
	if err != nil {
		return nil, fmt.Errorf("rail guide %w: %v", rocket.ErrInvalidShape, err)
	}
	s = sdf.ExtrudeFace(sdf.Face{Plane: sdf.PlaneYZ, Region: section}, p.Length)
	if p.ForwardRake {
		// The top of the forward end leans back toward the aft end.
		s = sdf.Cut3D(s, r3.Vec{X: p.Length}, r3.Vec{X: -1, Z: -math.Tan(sdf.DtoR(p.ForwardRakeAngle))})
	}
	if p.AftRake {
		s = sdf.Cut3D(s, r3.Vec{}, r3.Vec{X: 1, Z: -math.Tan(sdf.DtoR(p.AftRakeAngle))})
	}
	if m, ok, _ := matter.Lookup(p.Material); ok {
		s = m.Scale(s)
	}
	rocket.Logger().Debug().Stringer("base", p.BaseType).Float64("length", p.Length).Msg("rail guide")
	return s, nil
}
