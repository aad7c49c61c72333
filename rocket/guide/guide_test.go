package guide

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rocketcad/sdf/rocket"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

func TestFinGuide(t *testing.T) {
	p := DefaultFinGuide()
	p.Span = 20
	s, err := p.Draw()
	if err != nil {
		t.Fatal(err)
	}
	R := p.Diameter / 2
	for _, test := range []struct {
		name   string
		p      r3.Vec
		inside bool
	}{
		{"bore", r3.Vec{Z: 1}, false},
		{"shell between fins", r3.Vec{X: (R + 1) * math.Sqrt2 / 2, Y: (R + 1) * math.Sqrt2 / 2, Z: 1}, true},
		{"fin slot", r3.Vec{Y: R + 10, Z: 1}, false},
		{"slot wall", r3.Vec{X: 2.5, Y: R + 10, Z: 1}, true},
		{"slot cap", r3.Vec{Y: R + p.Span + 1, Z: 1}, true},
		{"past length", r3.Vec{X: 2.5, Y: R + 10, Z: 3}, false},
		{"below", r3.Vec{X: 2.5, Y: R + 10, Z: -1}, false},
		{"beyond the shell", r3.Vec{X: (R + 3) * math.Sqrt2 / 2, Y: (R + 3) * math.Sqrt2 / 2, Z: 1}, false},
	} {
		d := s.Evaluate(test.p)
		if test.inside != (d < 0) {
			t.Errorf("%s at %v: distance %g, inside want %v", test.name, test.p, d, test.inside)
		}
	}
}

func TestFinGuideRotationalSymmetry(t *testing.T) {
	p := DefaultFinGuide()
	s, err := p.Draw()
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []r3.Vec{
		{X: 2.5, Y: 22.5, Z: 1},
		{X: 9.5, Y: 9.5, Z: 0.5},
		{X: -3, Y: 60, Z: 1.5},
		{X: 4, Y: 14, Z: 1},
	} {
		// 90 degrees about Z maps (x, y) to (-y, x).
		rot := r3.Vec{X: -v.Y, Y: v.X, Z: v.Z}
		a, b := s.Evaluate(v), s.Evaluate(rot)
		if math.Abs(a-b) > 1e-9 {
			t.Errorf("not symmetric at %v: %g vs %g", v, a, b)
		}
	}
}

func TestFinGuideMaterial(t *testing.T) {
	p := DefaultFinGuide()
	plain, err := p.Draw()
	if err != nil {
		t.Fatal(err)
	}
	p.Material = "pla"
	comp, err := p.Draw()
	if err != nil {
		t.Fatal(err)
	}
	// Just outside the nominal bore, between two fins, is material only
	// without compensation.
	v := r3.Vec{X: 12.6 * math.Sqrt2 / 2, Y: 12.6 * math.Sqrt2 / 2, Z: 1}
	if plain.Evaluate(v) >= 0 || comp.Evaluate(v) <= 0 {
		t.Errorf("bore not enlarged: plain %g, compensated %g", plain.Evaluate(v), comp.Evaluate(v))
	}
	p.Material = "unobtainium"
	if _, err := p.Draw(); !errors.Is(err, rocket.ErrInvalidParameter) {
		t.Errorf("unknown material: got %v", err)
	}
}

func TestFinGuideValidate(t *testing.T) {
	for _, modify := range []func(p *FinGuideParams){
		func(p *FinGuideParams) { p.Diameter = 0 },
		func(p *FinGuideParams) { p.Span = -1 },
		func(p *FinGuideParams) { p.FinCount = 0 },
		func(p *FinGuideParams) { p.GlueRadius = -1 },
		func(p *FinGuideParams) { p.Length = 0 },
		func(p *FinGuideParams) { p.Thickness = 0 },
	} {
		p := DefaultFinGuide()
		modify(&p)
		if _, err := p.Draw(); !errors.Is(err, rocket.ErrInvalidParameter) {
			t.Errorf("%+v: got %v", p, err)
		}
	}
}

func TestRailGuideBases(t *testing.T) {
	mid := DefaultRailGuide().Length / 2
	for _, test := range []struct {
		base   BaseType
		p      r3.Vec
		inside bool
	}{
		{BaseFlat, r3.Vec{X: mid, Z: 1}, true},
		{BaseFlat, r3.Vec{X: mid, Z: 4.5}, true},
		{BaseFlat, r3.Vec{X: mid, Y: 4.5, Z: 6.5}, true},
		{BaseFlat, r3.Vec{X: mid, Y: 4, Z: 4.5}, false}, // beside the web
		{BaseFlat, r3.Vec{X: mid, Y: 7, Z: -0.5}, false},
		{BaseConformal, r3.Vec{X: mid, Y: 7, Z: -0.5}, true},
		{BaseConformal, r3.Vec{X: mid, Z: -1}, false},
		{BaseV, r3.Vec{X: mid, Y: 7, Z: -0.5}, true},
		{BaseV, r3.Vec{X: mid, Z: -0.5}, false},
	} {
		p := DefaultRailGuide()
		p.BaseType = test.base
		s, err := p.Draw()
		if err != nil {
			t.Fatalf("%v: %v", test.base, err)
		}
		d := s.Evaluate(test.p)
		if test.inside != (d < 0) {
			t.Errorf("%v at %v: distance %g, inside want %v", test.base, test.p, d, test.inside)
		}
	}
}

func TestRailGuideRake(t *testing.T) {
	p := DefaultRailGuide()
	top := r3.Vec{X: 18, Z: 7}
	tail := r3.Vec{X: 2, Z: 7}
	s, err := p.Draw()
	if err != nil {
		t.Fatal(err)
	}
	if s.Evaluate(top) >= 0 || s.Evaluate(tail) >= 0 {
		t.Fatal("unraked guide should fill both ends")
	}
	p.ForwardRake, p.AftRake = true, true
	s, err = p.Draw()
	if err != nil {
		t.Fatal(err)
	}
	if d := s.Evaluate(top); d <= 0 {
		t.Errorf("forward rake left material at %v (%g)", top, d)
	}
	if d := s.Evaluate(tail); d <= 0 {
		t.Errorf("aft rake left material at %v (%g)", tail, d)
	}
	if d := s.Evaluate(r3.Vec{X: 18, Z: 1}); d >= 0 {
		t.Errorf("forward rake removed the base (%g)", d)
	}
	p.ForwardRakeAngle = 89
	if _, err := p.Draw(); !errors.Is(err, rocket.ErrInvalidParameter) {
		t.Errorf("steep rake: got %v", err)
	}
}

func TestRailGuideValidate(t *testing.T) {
	for _, modify := range []func(p *RailGuideParams){
		func(p *RailGuideParams) { p.Length = 0 },
		func(p *RailGuideParams) { p.MiddleWidth = 10 },
		func(p *RailGuideParams) { p.TopThickness = 5 },
		func(p *RailGuideParams) { p.BaseType, p.Diameter = BaseConformal, 10 },
		func(p *RailGuideParams) { p.BaseType, p.VAngle = BaseV, 180 },
		func(p *RailGuideParams) { p.BaseType = BaseType(7) },
	} {
		p := DefaultRailGuide()
		modify(&p)
		if err := p.Validate(); !errors.Is(err, rocket.ErrInvalidParameter) {
			t.Errorf("%+v: got %v", p, err)
		}
	}
	if err := DefaultRailGuide().Validate(); err != nil {
		t.Error(err)
	}
}

func TestRailGuideOnTube(t *testing.T) {
	p := DefaultRailGuide().OnTube(41.6)
	if p.Diameter != 41.6 {
		t.Errorf("auto diameter not applied: %g", p.Diameter)
	}
	p.AutoDiameter = false
	if got := p.OnTube(20).Diameter; got != 41.6 {
		t.Errorf("diameter changed with auto off: %g", got)
	}
}

func TestRailGuideYAML(t *testing.T) {
	var p RailGuideParams
	err := yaml.Unmarshal([]byte("base_type: conformal\nlength: 30\n"), &p)
	if err != nil {
		t.Fatal(err)
	}
	if p.BaseType != BaseConformal || p.Length != 30 {
		t.Errorf("decoded %+v", p)
	}
	b, err := yaml.Marshal(DefaultRailGuide())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "base_type: flat") {
		t.Errorf("encoded %s", b)
	}
	if err := yaml.Unmarshal([]byte("base_type: round\n"), &p); !errors.Is(err, rocket.ErrInvalidParameter) {
		t.Errorf("bad base: got %v", err)
	}
}
