package profile

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/rocket"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot/vg"
)

func testParams(kind rocket.CrossSection) Params {
	return Params{
		Kind:      kind,
		ForeX:     100,
		Chord:     100,
		Thickness: 6,
		Percent:   true,
		Length1:   20,
		Length2:   80,
	}
}

// segDistance is the distance from q to the closed polyline v.
func segDistance(v []r2.Vec, q r2.Vec) float64 {
	d := math.Inf(1)
	for i := range v {
		a, b := v[i], v[(i+1)%len(v)]
		ab := r2.Sub(b, a)
		t := r2.Dot(r2.Sub(q, a), ab) / r2.Norm2(ab)
		t = math.Max(0, math.Min(1, t))
		d = math.Min(d, r2.Norm(r2.Sub(q, r2.Add(a, r2.Scale(t, ab)))))
	}
	return d
}

func TestBuildAllKinds(t *testing.T) {
	for _, kind := range rocket.CrossSections() {
		p, err := Build(testParams(kind))
		if err != nil {
			t.Errorf("%v: %v", kind, err)
			continue
		}
		if len(p.Outline) < 3 {
			t.Errorf("%v: %d vertices", kind, len(p.Outline))
			continue
		}
		if p.Outline[0] != (r2.Vec{X: 100}) {
			t.Errorf("%v: outline starts at %v, want leading edge", kind, p.Outline[0])
		}
		if o := p.Ring().Orientation(); o != orb.CCW {
			t.Errorf("%v: orientation %v, want CCW", kind, o)
		}
		n := len(p.Outline)
		for i := range p.Outline {
			a, b, c := p.Outline[(i+n-1)%n], p.Outline[i], p.Outline[(i+1)%n]
			if r2.Cross(r2.Sub(b, a), r2.Sub(c, b)) < -1e-9 {
				t.Errorf("%v: concave at vertex %d %v", kind, i, b)
			}
		}
		lo, hi := p.Outline[0], p.Outline[0]
		for _, v := range p.Outline {
			lo.X, lo.Y = math.Min(lo.X, v.X), math.Min(lo.Y, v.Y)
			hi.X, hi.Y = math.Max(hi.X, v.X), math.Max(hi.Y, v.Y)
		}
		if math.Abs(hi.X-100) > 1e-9 || math.Abs(lo.X) > 1e-9 {
			t.Errorf("%v: axial extent [%g,%g], want [0,100]", kind, lo.X, hi.X)
		}
		if hi.Y > 3+1e-3 || hi.Y < 2.5 || math.Abs(hi.Y+lo.Y) > 1e-9 {
			t.Errorf("%v: thickness extent [%g,%g]", kind, lo.Y, hi.Y)
		}
		face, err := p.Face()
		if err != nil {
			t.Errorf("%v: face: %v", kind, err)
			continue
		}
		if c := p.Centroid(); face.Evaluate(c) >= 0 {
			t.Errorf("%v: centroid %v not inside face", kind, c)
		}
	}
}

func TestSquareArea(t *testing.T) {
	p, err := Build(testParams(rocket.Square))
	if err != nil {
		t.Fatal(err)
	}
	if a := p.Area(); math.Abs(a-600) > 1e-9 {
		t.Errorf("area %g, want 600", a)
	}
	if l := p.Perimeter(); math.Abs(l-212) > 1e-9 {
		t.Errorf("perimeter %g, want 212", l)
	}
	c := p.Centroid()
	if math.Abs(c.X-50) > 1e-9 || math.Abs(c.Y) > 1e-9 {
		t.Errorf("centroid %v, want (50,0)", c)
	}
	if !p.Contains(r2.Vec{X: 50, Y: 2.9}) || p.Contains(r2.Vec{X: 50, Y: 3.1}) {
		t.Error("containment wrong near the face")
	}
}

func TestInflateDistance(t *testing.T) {
	const r = 3.0
	for _, kind := range rocket.CrossSections() {
		base, err := Build(testParams(kind))
		if err != nil {
			t.Fatal(err)
		}
		path := base.OffsetPath(sdf.PlaneXY, r)
		if !path.Closed() {
			t.Errorf("%v: offset path not closed", kind)
		}
		// Base boundary samples are r from the exact offset curve.
		for i, a := range base.Outline {
			b := base.Outline[(i+1)%len(base.Outline)]
			for _, k := range []float64{0, 0.25, 0.5} {
				q := r2.Add(a, r2.Scale(k, r2.Sub(b, a)))
				if d := path.Distance(q); math.Abs(d-r) > 1e-6 {
					t.Errorf("%v: base point %v is %g from offset, want %g", kind, q, d, r)
				}
			}
		}
		inflated, err := base.Inflate(r)
		if err != nil {
			t.Fatal(err)
		}
		for _, v := range inflated.Outline {
			if d := segDistance(base.Outline, v); math.Abs(d-r) > 1e-6 {
				t.Errorf("%v: inflated vertex %v is %g from base, want %g", kind, v, d, r)
			}
		}
		if inflated.Chord != base.Chord+2*r || inflated.ForeX != base.ForeX+r {
			t.Errorf("%v: inflated params %+v", kind, inflated.Params)
		}
		if inflated.Area() <= base.Area() {
			t.Errorf("%v: inflated area %g not above %g", kind, inflated.Area(), base.Area())
		}
	}
	base, _ := Build(testParams(rocket.Square))
	if _, err := base.Inflate(0); !errors.Is(err, rocket.ErrInvalidParameter) {
		t.Errorf("zero inflate error %v", err)
	}
}

func TestBuildErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		mod  func(p *Params)
		err  error
	}{
		{"same", func(p *Params) { p.Kind = rocket.Same }, rocket.ErrUnknownCrossSection},
		{"undeclared", func(p *Params) { p.Kind = rocket.CrossSection(42) }, rocket.ErrUnknownCrossSection},
		{"chord", func(p *Params) { p.Chord = 0 }, rocket.ErrInvalidParameter},
		{"thickness", func(p *Params) { p.Thickness = -1 }, rocket.ErrInvalidParameter},
		{"round", func(p *Params) { p.Kind = rocket.Round; p.Chord = 4 }, rocket.ErrInvalidParameter},
		{"taper", func(p *Params) { p.Kind = rocket.TaperLE; p.Length1 = 100 }, rocket.ErrInvalidParameter},
		{"lete", func(p *Params) { p.Kind = rocket.TaperLETE; p.Length2 = 0 }, rocket.ErrInvalidParameter},
	} {
		p := testParams(rocket.Square)
		test.mod(&p)
		if _, err := Build(p); !errors.Is(err, test.err) {
			t.Errorf("%s: error %v, want %v", test.name, err, test.err)
		}
	}
}

func TestTaperLengths(t *testing.T) {
	p := testParams(rocket.TaperLETE)
	p.Percent = false
	p.Length1 = 30
	p.Length2 = EffectiveLength2(false, p.Chord, 20)
	got, err := Build(p)
	if err != nil {
		t.Fatal(err)
	}
	if got.Outline[1] != (r2.Vec{X: 70, Y: 3}) || got.Outline[2] != (r2.Vec{X: 20, Y: 3}) {
		t.Errorf("taper vertices %v %v", got.Outline[1], got.Outline[2])
	}
	// Overlapping tapers meet at their midpoint.
	p.Length1, p.Length2 = 60, 40
	got, err = Build(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Outline) != 4 || got.Outline[1] != (r2.Vec{X: 50, Y: 3}) {
		t.Errorf("collapsed outline %v", got.Outline)
	}
	if EffectiveLength2(true, 100, 20) != 20 {
		t.Error("percent length2 changed")
	}
}

func TestRing(t *testing.T) {
	rp := RingParams{Diameter: 25, RootThickness: 3, TipThickness: 3, Span: 20, FinCount: 4}
	s, err := Ring(rp, 0)
	if err != nil {
		t.Fatal(err)
	}
	R := rp.Diameter / 2
	mid := R + rp.Span/2
	for i := 0; i < 4; i++ {
		a := math.Pi/2 + float64(i)*math.Pi/2
		q := r2.Vec{X: mid*math.Cos(a) - 0.5*math.Sin(a), Y: mid*math.Sin(a) + 0.5*math.Cos(a)}
		if d := s.Evaluate(q); d >= 0 {
			t.Errorf("fin %d: %v outside ring (%g)", i, q, d)
		}
		b := a + math.Pi/4
		q = r2.Vec{X: mid * math.Cos(b), Y: mid * math.Sin(b)}
		if d := s.Evaluate(q); d <= 0 {
			t.Errorf("gap %d: %v inside ring (%g)", i, q, d)
		}
	}
	if d := s.Evaluate(r2.Vec{}); d >= 0 {
		t.Errorf("tube center outside (%g)", d)
	}
	if _, err := Ring(RingParams{Diameter: 25, RootThickness: 3, TipThickness: 3, Span: 20}, 0); !errors.Is(err, rocket.ErrInvalidParameter) {
		t.Errorf("zero fin count error %v", err)
	}
}

func TestExports(t *testing.T) {
	root, err := Build(testParams(rocket.Airfoil))
	if err != nil {
		t.Fatal(err)
	}
	inflated, err := root.Inflate(3)
	if err != nil {
		t.Fatal(err)
	}
	layers := []Layer{NewLayer("root", root), NewLayer("fillet", inflated)}
	dir := t.TempDir()

	dxfPath := filepath.Join(dir, "root.dxf")
	if err := WriteDXF(dxfPath, layers...); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(dxfPath)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(b), "LWPOLYLINE"); n < 2 {
		t.Errorf("dxf has %d polylines", n)
	}

	var buf bytes.Buffer
	if err := WriteSVG(&buf, 4, layers...); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "<polygon"); n != 2 {
		t.Errorf("svg has %d polygons, want 2", n)
	}

	pngPath := filepath.Join(dir, "root.png")
	if err := Plot(pngPath, 12*vg.Centimeter, layers...); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(pngPath); err != nil || fi.Size() == 0 {
		t.Errorf("plot not written: %v", err)
	}
}
