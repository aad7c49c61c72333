package rocket

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/form3/must3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

func TestParseCrossSection(t *testing.T) {
	for _, test := range []struct {
		in   string
		want CrossSection
	}{
		{"square", Square},
		{"Round", Round},
		{" AIRFOIL ", Airfoil},
		{"wedge", Wedge},
		{"Diamond", Diamond},
		{"Taper LE", TaperLE},
		{"taper_te", TaperTE},
		{"Taper LE/TE", TaperLETE},
		{"Same as Root", Same},
		{"same", Same},
	} {
		got, err := ParseCrossSection(test.in)
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("%q: got %v, want %v", test.in, got, test.want)
		}
	}
	if _, err := ParseCrossSection("ogive"); !errors.Is(err, ErrUnknownCrossSection) {
		t.Errorf("unknown name: got %v", err)
	}
}

func TestResolve(t *testing.T) {
	got, err := Same.Resolve(Airfoil)
	if err != nil || got != Airfoil {
		t.Errorf("Same resolved to %v, %v", got, err)
	}
	got, err = Wedge.Resolve(Airfoil)
	if err != nil || got != Wedge {
		t.Errorf("Wedge resolved to %v, %v", got, err)
	}
	if _, err := Same.Resolve(Same); !errors.Is(err, ErrUnknownCrossSection) {
		t.Errorf("Same root: got %v", err)
	}
	if _, err := CrossSection(99).Resolve(Square); !errors.Is(err, ErrUnknownCrossSection) {
		t.Errorf("undeclared kind: got %v", err)
	}
	for _, c := range CrossSections() {
		if c == Same || !c.Valid() {
			t.Errorf("CrossSections lists %v", c)
		}
	}
	if s := CrossSection(99).String(); s != "CrossSection(99)" {
		t.Errorf("undeclared kind string %q", s)
	}
}

func TestCrossSectionYAML(t *testing.T) {
	type rec struct {
		Root CrossSection `yaml:"root"`
		Tip  CrossSection `yaml:"tip"`
	}
	b, err := yaml.Marshal(rec{Root: TaperLETE, Tip: Same})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "taper-lete") {
		t.Errorf("encoded %q", b)
	}
	var got rec
	if err := yaml.Unmarshal([]byte("root: Taper LE/TE\ntip: Same as Root\n"), &got); err != nil {
		t.Fatal(err)
	}
	if got.Root != TaperLETE || got.Tip != Same {
		t.Errorf("decoded %+v", got)
	}
	err = yaml.Unmarshal([]byte("root: ogive\n"), &got)
	if !errors.Is(err, ErrUnknownCrossSection) {
		t.Errorf("bad kind: got %v", err)
	}
}

func TestParseLocation(t *testing.T) {
	for in, want := range map[string]Location{
		"after":    LocationAfter,
		"Top":      LocationTop,
		"middle":   LocationMiddle,
		"bottom":   LocationBottom,
		"absolute": LocationBase,
		"":         LocationBase,
	} {
		if got := ParseLocation(in); got != want {
			t.Errorf("%q: got %v, want %v", in, got, want)
		}
	}
}

func TestValidationError(t *testing.T) {
	err := Positive(Field{Name: "A", Value: 1}, Field{Name: "B", Value: 0}, Field{Name: "C", Value: -1})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "B" {
		t.Fatalf("got %v, want first failing field B", err)
	}
	if !errors.Is(err, ErrInvalidParameter) {
		t.Error("validation error does not match ErrInvalidParameter")
	}
	if err := Positive(Field{Name: "A", Value: 2}); err != nil {
		t.Error(err)
	}
}

func TestFeatureExecute(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	SetLogger(&l)
	defer SetLogger(nil)

	f := NewFeature("part")
	sphere := must3.Sphere(1)
	if err := f.Execute(DrawFunc(func() (sdf.SDF3, error) { return sphere, nil })); err != nil {
		t.Fatal(err)
	}
	if f.Shape() != sdf.SDF3(sphere) || f.Name() != "part" {
		t.Fatal("shape not stored")
	}

	for name, d := range map[string]DrawFunc{
		"panic":  func() (sdf.SDF3, error) { panic("radius <= 0") },
		"nil":    func() (sdf.SDF3, error) { return nil, nil },
		"kernel": func() (sdf.SDF3, error) { return nil, errors.New("loft faces are coplanar") },
	} {
		err := f.Execute(d)
		if !errors.Is(err, ErrInvalidShape) {
			t.Errorf("%s: got %v, want ErrInvalidShape", name, err)
		}
		if f.Shape() != sdf.SDF3(sphere) {
			t.Errorf("%s: failed draw replaced shape", name)
		}
	}
	var serr *ShapeError
	err := f.Execute(DrawFunc(func() (sdf.SDF3, error) { panic("boom") }))
	if !errors.As(err, &serr) || serr.Stack == "" || serr.Feature != "part" {
		t.Errorf("panic not reported with stack: %v", err)
	}
	err = f.Execute(DrawFunc(func() (sdf.SDF3, error) { return nil, Invalid("Height", "must be positive") }))
	if !errors.Is(err, ErrInvalidParameter) || errors.Is(err, ErrInvalidShape) {
		t.Errorf("parameter error reported as %v", err)
	}
	if !strings.Contains(buf.String(), "draw rejected") {
		t.Error("rejected draws were not logged")
	}
}
