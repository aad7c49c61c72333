package openrocket_test

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rocketcad/sdf/rocket"
	"github.com/rocketcad/sdf/rocket/openrocket"
)

const design = `<?xml version='1.0' encoding='utf-8'?>
<openrocket version="1.9" creator="OpenRocket 23.09">
  <rocket>
    <name>Alpha</name>
    <id>r-1</id>
    <subcomponents>
      <stage>
        <name>Sustainer</name>
        <id>s-1</id>
        <subcomponents>
          <nosecone>
            <name>Nose cone</name>
            <id>n-1</id>
            <finish>smooth</finish>
            <material type="bulk" density="1250.0">PLA</material>
            <length>0.1</length>
            <shape>ogive</shape>
          </nosecone>
          <bodytube>
            <name>Body tube</name>
            <id>b-1</id>
            <comment>main tube</comment>
            <preset type="bodytube" manufacturer="Estes" partno="BT-50"/>
            <color red="255" green="0" blue="0"/>
            <linestyle>dashed</linestyle>
            <axialoffset method="after">0.0</axialoffset>
            <length>0.3</length>
            <thickness>0.0005</thickness>
            <radius>auto 0.0125</radius>
            <motormount><ignitionevent>automatic</ignitionevent></motormount>
            <subcomponents>
              <trapezoidfinset>
                <name>Fins</name>
                <position type="bottom">0.01</position>
                <fincount>3</fincount>
                <thickness>0.003</thickness>
                <crosssection>rounded</crosssection>
                <rootchord>0.1</rootchord>
                <tipchord>0.04</tipchord>
                <sweeplength>0.02</sweeplength>
                <height>0.08</height>
                <filletradius>0.002</filletradius>
              </trapezoidfinset>
              <gizmo><name>ignored</name></gizmo>
            </subcomponents>
          </bodytube>
        </subcomponents>
      </stage>
    </subcomponents>
  </rocket>
  <simulations><simulation><name>flight</name></simulation></simulations>
</openrocket>
`

func TestDecode(t *testing.T) {
	doc, err := openrocket.Decode(strings.NewReader(design))
	if err != nil {
		t.Fatal(err)
	}
	checkDesign(t, doc)
}

func checkDesign(t *testing.T, doc *openrocket.Document) {
	t.Helper()
	if doc.Version != "1.9" || doc.Creator != "OpenRocket 23.09" {
		t.Errorf("header %q %q", doc.Version, doc.Creator)
	}
	if doc.Rocket.Name != "Alpha" || doc.Rocket.ID != "r-1" {
		t.Errorf("rocket %q %q", doc.Rocket.Name, doc.Rocket.ID)
	}
	var got []string
	doc.Rocket.Walk(func(c *openrocket.Component, depth int) error {
		got = append(got, strings.Repeat(".", depth)+c.Type)
		return nil
	})
	want := []string{"rocket", ".stage", "..nosecone", "..bodytube", "...trapezoidfinset"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("tree %v, want %v", got, want)
	}

	nose := doc.Find("nosecone")[0]
	if nose.Material != "PLA" || nose.Values["materialdensity"] != "1250.0" || nose.Finish != "smooth" {
		t.Errorf("nose material %q density %q finish %q", nose.Material, nose.Values["materialdensity"], nose.Finish)
	}
	if nose.Values["shape"] != "ogive" {
		t.Errorf("nose shape %q", nose.Values["shape"])
	}

	tube := doc.Find("bodytube")[0]
	if tube.Location != rocket.LocationAfter || tube.Position != 0 {
		t.Errorf("tube location %v %g", tube.Location, tube.Position)
	}
	if tube.Preset != "Estes BT-50" || tube.Color != "rgb(255,0,0)" || tube.LineStyle != "dashed" || tube.Comment != "main tube" {
		t.Errorf("tube record %+v", tube)
	}
	if tube.Has("motormount") {
		t.Error("structured element kept as a value")
	}
	bt, err := openrocket.AsBodyTube(tube)
	if err != nil {
		t.Fatal(err)
	}
	if bt.Radius != 0.0125 || !bt.AutoRadius || bt.Length != 0.3 || bt.Thickness != 0.0005 {
		t.Errorf("body tube %+v", bt)
	}

	fins := doc.Find("trapezoidfinset")[0]
	if fins.Parent() != tube {
		t.Error("fin set parent is not the body tube")
	}
	if fins.Location != rocket.LocationBottom || fins.Position != 0.01 {
		t.Errorf("fin location %v %g", fins.Location, fins.Position)
	}
	if _, err := uuid.Parse(fins.ID); err != nil {
		t.Errorf("generated id %q: %v", fins.ID, err)
	}
}

func TestFinParams(t *testing.T) {
	doc, err := openrocket.Decode(strings.NewReader(design))
	if err != nil {
		t.Fatal(err)
	}
	fs, err := openrocket.AsTrapezoidFinSet(doc.Find("trapezoidfinset")[0])
	if err != nil {
		t.Fatal(err)
	}
	if fs.FinCount != 3 || fs.CrossSection != rocket.Round || fs.ParentRadius != 0.0125 {
		t.Errorf("fin set %+v", fs)
	}
	p := fs.FinParams()
	for _, c := range []struct {
		name      string
		got, want float64
	}{
		{"RootChord", p.RootChord, 100},
		{"TipChord", p.TipChord, 40},
		{"SweepLength", p.SweepLength, 20},
		{"Height", p.Height, 80},
		{"RootThickness", p.RootThickness, 3},
		{"TipThickness", p.TipThickness, 3},
		{"FilletRadius", p.FilletRadius, 2},
		{"ParentRadius", p.ParentRadius, 12.5},
	} {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %g, want %g", c.name, c.got, c.want)
		}
	}
	if !p.Fillets || p.FinCount != 3 || p.TipCrossSection != rocket.Same {
		t.Errorf("fin params %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Error(err)
	}

	if _, err := openrocket.AsTrapezoidFinSet(doc.Find("bodytube")[0]); err == nil {
		t.Error("body tube accepted as fin set")
	}
}

func TestDecodeCompressed(t *testing.T) {
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	w.Write([]byte(design))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	doc, err := openrocket.Decode(&gz)
	if err != nil {
		t.Fatal("gzip:", err)
	}
	checkDesign(t, doc)

	var z bytes.Buffer
	zw := zip.NewWriter(&z)
	for _, e := range []struct{ name, body string }{
		{"decals/readme.txt", "not a design"},
		{"rocket.ork", design},
	} {
		f, err := zw.Create(e.name)
		if err != nil {
			t.Fatal(err)
		}
		f.Write([]byte(e.body))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	doc, err = openrocket.Decode(bytes.NewReader(z.Bytes()))
	if err != nil {
		t.Fatal("zip:", err)
	}
	checkDesign(t, doc)

	defer func(n int64) { openrocket.MaxArchiveSize = n }(openrocket.MaxArchiveSize)
	openrocket.MaxArchiveSize = int64(z.Len() - 1)
	if _, err := openrocket.Decode(bytes.NewReader(z.Bytes())); !errors.Is(err, openrocket.ErrTooLarge) {
		t.Errorf("oversized archive: got %v, want %v", err, openrocket.ErrTooLarge)
	}
	openrocket.MaxArchiveSize = int64(z.Len())
	if _, err := openrocket.Decode(bytes.NewReader(z.Bytes())); err != nil {
		t.Errorf("archive at the limit: %v", err)
	}
}

func TestOpen(t *testing.T) {
	name := filepath.Join(t.TempDir(), "alpha.ork")
	if err := os.WriteFile(name, []byte(design), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := openrocket.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Find("stage")) != 1 {
		t.Error("stage not found")
	}
	if _, err := openrocket.Open(filepath.Join(t.TempDir(), "missing.ork")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
}

func TestDecodeCharset(t *testing.T) {
	latin1 := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<openrocket version=\"1.0\"><rocket><name>Fus\xe9e</name></rocket></openrocket>"
	doc, err := openrocket.Decode(strings.NewReader(latin1))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Rocket.Name != "Fusée" {
		t.Errorf("name %q", doc.Rocket.Name)
	}
}

func TestDecodeErrors(t *testing.T) {
	var emptyZip bytes.Buffer
	zw := zip.NewWriter(&emptyZip)
	f, _ := zw.Create("notes.txt")
	f.Write([]byte("hello"))
	zw.Close()

	for _, c := range []struct {
		name   string
		input  string
		format bool
	}{
		{"empty", "", true},
		{"other root", "<kml><Document/></kml>", true},
		{"no rocket", "<openrocket version=\"1.0\"><simulations/></openrocket>", true},
		{"zip without design", emptyZip.String(), true},
		{"bad position", "<openrocket><rocket><subcomponents><stage><position type=\"after\">x</position></stage></subcomponents></rocket></openrocket>", false},
		{"truncated", "<openrocket><rocket><name>A</name>", false},
	} {
		_, err := openrocket.Decode(strings.NewReader(c.input))
		if err == nil {
			t.Errorf("%s: expected error", c.name)
			continue
		}
		if got := errors.Is(err, openrocket.ErrFormat); got != c.format {
			t.Errorf("%s: errors.Is(ErrFormat) = %v: %v", c.name, got, err)
		}
	}
}

func TestComponentValues(t *testing.T) {
	doc, err := openrocket.Decode(strings.NewReader(`<openrocket><rocket>
<name>R</name><fincount>2.5</fincount><radius>auto</radius><length>0.2</length>
</rocket></openrocket>`))
	if err != nil {
		t.Fatal(err)
	}
	c := doc.Rocket
	if v, err := c.Float("length"); err != nil || v != 0.2 {
		t.Errorf("length %g %v", v, err)
	}
	if _, err := c.Int("fincount"); err == nil {
		t.Error("fractional count accepted")
	}
	if _, err := c.Float("radius"); err == nil || !c.Auto("radius") {
		t.Error("automatic radius without value")
	}
	if _, err := c.Float("missing"); err == nil {
		t.Error("missing value accepted")
	}
}
