package render_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	sdfxsdf "github.com/deadsy/sdfx/sdf"
	sdfxrender "github.com/deadsy/sdfx/render"
	"github.com/rocketcad/sdf/form3"
	"github.com/rocketcad/sdf/render"
	"gonum.org/v1/plot/cmpimg"
)

const (
	benchQuality = 200
)

func BenchmarkSDFXSphere(b *testing.B) {
	stdout := os.Stdout
	defer func() {
		os.Stdout = stdout // pesky sdfx prints out stuff
	}()
	os.Stdout, _ = os.Open(os.DevNull)
	output := filepath.Join(b.TempDir(), "sdfx_sphere.stl")
	object, _ := sdfxsdf.Sphere3D(10)
	for i := 0; i < b.N; i++ {
		sdfxrender.ToSTL(object, benchQuality, output, &sdfxrender.MarchingCubesOctree{})
	}
}

func BenchmarkSphere(b *testing.B) {
	output := filepath.Join(b.TempDir(), "our_sphere.stl")
	object, _ := form3.Sphere(10)
	for i := 0; i < b.N; i++ {
		render.CreateSTL(output, render.NewOctreeRenderer(object, benchQuality))
	}
}

func BenchmarkSphereThreaded(b *testing.B) {
	output := filepath.Join(b.TempDir(), "our_sphere.stl")
	object, _ := form3.Sphere(10)
	for i := 0; i < b.N; i++ {
		oct := render.NewOctreeRenderer(object, benchQuality)
		oct.SetConcurrency(runtime.NumCPU())
		render.CreateSTL(output, oct)
	}
}

func TestPreviewPNG(t *testing.T) {
	dir := t.TempDir()
	stlPath := filepath.Join(dir, "cylinder.stl")
	object, _ := form3.Cylinder(10, 4, 1)
	err := render.CreateSTL(stlPath, render.NewOctreeRenderer(object, 40))
	if err != nil {
		t.Fatal(err)
	}
	view := render.DefaultView()
	view.Width, view.Height = 160, 90
	png1 := filepath.Join(dir, "a.png")
	png2 := filepath.Join(dir, "b.png")
	for _, path := range []string{png1, png2} {
		if err := render.PreviewPNG(stlPath, path, view); err != nil {
			t.Fatal(err)
		}
	}
	b1, err := os.ReadFile(png1)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := os.ReadFile(png2)
	if err != nil {
		t.Fatal(err)
	}
	equal, err := cmpimg.EqualApprox("png", b1, b2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("preview rendering is not deterministic")
	}
	view.Width = 0
	if err := render.PreviewPNG(stlPath, png1, view); err == nil {
		t.Error("expected error for zero width")
	}
}
