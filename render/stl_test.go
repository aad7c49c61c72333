package render_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	hstl "github.com/hschendel/stl"
	"github.com/rocketcad/sdf/form3"
	"github.com/rocketcad/sdf/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSTLCreateWriteRead(t *testing.T) {
	const quality = 20
	path := filepath.Join(t.TempDir(), "box.stl")
	box, _ := form3.Box(r3.Vec{X: 3, Y: 2, Z: 1}, 0.5)
	err := render.CreateSTL(path, render.NewOctreeRenderer(box, quality))
	if err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(render.NewOctreeRenderer(box, quality))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != len(bfile) {
		t.Fatal("WriteSTL and CreateSTL output length mismatch")
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}

	// Cross check against an independent STL decoder.
	solid, err := hstl.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(solid.Triangles) != len(model) {
		t.Fatalf("decoder read %d triangles, want %d", len(solid.Triangles), len(model))
	}
	for i, tri := range solid.Triangles[:10] {
		for j, v := range tri.Vertices {
			want := model[i].V[j]
			if float32(want.X) != v[0] || float32(want.Y) != v[1] || float32(want.Z) != v[2] {
				t.Fatalf("triangle %d vertex %d: got %v, want %v", i, j, v, want)
			}
		}
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	var b bytes.Buffer
	if err := render.WriteSTL(&b, nil); err == nil {
		t.Error("expected error writing empty model")
	}
}

func TestSimplifySTL(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sphere.stl")
	dst := filepath.Join(dir, "sphere_small.stl")
	sphere, _ := form3.Sphere(1)
	model, err := render.RenderAll(render.NewOctreeRenderer(sphere, 30))
	if err != nil {
		t.Fatal(err)
	}
	fp, err := os.Create(src)
	if err != nil {
		t.Fatal(err)
	}
	err = render.WriteSTL(fp, model)
	fp.Close()
	if err != nil {
		t.Fatal(err)
	}
	n, err := render.SimplifySTL(src, dst, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 || n >= len(model) {
		t.Errorf("simplified to %d triangles from %d", n, len(model))
	}
	if _, err := render.SimplifySTL(src, dst, 0); err == nil {
		t.Error("expected error for zero factor")
	}
}
