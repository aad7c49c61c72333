package render

import (
	"bytes"
	"errors"
	"io"
	"math"
	"math/rand"
	"testing"

	"github.com/rocketcad/sdf/form3/must3"
	"github.com/rocketcad/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMarchingTetrahedraMaxTriangles(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var (
		p   [8]r3.Vec
		dst [maxCubeTriangles]Triangle3
	)
	for i, off := range [8]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1}} {
		p[i] = off
	}
	max := 0
	for i := 0; i < 1<<8; i++ {
		var v [8]float64
		for j := range v {
			v[j] = rng.Float64() + 0.1
			if i&(1<<j) != 0 {
				v[j] = -v[j]
			}
		}
		n := mtToTriangles(dst[:], p, v, 0)
		if n > max {
			max = n
		}
		for _, tri := range dst[:n] {
			if tri.Degenerate(0) {
				t.Fatalf("degenerate triangle for corner signs %08b: %v", i, tri)
			}
		}
	}
	if max > maxCubeTriangles {
		t.Errorf("cube produced %d triangles, want at most %d", max, maxCubeTriangles)
	}
}

func TestSTLWriteReadback(t *testing.T) {
	const (
		quality = 60
		tol     = 1e-5
	)
	s0 := must3.Box(r3.Vec{X: 3, Y: 2, Z: 1}, 0.25)
	size := r3.Norm(d3.Box(s0.Bounds()).Size())
	// float32 storage loses precision relative to model size.
	rtol := tol * size
	input, err := RenderAll(NewOctreeRenderer(s0, quality))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = WriteSTL(&b, input)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != 84+50*len(input) {
		t.Fatalf("STL size %d, want %d", b.Len(), 84+50*len(input))
	}
	output, err := ReadSTL(&b)
	if err != nil && !errors.Is(err, ErrNormalMismatch) {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatal("length of triangles written/read not equal")
	}
	mismatches := 0
	for iface, expect := range input {
		got := output[iface]
		for i := range expect.V {
			if !d3.EqualWithin(got.V[i], expect.V[i], rtol) {
				mismatches++
				t.Errorf("%dth triangle equality out of tolerance. got vertex %0.5g, want %0.5g", iface, got.V[i], expect.V[i])
			}
		}
		if mismatches > 10 {
			t.Fatal("too many mismatches")
		}
	}
}

func TestOctreeWatertight(t *testing.T) {
	for _, test := range []struct {
		name   string
		volume float64
		model  []Triangle3
	}{
		{name: "sphere", volume: 4 * math.Pi / 3, model: mustRender(t, NewOctreeRenderer(must3.Sphere(1), 40))},
		{name: "box", volume: 6, model: mustRender(t, NewOctreeRenderer(must3.Box(r3.Vec{X: 3, Y: 2, Z: 1}, 0), 60))},
	} {
		if len(test.model) == 0 {
			t.Fatalf("%s: no triangles", test.name)
		}
		if open := OpenEdges(test.model); open != 0 {
			t.Errorf("%s: %d edges not shared by exactly two triangles", test.name, open)
		}
		v := Volume(test.model)
		if math.Abs(v-test.volume) > 0.03*test.volume {
			t.Errorf("%s: mesh volume %g, want %g", test.name, v, test.volume)
		}
	}
}

func TestOctreeMultithread(t *testing.T) {
	single := NewOctreeRenderer(must3.Sphere(20), 50)
	want := mustRender(t, single)

	oct := NewOctreeRenderer(must3.Sphere(20), 50)
	oct.SetConcurrency(4)
	buf := make([]Triangle3, 100)
	var err error
	var nt int
	var model []Triangle3
	for err == nil {
		nt, err = oct.ReadTriangles(buf)
		model = append(model, buf[:nt]...)
	}
	if err != io.EOF {
		t.Fatal(err)
	}
	if len(model) != oct.triangles {
		t.Errorf("triangles lost. got %d. octree read %d", len(model), oct.triangles)
	}
	if len(model) != len(want) {
		t.Errorf("concurrent render got %d triangles, single threaded got %d", len(model), len(want))
	}
	if oct.cubes.Load() != single.cubes.Load() {
		t.Errorf("concurrent render polygonized %d cubes, single threaded %d", oct.cubes.Load(), single.cubes.Load())
	}
	if open := OpenEdges(model); open != 0 {
		t.Errorf("%d open edges in concurrent render", open)
	}
}

func mustRender(t testing.TB, r Renderer) []Triangle3 {
	t.Helper()
	model, err := RenderAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return model
}

type faultySDF struct{}

func (faultySDF) Evaluate(r3.Vec) float64 { panic("evaluate failed") }

func (faultySDF) Bounds() r3.Box {
	return r3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}
}

func TestOctreeWorkerPanic(t *testing.T) {
	for _, n := range []int{1, 4} {
		oct := NewOctreeRenderer(faultySDF{}, 8)
		oct.SetConcurrency(n)
		func() {
			defer func() {
				if a := recover(); a != "evaluate failed" {
					t.Errorf("concurrency %d: recovered %v", n, a)
				}
			}()
			RenderAll(oct)
		}()
	}
}
