package matter

import (
	"math"
	"testing"

	"github.com/rocketcad/sdf/form3/must3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"PLA", " petg", "abs"} {
		m, ok, err := Lookup(name)
		if err != nil || !ok {
			t.Errorf("%q: %v %v", name, ok, err)
		}
		if m.shrink <= 0 {
			t.Errorf("%q: no shrink", name)
		}
	}
	if _, ok, err := Lookup(""); ok || err != nil {
		t.Errorf("empty material: %v %v", ok, err)
	}
	if _, _, err := Lookup("wood"); err == nil {
		t.Error("expected unknown material error")
	}
}

func TestCompensation(t *testing.T) {
	if got := PLA.InternalDimScale(25); math.Abs(got-(25*1.002+0.45)) > 1e-12 {
		t.Errorf("PLA bore %g", got)
	}
	s := PLA.Scale(must3.Sphere(10))
	want := 10 / (1 - 0.002)
	if d := s.Evaluate(r3.Vec{X: want}); math.Abs(d) > 1e-9 {
		t.Errorf("scaled surface off by %g", d)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero dimension")
		}
	}()
	PLA.InternalDimScale(0)
}
