package form3

import (
	"fmt"
	"runtime/debug"

	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/form3/must3"
	"gonum.org/v1/gonum/spatial/r3"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

// Box return an SDF3 for a 3d box (rounded corners with round > 0).
func Box(size r3.Vec, round float64) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Box(size, round), err
}

// Sphere return an SDF3 for a sphere.
func Sphere(radius float64) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Sphere(radius), err
}

// Cylinder return an SDF3 for a cylinder (rounded edges with round > 0).
func Cylinder(height, radius, round float64) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must3.Cylinder(height, radius, round), err
}

// TubeX returns a solid cylinder of radius r whose axis is parallel to X,
// spanning x0 to x1 and passing through (y, z).
func TubeX(r, x0, x1, y, z float64) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	if x1 <= x0 {
		panic("tube end before start")
	}
	c := must3.Cylinder(x1-x0, r, 0)
	m := sdf.Translate3D(r3.Vec{X: (x0 + x1) / 2, Y: y, Z: z}).Mul(sdf.RotateY(sdf.DtoR(90)))
	return sdf.Transform3D(c, m), err
}
