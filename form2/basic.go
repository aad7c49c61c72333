package form2

import (
	"fmt"
	"runtime/debug"

	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/form2/must2"
	"gonum.org/v1/gonum/spatial/r2"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

// Stack returns the stack trace captured when the shape failed.
func (s *shapeErr) Stack() string { return s.stack }

// Circle returns the SDF2 for a 2d circle.
func Circle(radius float64) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Circle(radius), err
}

// CircleAt returns the SDF2 for a 2d circle centered on c.
func CircleAt(c r2.Vec, radius float64) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.CircleAt(c, radius), err
}

// Box returns a 2d box.
func Box(size r2.Vec, round float64) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Box(size, round), err
}

// Rect returns a 2d box spanning min to max.
func Rect(min, max r2.Vec) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Rect(min, max, 0), err
}
