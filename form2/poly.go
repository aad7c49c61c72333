package form2

import (
	"runtime/debug"

	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/form2/must2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon returns an SDF2 made from a closed set of line segments.
func Polygon(vertex []r2.Vec) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Polygon(vertex), err
}
