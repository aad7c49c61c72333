package render

import (
	"errors"

	"github.com/fogleman/simplify"
)

// SimplifySTL reduces the triangle count of the binary STL at src to
// roughly factor times the original using quadric error decimation and
// writes the result to dst. It returns the number of triangles written.
func SimplifySTL(src, dst string, factor float64) (int, error) {
	if factor <= 0 || factor > 1 {
		return 0, errors.New("simplify factor must be in (0, 1]")
	}
	mesh, err := simplify.LoadBinarySTL(src)
	if err != nil {
		return 0, err
	}
	if len(mesh.Triangles) == 0 {
		return 0, errors.New("empty mesh")
	}
	out := mesh.Simplify(factor)
	if err := out.SaveBinarySTL(dst); err != nil {
		return 0, err
	}
	return len(out.Triangles), nil
}
