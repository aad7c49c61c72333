package render

import (
	"errors"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures the camera used by PreviewPNG. The mesh is fit in a
// bi-unit cube centered at the origin before rendering.
type View struct {
	// Eye is the camera position.
	Eye r3.Vec
	// LookAt is the point the camera looks at.
	LookAt r3.Vec
	// Up is the up direction.
	Up        r3.Vec
	Near, Far float64
	// Fovy is the vertical field of view in degrees.
	Fovy          float64
	Width, Height int
	// Supersample renders at a multiple of the output size and downsamples.
	Supersample int
	// Color is the object color as a hex string.
	Color string
}

// DefaultView looks at the origin from the (1,1,1) diagonal with Z up.
func DefaultView() View {
	return View{
		Eye:         r3.Vec{X: 3, Y: 3, Z: 3},
		Up:          r3.Vec{Z: 1},
		Near:        1,
		Far:         10,
		Fovy:        30,
		Width:       960,
		Height:      540,
		Supersample: 2,
		Color:       "#468966",
	}
}

// PreviewPNG renders the STL file at stlPath with a Phong shader and
// saves the image to pngPath.
func PreviewPNG(stlPath, pngPath string, view View) error {
	if view.Width <= 0 || view.Height <= 0 {
		return errors.New("preview size must be positive")
	}
	if view.Supersample < 1 {
		view.Supersample = 1
	}
	mesh, err := fauxgl.LoadSTL(stlPath)
	if err != nil {
		return err
	}
	var (
		eye    = fauxgl.V(view.Eye.X, view.Eye.Y, view.Eye.Z)
		center = fauxgl.V(view.LookAt.X, view.LookAt.Y, view.LookAt.Z)
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	mesh.BiUnitCube()
	context := fauxgl.NewContext(view.Width*view.Supersample, view.Height*view.Supersample)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.Fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(view.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := context.Image()
	image = resize.Resize(uint(view.Width), uint(view.Height), image, resize.Bilinear)
	return fauxgl.SavePNG(pngPath, image)
}
