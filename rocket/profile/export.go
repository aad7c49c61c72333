package profile

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/rocketcad/sdf/internal/d2"
	"github.com/rocketcad/sdf/rocket"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/entity"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Layer groups outlines written under one name.
type Layer struct {
	Name     string
	Outlines [][]r2.Vec
}

// NewLayer returns a layer holding the outlines of profiles.
func NewLayer(name string, profiles ...Profile) Layer {
	l := Layer{Name: name}
	for _, p := range profiles {
		l.Outlines = append(l.Outlines, p.Outline)
	}
	return l
}

var dxfColors = []color.ColorNumber{color.Red, color.Yellow, color.Green, color.Cyan, color.Blue, color.Magenta}

// WriteDXF saves the layers to a DXF file as closed LWPOLYLINE entities.
func WriteDXF(path string, layers ...Layer) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0
	n := 0
	for i, l := range layers {
		if _, err := d.AddLayer(l.Name, dxfColors[i%len(dxfColors)], dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("dxf layer %q: %w", l.Name, err)
		}
		if err := d.ChangeLayer(l.Name); err != nil {
			return err
		}
		for _, outline := range l.Outlines {
			lwp := entity.NewLwPolyline(len(outline))
			for j, v := range outline {
				lwp.Vertices[j] = []float64{v.X, v.Y}
			}
			lwp.Close()
			d.AddEntity(lwp)
			n++
		}
	}
	rocket.Logger().Debug().Str("path", path).Int("polylines", n).Msg("dxf written")
	return d.SaveAs(path)
}

// Plot saves the layers as a line plot. The format follows the file
// extension of path (png, svg, pdf).
func Plot(path string, width vg.Length, layers ...Layer) error {
	p := plot.New()
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"
	p.Legend.Top = true
	for i, l := range layers {
		for j, outline := range l.Outlines {
			xys := make(plotter.XYs, len(outline)+1)
			for k := range xys {
				v := outline[k%len(outline)]
				xys[k].X, xys[k].Y = v.X, v.Y
			}
			line, err := plotter.NewLine(xys)
			if err != nil {
				return fmt.Errorf("plot layer %q: %w", l.Name, err)
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			if j == 0 {
				p.Legend.Add(l.Name, line)
			}
		}
	}
	// Keep the axes isotropic so sections are not distorted.
	xr, yr := p.X.Max-p.X.Min, p.Y.Max-p.Y.Min
	height := width
	if xr > 0 {
		height = vg.Length(float64(width) * math.Max(yr/xr, 0.25))
	}
	return p.Save(width, height, path)
}

// WriteSVG draws the layers to w. scale is in pixels per millimetre.
func WriteSVG(w io.Writer, scale float64, layers ...Layer) error {
	var set d2.Set
	for _, l := range layers {
		for _, o := range l.Outlines {
			set = append(set, o...)
		}
	}
	if len(set) == 0 {
		return rocket.Invalid("layers", "nothing to draw")
	}
	if !(scale > 0) {
		return rocket.Invalid("scale", "must be greater than zero, got %g", scale)
	}
	const margin = 10
	lo, hi := set.Min(), set.Max()
	px := func(v r2.Vec) (int, int) {
		// SVG y grows downwards.
		return margin + int(math.Round((v.X-lo.X)*scale)), margin + int(math.Round((hi.Y-v.Y)*scale))
	}
	wpx, hpx := px(r2.Vec{X: hi.X, Y: lo.Y})
	canvas := svg.New(w)
	canvas.Start(wpx+margin, hpx+margin)
	for i, l := range layers {
		canvas.Group(fmt.Sprintf(`id="%s"`, l.Name))
		stroke := fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", svgColors[i%len(svgColors)])
		for _, o := range l.Outlines {
			xs, ys := make([]int, len(o)), make([]int, len(o))
			for j, v := range o {
				xs[j], ys[j] = px(v)
			}
			canvas.Polygon(xs, ys, stroke)
		}
		canvas.Gend()
	}
	canvas.End()
	return nil
}

var svgColors = []string{"black", "red", "blue", "green", "orange", "purple"}
