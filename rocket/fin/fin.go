package fin

import (
	"math"

	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/rocket"
	"gonum.org/v1/gonum/spatial/r3"
)

// Body returns the fin solid: the root section lofted to the tip section,
// with the root extended down to conform to the body tube.
func Body(p Params) (sdf.SDF3, error) {
	root, err := p.RootProfile()
	if err != nil {
		return nil, err
	}
	tip, err := p.TipProfile()
	if err != nil {
		return nil, err
	}
	depth, err := tubeDepth(p.ParentRadius, p.RootThickness/2)
	if err != nil {
		return nil, err
	}
	face, err := root.Face()
	if err != nil {
		return nil, err
	}
	tube, err := bodyTube(p)
	if err != nil {
		return nil, err
	}
	loft := sdf.LoftPolygons(root.Outline, tip.Outline, 0, p.Height)
	base := sdf.ExtrudeFace(sdf.Face{Plane: sdf.PlaneXY, Region: face}, -depth)
	return sdf.Union3D(loft, sdf.Difference3D(base, tube)), nil
}

// Draw returns the fin fused with its fillets when enabled.
func (p Params) Draw() (sdf.SDF3, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	body, err := Body(p)
	if err != nil {
		return nil, err
	}
	if !p.Fillets {
		return body, nil
	}
	rc, err := NewRecipe(p)
	if err != nil {
		return nil, err
	}
	fillets, err := rc.Solid(body)
	if err != nil {
		return nil, err
	}
	return sdf.Union3D(body, fillets), nil
}

// Set returns FinCount fins spaced evenly about the body axis, which is
// moved to the X axis. The first fin points along +Z.
func Set(p Params) (sdf.SDF3, error) {
	f, err := p.Draw()
	if err != nil {
		return nil, err
	}
	f = sdf.Transform3D(f, sdf.Translate3D(r3.Vec{Z: p.ParentRadius}))
	return sdf.RotateUnion3D(f, p.FinCount, sdf.RotateX(2*math.Pi/float64(p.FinCount))), nil
}

// SetDrawer draws the fin set of p at a rocket.Feature.
func SetDrawer(p Params) rocket.Drawer {
	return rocket.DrawFunc(func() (sdf.SDF3, error) { return Set(p) })
}
