package fin

import (
	"fmt"
	"math"

	"github.com/rocketcad/sdf"
	"github.com/rocketcad/sdf/form2"
	"github.com/rocketcad/sdf/form3"
	"github.com/rocketcad/sdf/rocket"
	"github.com/rocketcad/sdf/rocket/fillet"
	"github.com/rocketcad/sdf/rocket/profile"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Family is the construction used for a fillet solid.
type Family int

const (
	// SquareFamily joins a side loft with cap blocks and cuts them with
	// straight fillet-radius cylinders.
	SquareFamily Family = iota
	// AirfoilFamily lofts an inflated root to the fin section at fillet
	// height and cuts it with a circle swept around that section.
	AirfoilFamily
)

func (f Family) String() string {
	if f == AirfoilFamily {
		return "airfoil"
	}
	return "square"
}

// FamilyOf returns the recipe family for a root cross section.
func FamilyOf(kind rocket.CrossSection) (Family, error) {
	switch kind {
	case rocket.Square, rocket.Round, rocket.Wedge, rocket.Diamond,
		rocket.TaperLE, rocket.TaperTE, rocket.TaperLETE:
		return SquareFamily, nil
	case rocket.Airfoil:
		return AirfoilFamily, nil
	}
	return 0, fmt.Errorf("fillet recipe for %v: %w", kind, rocket.ErrUnknownCrossSection)
}

// Recipe is the kernel construction of the fillet solid of one fin.
type Recipe struct {
	Family  Family
	Radius  float64
	Fillets Fillets

	// Square family. The side faces bound the side loft at the aft and
	// fore fillet centers. The cap faces are the (x, z) sections of the
	// cap blocks, extruded through |y| <= Width.
	AftSide, ForeSide sdf.Face
	AftCap, ForeCap   sdf.Face

	// Airfoil family.
	Lower, Upper profile.Profile

	// Width is the half width of the block and Depth how far below the
	// root plane it reaches to meet the tube.
	Width float64
	Depth float64
	// Rails are the axes of the fillet-radius cutters.
	Rails []*sdf.Path

	tube sdf.SDF3
}

// NewRecipe builds the fillet recipe for the root kind of p.
func NewRecipe(p Params) (Recipe, error) {
	fam, err := FamilyOf(p.RootCrossSection)
	if err != nil {
		return Recipe{}, err
	}
	f, err := ComputeFillets(p)
	if err != nil {
		return Recipe{}, err
	}
	rc := Recipe{Family: fam, Radius: p.FilletRadius, Fillets: f}
	if rc.tube, err = bodyTube(p); err != nil {
		return Recipe{}, err
	}
	switch fam {
	case SquareFamily:
		err = rc.square(p)
	case AirfoilFamily:
		err = rc.airfoil(p)
	}
	if err != nil {
		return Recipe{}, err
	}
	rocket.Logger().Debug().Stringer("family", fam).Float64("width", rc.Width).Float64("depth", rc.Depth).
		Float64("chord_sweep_deg", sdf.RtoD(f.Chord.Sweep())).Msg("fillet recipe")
	return rc, nil
}

// tubeDepth returns how far below the root plane the tube surface is at
// half width w, plus a margin.
func tubeDepth(R, w float64) (float64, error) {
	if w >= R {
		return 0, fmt.Errorf("%w: width %g not inside tube radius %g", ErrInvalidFillet, w, R)
	}
	return R - math.Sqrt(R*R-w*w) + 0.1*w, nil
}

// bodyTube is the body tube cutter covering the fin and its fillets.
func bodyTube(p Params) (sdf.SDF3, error) {
	pad := 3*p.FilletRadius + 1
	x0 := math.Min(0, p.RootChord-p.SweepLength-p.TipChord) - pad
	x1 := math.Max(p.RootChord, p.RootChord-p.SweepLength) + pad
	return form3.TubeX(p.ParentRadius, x0, x1, 0, -p.ParentRadius)
}

func (rc *Recipe) square(p Params) error {
	r, R := p.FilletRadius, p.ParentRadius
	aft, fore, chord := rc.Fillets.Aft, rc.Fillets.Fore, rc.Fillets.Chord

	// The fin face meets the tube slightly below the flat root.
	k, err := fillet.LineCircle(
		r2.Vec{X: -p.RootThickness / 2}, r2.Vec{X: -p.TipThickness / 2, Y: p.Height},
		r2.Vec{Y: -R}, R)
	if err != nil {
		return fmt.Errorf("%w: fin face misses the tube: %v", ErrInvalidFillet, err)
	}
	K := k[0]
	for _, v := range k[1:] {
		if v.Y > K.Y {
			K = v
		}
	}
	rc.Width = math.Abs(chord.Tangent2.X)
	if rc.Depth, err = tubeDepth(R, rc.Width); err != nil {
		return err
	}

	quad, err := form2.Polygon([]r2.Vec{K, chord.Tangent1, chord.Center, chord.Tangent2})
	if err != nil {
		return fmt.Errorf("%w: side section: %v", ErrInvalidFillet, err)
	}
	disk, err := form2.CircleAt(chord.Center, r)
	if err != nil {
		return err
	}
	side := sdf.Mirror2D(sdf.Difference2D(quad, disk))
	rc.AftSide = sdf.Face{Plane: sdf.PlaneYZ.Offset(aft.Center.X), Region: side}
	rc.ForeSide = sdf.Face{Plane: sdf.PlaneYZ.Offset(fore.Center.X), Region: side}

	// A cap spans from the fillet center to the root corner or the edge
	// tangent, whichever lies further in.
	capPlane := sdf.PlaneXZ.Offset(-rc.Width)
	rc.AftCap, err = capFace(capPlane,
		r2.Vec{X: aft.Center.X, Y: -rc.Depth},
		r2.Vec{X: math.Max(aft.Tangent1.X, 0), Y: aft.Tangent1.Y}, aft)
	if err != nil {
		return err
	}
	rc.ForeCap, err = capFace(capPlane,
		r2.Vec{X: math.Min(fore.Tangent1.X, p.RootChord), Y: -rc.Depth},
		r2.Vec{X: fore.Center.X, Y: fore.Tangent1.Y}, fore)
	if err != nil {
		return err
	}

	// Straight cutters run past the block so their rounded ends stay clear.
	pad := 2*r + 1
	for _, y := range []float64{chord.Center.X, -chord.Center.X} {
		pl := sdf.PlaneXZ.Offset(-y)
		rc.Rails = append(rc.Rails, sdf.PolylinePath(pl, []r2.Vec{
			{X: aft.Center.X - pad, Y: chord.Center.Y},
			{X: fore.Center.X + pad, Y: chord.Center.Y},
		}, false))
	}
	for _, c := range []r2.Vec{aft.Center, fore.Center} {
		pl := sdf.PlaneYZ.Offset(c.X)
		rc.Rails = append(rc.Rails, sdf.PolylinePath(pl, []r2.Vec{
			{X: -rc.Width - pad, Y: c.Y},
			{X: rc.Width + pad, Y: c.Y},
		}, false))
	}
	return nil
}

// capFace is the rectangle min-max in the (x, z) plane less the fillet disk.
func capFace(pl sdf.Plane, min, max r2.Vec, f fillet.Fillet) (sdf.Face, error) {
	rect, err := form2.Rect(min, max)
	if err != nil {
		return sdf.Face{}, fmt.Errorf("%w: cap section: %v", ErrInvalidFillet, err)
	}
	disk, err := form2.CircleAt(f.Center, f.Radius)
	if err != nil {
		return sdf.Face{}, err
	}
	return sdf.Face{Plane: pl, Region: sdf.Difference2D(rect, disk)}, nil
}

func (rc *Recipe) airfoil(p Params) error {
	r := p.FilletRadius
	fore, err := fillet.XAtZ(r3.Vec{X: p.RootChord - p.SweepLength, Z: p.Height}, r3.Vec{X: p.RootChord}, r)
	if err != nil {
		return err
	}
	aft, err := fillet.XAtZ(r3.Vec{X: p.RootChord - p.SweepLength - p.TipChord, Z: p.Height}, r3.Vec{}, r)
	if err != nil {
		return err
	}
	half, err := fillet.YAtZ(r3.Vec{Y: p.TipThickness / 2, Z: p.Height}, r3.Vec{Y: p.RootThickness / 2}, r)
	if err != nil {
		return err
	}
	rc.Upper, err = profile.Build(profile.Params{
		Kind:      rocket.Airfoil,
		ForeX:     fore,
		Chord:     fore - aft,
		Thickness: 2 * half,
		Height:    r,
	})
	if err != nil {
		return fmt.Errorf("%w: upper section: %v", ErrInvalidFillet, err)
	}
	root, err := p.RootProfile()
	if err != nil {
		return err
	}
	if rc.Lower, err = root.Inflate(r); err != nil {
		return err
	}
	rc.Width = p.RootThickness/2 + r
	if rc.Depth, err = tubeDepth(p.ParentRadius, rc.Width); err != nil {
		return err
	}
	rc.Rails = []*sdf.Path{rc.Upper.OffsetPath(sdf.PlaneXY.Offset(r), r)}
	return nil
}

// Solid runs the recipe. fin is cut from the result so the fillet meets
// the fin faces exactly.
func (rc Recipe) Solid(fin sdf.SDF3) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidFillet, a)
		}
	}()
	if fin == nil || rc.tube == nil {
		return nil, fmt.Errorf("%w: missing fin or tube", ErrInvalidFillet)
	}
	var block sdf.SDF3
	switch rc.Family {
	case SquareFamily:
		block = sdf.Union3D(
			sdf.LoftFaces(rc.AftSide, rc.ForeSide),
			sdf.ExtrudeFace(rc.AftCap, 2*rc.Width),
			sdf.ExtrudeFace(rc.ForeCap, 2*rc.Width),
		)
	case AirfoilFamily:
		lower, err := rc.Lower.Face()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFillet, err)
		}
		block = sdf.Union3D(
			sdf.LoftPolygons(rc.Lower.Outline, rc.Upper.Outline, 0, rc.Radius),
			sdf.ExtrudeFace(sdf.Face{Plane: sdf.PlaneXY, Region: lower}, -rc.Depth),
		)
	default:
		return nil, fmt.Errorf("fillet family %v: %w", rc.Family, rocket.ErrUnknownCrossSection)
	}
	cutters := []sdf.SDF3{rc.tube, fin}
	for _, rail := range rc.Rails {
		cutters = append(cutters, sdf.Sweep3D(rail, rc.Radius))
	}
	return sdf.Difference3D(block, sdf.Union3D(cutters...)), nil
}
