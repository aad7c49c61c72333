package fin

import (
	"errors"
	"fmt"

	"github.com/rocketcad/sdf/rocket/fillet"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInvalidFillet is returned when the kernel cannot build a fillet solid.
var ErrInvalidFillet = errors.New("invalid fillet parameters")

// Fillets are the three fillet sections of one fin side.
//
// Aft and Fore lie in the (x, z) plane at y=0: Tangent1 is on the fin edge
// and Tangent2 on the root line. Chord lies in the (y, z) plane on the -y
// side of the fin: Tangent1 is on the fin face and Tangent2 on the tube.
type Fillets struct {
	Aft   fillet.Fillet
	Fore  fillet.Fillet
	Chord fillet.Fillet
}

// ComputeFillets solves the fillet sections for p.
func ComputeFillets(p Params) (Fillets, error) {
	r := p.FilletRadius
	rootLine := [2]r2.Vec{{}, {X: -1}}
	aft, err := fillet.PlaneFillet(r,
		r2.Vec{}, r2.Vec{X: p.RootChord - p.SweepLength - p.TipChord, Y: p.Height},
		rootLine[0], rootLine[1])
	if err != nil {
		return Fillets{}, fmt.Errorf("aft fillet: %w", err)
	}
	// The leading edge is solved mirrored about the root midpoint.
	fore, err := fillet.PlaneFillet(r,
		r2.Vec{}, r2.Vec{X: p.SweepLength, Y: p.Height},
		rootLine[0], rootLine[1])
	if err != nil {
		return Fillets{}, fmt.Errorf("fore fillet: %w", err)
	}
	chord, err := fillet.TubeFillet(r, p.ParentRadius,
		r2.Vec{X: -p.RootThickness / 2}, r2.Vec{X: -p.TipThickness / 2, Y: p.Height})
	if err != nil {
		return Fillets{}, fmt.Errorf("chord fillet: %w", err)
	}
	return Fillets{Aft: aft, Fore: fore.Mirror(p.RootChord / 2), Chord: chord}, nil
}
