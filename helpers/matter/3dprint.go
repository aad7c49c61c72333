// Package matter compensates printed part dimensions for material shrink.
package matter

import (
	"fmt"
	"strings"

	"github.com/rocketcad/sdf"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = ViscousMaterial{name: "pla", shrink: 0.2e-2, pullShrink: .45} // 0.2% shrinkage
	// PETG shrinks a little more than PLA and pulls in less around holes.
	PETG = ViscousMaterial{name: "petg", shrink: 0.4e-2, pullShrink: .3}
	// ABS shrinks noticeably on cooling.
	ABS = ViscousMaterial{name: "abs", shrink: 0.7e-2, pullShrink: .4}
)

// ViscousMaterial is a printed material that contracts as it cools.
type ViscousMaterial struct {
	name string
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
	// pullShrink takes into account viscoelastic shrinkage.
	pullShrink float64
}

// Lookup returns the material named s. The empty string and "none"
// return ok == false with no error.
func Lookup(s string) (m ViscousMaterial, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ViscousMaterial{}, false, nil
	case PLA.name:
		return PLA, true, nil
	case PETG.name:
		return PETG, true, nil
	case ABS.name:
		return ABS, true, nil
	}
	return ViscousMaterial{}, false, fmt.Errorf("unknown material %q", s)
}

func (m ViscousMaterial) String() string { return m.name }

// Scale grows a part so it cools to its modelled size.
func (m ViscousMaterial) Scale(s sdf.SDF3) sdf.SDF3 {
	return sdf.ScaleUniform3D(s, 1/(1-m.shrink))
}

// InternalDimScale returns the size to model a hole or slot so it prints
// at the real size.
func (m ViscousMaterial) InternalDimScale(real float64) float64 {
	if real <= 0 {
		panic("InternalDimScale only works for non-zero dimensions")
	}
	return real*(m.shrink+1) + m.pullShrink
}
