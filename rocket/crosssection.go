package rocket

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// CrossSection is the shape family of a fin cross section.
type CrossSection int

const (
	Square CrossSection = iota
	Round
	Airfoil
	Wedge
	Diamond
	TaperLE
	TaperTE
	TaperLETE
	// Same is only valid for a fin tip. It resolves to the root kind.
	Same
)

var crossSectionNames = [...]string{
	Square:    "square",
	Round:     "round",
	Airfoil:   "airfoil",
	Wedge:     "wedge",
	Diamond:   "diamond",
	TaperLE:   "taper-le",
	TaperTE:   "taper-te",
	TaperLETE: "taper-lete",
	Same:      "same",
}

// CrossSections lists every kind that has a construction.
func CrossSections() []CrossSection {
	return []CrossSection{Square, Round, Airfoil, Wedge, Diamond, TaperLE, TaperTE, TaperLETE}
}

func (c CrossSection) String() string {
	if c < 0 || int(c) >= len(crossSectionNames) {
		return fmt.Sprintf("CrossSection(%d)", int(c))
	}
	return crossSectionNames[c]
}

// Valid reports whether c is a declared kind, Same included.
func (c CrossSection) Valid() bool {
	return c >= Square && c <= Same
}

// Resolve returns the concrete kind of a tip cross section. Same resolves
// to root. Resolve fails if the result is still Same or undeclared.
func (c CrossSection) Resolve(root CrossSection) (CrossSection, error) {
	if c == Same {
		c = root
	}
	if !c.Valid() || c == Same {
		return c, fmt.Errorf("%w: %v", ErrUnknownCrossSection, c)
	}
	return c, nil
}

// ParseCrossSection parses a kind name. Names are case insensitive and the
// separators of the workbench labels ("Taper LE/TE", "Same as Root") are
// accepted.
func ParseCrossSection(s string) (CrossSection, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '/':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
	if key == "sameasroot" {
		key = "same"
	}
	for i, name := range crossSectionNames {
		if strings.ReplaceAll(name, "-", "") == key {
			return CrossSection(i), nil
		}
	}
	return Square, fmt.Errorf("%w: %q", ErrUnknownCrossSection, s)
}

// MarshalYAML encodes the kind by name.
func (c CrossSection) MarshalYAML() (interface{}, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownCrossSection, c)
	}
	return c.String(), nil
}

// UnmarshalYAML decodes a kind name.
func (c *CrossSection) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := ParseCrossSection(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = v
	return nil
}

// Location is where a component is placed relative to its parent.
type Location int

const (
	LocationBase Location = iota
	LocationAfter
	LocationTop
	LocationMiddle
	LocationBottom
)

// ParseLocation maps an OpenRocket position type. Unrecognized types
// place the component at the base.
func ParseLocation(s string) Location {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "after":
		return LocationAfter
	case "top":
		return LocationTop
	case "middle":
		return LocationMiddle
	case "bottom":
		return LocationBottom
	}
	return LocationBase
}

func (l Location) String() string {
	switch l {
	case LocationAfter:
		return "after"
	case LocationTop:
		return "top"
	case LocationMiddle:
		return "middle"
	case LocationBottom:
		return "bottom"
	}
	return "base"
}
