// Package openrocket reads OpenRocket design files into a tree of
// component records.
//
// Only the structure and the parameters needed to redraw parts are kept.
// Simulation data, motor configurations and appearance decals are skipped.
package openrocket

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketcad/sdf/rocket"
)

// Document is a decoded .ork file.
type Document struct {
	Version string
	Creator string
	Rocket  *Component
}

// Component is one record of the design tree.
type Component struct {
	Type      string // lower case tag, e.g. "bodytube".
	ID        string
	Name      string
	Location  rocket.Location
	Position  float64 // metres from the location reference.
	Comment   string
	Material  string
	Preset    string
	Color     string
	LineStyle string
	Finish    string

	// Values holds the text of every other scalar child element by tag.
	Values   map[string]string
	Children []*Component

	parent *Component
}

// Parent returns the enclosing component, nil for the rocket.
func (c *Component) Parent() *Component { return c.parent }

// Has reports whether the component carries the scalar element tag.
func (c *Component) Has(tag string) bool {
	_, ok := c.Values[tag]
	return ok
}

// Float parses a numeric element. OpenRocket writes automatic dimensions
// as "auto" optionally followed by the computed value; the value is
// returned when present.
func (c *Component) Float(tag string) (float64, error) {
	s, ok := c.Values[tag]
	if !ok {
		return 0, fmt.Errorf("%s %q: missing %s", c.Type, c.Name, tag)
	}
	s = strings.TrimSpace(s)
	if rest := strings.TrimPrefix(s, "auto"); rest != s {
		s = strings.TrimSpace(rest)
		if s == "" {
			return 0, fmt.Errorf("%s %q: %s is automatic without a value", c.Type, c.Name, tag)
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %s: %w", c.Type, c.Name, tag, err)
	}
	return v, nil
}

// Int parses an integer element.
func (c *Component) Int(tag string) (int, error) {
	v, err := c.Float(tag)
	if err != nil {
		return 0, err
	}
	if v != float64(int(v)) {
		return 0, fmt.Errorf("%s %q: %s is not an integer: %g", c.Type, c.Name, tag, v)
	}
	return int(v), nil
}

// Auto reports whether a dimension is computed from a neighbour.
func (c *Component) Auto(tag string) bool {
	return strings.HasPrefix(strings.TrimSpace(c.Values[tag]), "auto")
}

// Walk visits c and its descendants depth first. Returning an error stops
// the walk.
func (c *Component) Walk(fn func(c *Component, depth int) error) error {
	return c.walk(fn, 0)
}

func (c *Component) walk(fn func(*Component, int) error, depth int) error {
	if err := fn(c, depth); err != nil {
		return err
	}
	for _, child := range c.Children {
		if err := child.walk(fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Find returns every component of the given type in tree order.
func (d *Document) Find(typ string) []*Component {
	if d.Rocket == nil {
		return nil
	}
	var found []*Component
	d.Rocket.Walk(func(c *Component, _ int) error {
		if c.Type == typ {
			found = append(found, c)
		}
		return nil
	})
	return found
}
