package rocket

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/rocketcad/sdf"
)

// Drawer builds a solid from an immutable parameter record.
type Drawer interface {
	Draw() (sdf.SDF3, error)
}

// DrawFunc adapts a function to Drawer.
type DrawFunc func() (sdf.SDF3, error)

// Draw calls f.
func (f DrawFunc) Draw() (sdf.SDF3, error) { return f() }

// Feature owns the last solid successfully drawn for a named part.
type Feature struct {
	name  string
	shape sdf.SDF3
}

// NewFeature returns an empty feature.
func NewFeature(name string) *Feature {
	return &Feature{name: name}
}

// Name returns the feature name.
func (f *Feature) Name() string { return f.name }

// Shape returns the last good solid, or nil if none was drawn.
func (f *Feature) Shape() sdf.SDF3 { return f.shape }

// Execute draws d and replaces the shape on success. On failure the
// previous shape is kept. Panics escaping the kernel are reported as
// ErrInvalidShape. Only panics raised while d builds the SDF tree are
// caught here; callers evaluating the shape later recover their own.
func (f *Feature) Execute(d Drawer) (err error) {
	log := Logger()
	defer func() {
		if a := recover(); a != nil {
			err = &ShapeError{Feature: f.name, Cause: fmt.Errorf("%v", a), Stack: string(debug.Stack())}
		}
		if err != nil {
			log.Error().Str("feature", f.name).Err(err).Msg("draw rejected")
		}
	}()
	s, err := d.Draw()
	if err != nil {
		if !errors.Is(err, ErrInvalidParameter) && !errors.Is(err, ErrInvalidShape) {
			err = &ShapeError{Feature: f.name, Cause: err}
		}
		return err
	}
	if s == nil {
		return &ShapeError{Feature: f.name, Cause: errors.New("no geometry")}
	}
	f.shape = s
	log.Debug().Str("feature", f.name).Msg("shape updated")
	return nil
}

// ShapeError reports a kernel failure for a feature.
type ShapeError struct {
	Feature string
	Cause   error
	Stack   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s %v: %v", e.Feature, ErrInvalidShape, e.Cause)
}

// Unwrap returns the kernel cause.
func (e *ShapeError) Unwrap() error { return e.Cause }

// Is makes every ShapeError match ErrInvalidShape.
func (e *ShapeError) Is(target error) bool { return target == ErrInvalidShape }
