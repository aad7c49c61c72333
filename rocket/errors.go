package rocket

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter matches every ValidationError.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidShape is reported at the draw boundary when the kernel
	// cannot build a solid from otherwise valid parameters.
	ErrInvalidShape = errors.New("parameters produce an invalid shape")
	// ErrUnknownCrossSection is returned for a cross section kind with no
	// construction, including an unresolved Same.
	ErrUnknownCrossSection = errors.New("unknown cross section")
)

// ValidationError reports a parameter rejected before any geometry is built.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes every ValidationError match ErrInvalidParameter.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// Invalid returns a ValidationError for field.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Positive checks that every named value is greater than zero and
// returns the first violation.
func Positive(fields ...Field) error {
	for _, f := range fields {
		if !(f.Value > 0) {
			return Invalid(f.Name, "must be greater than zero, got %g", f.Value)
		}
	}
	return nil
}

// Field is a named parameter value.
type Field struct {
	Name  string
	Value float64
}
