package evalctx

import (
	"errors"
	"fmt"

	"github.com/roach88/scenectx/internal/value"
)

// NotFoundError is returned by Get when a name has no entry.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("context entry %q not found", e.Name)
}

// TypeError is returned when an entry exists but has the wrong kind for
// the requested access, or when a write would give a reserved entry an
// invalid kind.
type TypeError struct {
	Name string
	Want value.Kind
	Got  value.Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("context entry %q has kind %s, want %s", e.Name, e.Got, e.Want)
}

// IsNotFound returns true if err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsTypeError returns true if err is, or wraps, a TypeError.
func IsTypeError(err error) bool {
	var te *TypeError
	return errors.As(err, &te)
}
