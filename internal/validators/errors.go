package validators

import (
	"errors"
	"strings"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnsupportedType = errors.New("unsupported type for validation")
)

// ValidationError lists every rule a value violated, one human readable
// entry per field.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Details, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
