package core

import (
	"errors"
	"strings"
)

// ErrInvalidInput is the default cause of a ValidationError built from struct tags.
var ErrInvalidInput = errors.New("invalid input")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	if len(err.Fields) == 0 {
		return err.Err.Error()
	}
	parts := make([]string, 0, len(err.Fields))
	for _, fld := range err.Fields {
		parts = append(parts, fld.Field+": "+fld.Error)
	}
	return err.Err.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (err ValidationError) Unwrap() error { return err.Err }

// IsValidation reports whether err carries a *ValidationError anywhere in its chain.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
