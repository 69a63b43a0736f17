package dataimport

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidData matches every InvalidDataError.
	ErrInvalidData = errors.New("invalid data")

	// ErrEntityNotFound matches every EntityNotFoundError.
	ErrEntityNotFound = errors.New("entity not found")
)

// InvalidDataError reports a required field that is empty or absent.
type InvalidDataError struct {
	Field  string
	Reason string // optional; defaults to "is required."
}

func (e *InvalidDataError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%q %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%q is required.", e.Field)
}

// Is lets errors.Is(err, ErrInvalidData) match.
func (e *InvalidDataError) Is(target error) bool {
	return target == ErrInvalidData
}

// EntityNotFoundError reports a natural key that resolved to nothing.
type EntityNotFoundError struct {
	Entity string // "Merchant", "Locale", ...
	Field  string // "key", "reference", ...
	Value  string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("could not find %s by %s %q", e.Entity, e.Field, e.Value)
}

// Is lets errors.Is(err, ErrEntityNotFound) match.
func (e *EntityNotFoundError) Is(target error) bool {
	return target == ErrEntityNotFound
}

// Required returns an InvalidDataError for field.
func Required(field string) error {
	return &InvalidDataError{Field: field}
}
