package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrSourceFetch   = errors.New("source fetch failed")
	ErrEmptySource   = errors.New("source contains no usable records")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// SourceFetchError reports a read, network or decode failure while
// obtaining raw bytes for an import. It matches both ErrSourceFetch and
// the underlying cause.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() []error { return []error{ErrSourceFetch, e.Err} }

// NewSourceFetchError wraps err as a SourceFetchError for the named source.
func NewSourceFetchError(source string, err error) *SourceFetchError {
	return &SourceFetchError{Source: source, Err: err}
}

// DuplicateWordError is returned when a manually added headword already
// exists in the collection.
type DuplicateWordError struct {
	Word string
}

func (e *DuplicateWordError) Error() string {
	return fmt.Sprintf("word %q already exists", e.Word)
}

func (e *DuplicateWordError) Unwrap() error { return ErrAlreadyExists }
