package domain

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("word", "required")

	if got := err.Error(); got != "validation: word: required" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "word", Message: "required"},
		{Field: "status", Message: "invalid"},
	})

	if got := err.Error(); got != "validation: 2 errors" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestSourceFetchError_MatchesSentinelAndCause(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("import: %w", NewSourceFetchError("https://example.com/a.csv", io.ErrUnexpectedEOF))

	if !errors.Is(err, ErrSourceFetch) {
		t.Error("errors.Is(err, ErrSourceFetch) = false")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is(err, io.ErrUnexpectedEOF) = false")
	}

	var sfe *SourceFetchError
	if !errors.As(err, &sfe) {
		t.Fatal("errors.As(err, *SourceFetchError) = false")
	}
	if sfe.Source != "https://example.com/a.csv" {
		t.Errorf("Source = %q", sfe.Source)
	}
}

func TestDuplicateWordError_IsAlreadyExists(t *testing.T) {
	t.Parallel()

	err := &DuplicateWordError{Word: "Eloquent"}
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatal("errors.Is(err, ErrAlreadyExists) = false")
	}
	if got := err.Error(); got != `word "Eloquent" already exists` {
		t.Errorf("Error() = %q", got)
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	if s, err := ParseStatus("mastered"); err != nil || s != StatusMastered {
		t.Fatalf("ParseStatus(mastered) = %q, %v", s, err)
	}
	if _, err := ParseStatus("MASTERED"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
