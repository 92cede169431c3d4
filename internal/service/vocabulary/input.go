package vocabulary

import (
	"strings"

	"github.com/heartmarshall/lexipath/internal/domain"
)

const maxWordLength = 200

// AddWordInput holds the parameters for adding a headword by hand.
type AddWordInput struct {
	Word string
}

// Validate checks all fields and collects all errors.
func (i *AddWordInput) Validate() error {
	var errs []domain.FieldError

	word := strings.TrimSpace(i.Word)
	if word == "" {
		errs = append(errs, domain.FieldError{Field: "word", Message: "required"})
	} else if len(word) > maxWordLength {
		errs = append(errs, domain.FieldError{Field: "word", Message: "too long (max 200)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// DeleteManyInput holds the ids for a batch delete.
type DeleteManyInput struct {
	IDs []string
}

// Validate checks all fields and collects all errors.
func (i *DeleteManyInput) Validate() error {
	var errs []domain.FieldError

	if len(i.IDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "ids", Message: "required"})
	}
	for _, id := range i.IDs {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, domain.FieldError{Field: "ids", Message: "must not contain empty ids"})
			break
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
