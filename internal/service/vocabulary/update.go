package vocabulary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/lexipath/internal/domain"
)

// SetStatus records the learner's mastery state for id.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.Status) error {
	if !status.IsValid() {
		return domain.NewValidationError("status", "must be mastered or unmastered")
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	s.log.DebugContext(ctx, "status updated", slog.String("id", id), slog.String("status", status.String()))
	return nil
}

// UpdateFields applies a manual edit to id and returns the updated record.
func (s *Service) UpdateFields(ctx context.Context, id string, patch domain.RecordPatch) (domain.VocabularyRecord, error) {
	found, err := s.store.UpdateFields(ctx, id, patch)
	if err != nil {
		return domain.VocabularyRecord{}, err
	}
	if !found {
		return domain.VocabularyRecord{}, fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
	}
	return s.store.Get(ctx, id)
}
