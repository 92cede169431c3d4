package vocabulary

import (
	"context"
	"fmt"
)

// Delete removes one record. Unknown ids are a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// DeleteMany removes several records and returns how many existed.
func (s *Service) DeleteMany(ctx context.Context, input DeleteManyInput) (int, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}
	n, err := s.store.DeleteMany(ctx, input.IDs)
	if err != nil {
		return 0, fmt.Errorf("delete many: %w", err)
	}
	return n, nil
}

// Clear wipes the collection and all status data.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	s.log.InfoContext(ctx, "vocabulary cleared")
	return nil
}
