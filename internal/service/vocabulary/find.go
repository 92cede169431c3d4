package vocabulary

import (
	"context"
	"fmt"

	"github.com/heartmarshall/lexipath/internal/domain"
)

// Find returns the records matching filter in collection order.
func (s *Service) Find(ctx context.Context, filter domain.VocabularyFilter) ([]domain.VocabularyRecord, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	out := make([]domain.VocabularyRecord, 0, len(records))
	for _, r := range records {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Get returns one record with its effective status.
func (s *Service) Get(ctx context.Context, id string) (domain.VocabularyRecord, error) {
	return s.store.Get(ctx, id)
}
