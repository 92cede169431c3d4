package vocabulary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/lexipath/internal/domain"
)

// AddWord enriches a bare headword and appends it to the collection.
// A headword already present, ignoring case, is a *domain.DuplicateWordError.
func (s *Service) AddWord(ctx context.Context, input AddWordInput) (domain.VocabularyRecord, error) {
	if err := input.Validate(); err != nil {
		return domain.VocabularyRecord{}, err
	}
	word := strings.TrimSpace(input.Word)

	existing, err := s.store.Load(ctx)
	if err != nil {
		return domain.VocabularyRecord{}, fmt.Errorf("load vocabulary: %w", err)
	}
	id := domain.MakeID(word)
	for _, r := range existing {
		if domain.SameHeadword(r.Word, word) || r.ID == id {
			return domain.VocabularyRecord{}, &domain.DuplicateWordError{Word: word}
		}
	}

	rec := s.enricher.EnrichWord(ctx, word)
	if _, err := s.store.Upsert(ctx, []domain.VocabularyRecord{rec}); err != nil {
		return domain.VocabularyRecord{}, fmt.Errorf("store word: %w", err)
	}

	s.log.InfoContext(ctx, "word added", slog.String("id", rec.ID), slog.String("word", word))
	return s.store.Get(ctx, rec.ID)
}
