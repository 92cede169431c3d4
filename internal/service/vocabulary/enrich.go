package vocabulary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/lexipath/internal/domain"
)

// EnrichRecord fills in external data for one stored record and writes it
// back. Only pronunciation, meaning_en, synonyms and examples change.
func (s *Service) EnrichRecord(ctx context.Context, id string) (domain.VocabularyRecord, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.VocabularyRecord{}, err
	}

	if err := s.enrichAndSave(ctx, rec); err != nil {
		return domain.VocabularyRecord{}, err
	}
	return s.store.Get(ctx, id)
}

// EnrichAll enriches every record, or with onlyMissing just those lacking a
// pronunciation, English meaning, synonyms or examples. Lookups run on a
// bounded worker pool.
func (s *Service) EnrichAll(ctx context.Context, onlyMissing bool) (*EnrichAllResult, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	var candidates []domain.VocabularyRecord
	for _, r := range records {
		if !onlyMissing || needsEnrichment(r) {
			candidates = append(candidates, r)
		}
	}

	var enriched atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, rec := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := s.enrichAndSave(gctx, rec); err != nil {
				return err
			}
			enriched.Add(1)
			return nil
		})
	}
	err = g.Wait()

	result := &EnrichAllResult{Candidates: len(candidates), Enriched: int(enriched.Load())}
	s.log.InfoContext(ctx, "bulk enrichment finished",
		slog.Int("candidates", result.Candidates),
		slog.Int("enriched", result.Enriched),
	)
	return result, err
}

func (s *Service) enrichAndSave(ctx context.Context, rec domain.VocabularyRecord) error {
	enriched := s.enricher.Enrich(ctx, rec)

	found, err := s.store.UpdateFields(ctx, rec.ID, domain.PatchFromEnriched(enriched))
	if err != nil {
		return fmt.Errorf("save enrichment for %s: %w", rec.ID, err)
	}
	if !found {
		return fmt.Errorf("record %s: %w", rec.ID, domain.ErrNotFound)
	}
	return nil
}

func needsEnrichment(r domain.VocabularyRecord) bool {
	return strings.TrimSpace(r.Pronunciation) == "" ||
		strings.TrimSpace(r.MeaningEN) == "" ||
		strings.TrimSpace(r.Synonyms) == "" ||
		len(r.AllExamples()) == 0
}
