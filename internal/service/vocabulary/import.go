package vocabulary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexipath/internal/domain"
	"github.com/heartmarshall/lexipath/internal/ingest"
)

// Import parses src and merges its records into the collection. Existing
// records keep their status. A source without usable records is rejected
// with domain.ErrEmptySource and leaves the collection untouched.
func (s *Service) Import(ctx context.Context, src ingest.Source) (*ImportResult, error) {
	runID := uuid.New()
	log := s.log.With(slog.String("run_id", runID.String()), slog.String("source", src.Label()))

	parsed, err := s.parser.Parse(ctx, src)
	if err != nil {
		log.WarnContext(ctx, "import failed", slog.String("error", err.Error()))
		return nil, err
	}

	result := &ImportResult{
		RunID:   runID,
		Source:  parsed.Source,
		Format:  parsed.Format,
		Skipped: len(parsed.Skipped),
	}
	for _, issue := range parsed.Skipped {
		result.Errors = append(result.Errors, ImportError{
			LineNumber: issue.Line,
			Text:       issue.Word,
			Reason:     issue.Reason,
		})
	}

	if len(parsed.Records) == 0 {
		log.InfoContext(ctx, "import produced no records", slog.Int("rows", parsed.RowsRead))
		return result, domain.ErrEmptySource
	}

	upserted, err := s.store.Upsert(ctx, parsed.Records)
	if err != nil {
		return nil, fmt.Errorf("upsert imported records: %w", err)
	}
	result.Imported = upserted.Inserted
	result.Updated = upserted.Updated

	log.InfoContext(ctx, "import completed",
		slog.String("format", result.Format),
		slog.Int("imported", result.Imported),
		slog.Int("updated", result.Updated),
		slog.Int("skipped", result.Skipped),
	)
	return result, nil
}
