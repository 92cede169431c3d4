// Package vocabulary orchestrates imports, manual additions, enrichment and
// listing on top of the progress store.
package vocabulary

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/lexipath/internal/config"
	"github.com/heartmarshall/lexipath/internal/domain"
	"github.com/heartmarshall/lexipath/internal/ingest"
	"github.com/heartmarshall/lexipath/internal/service/progress"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type vocabularyStore interface {
	Upsert(ctx context.Context, records []domain.VocabularyRecord) (progress.UpsertResult, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	UpdateFields(ctx context.Context, id string, patch domain.RecordPatch) (bool, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int, error)
	Clear(ctx context.Context) error
	Load(ctx context.Context) ([]domain.VocabularyRecord, error)
	Get(ctx context.Context, id string) (domain.VocabularyRecord, error)
	ExportRows(ctx context.Context) ([]domain.ExportRow, error)
}

type sourceParser interface {
	Parse(ctx context.Context, src ingest.Source) (*ingest.ParseResult, error)
}

type enricher interface {
	Enrich(ctx context.Context, rec domain.VocabularyRecord) domain.VocabularyRecord
	EnrichWord(ctx context.Context, word string) domain.VocabularyRecord
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

const defaultWorkers = 4

// Service implements the vocabulary use cases.
type Service struct {
	log      *slog.Logger
	store    vocabularyStore
	parser   sourceParser
	enricher enricher
	workers  int
}

// NewService creates a vocabulary service.
func NewService(
	logger *slog.Logger,
	store vocabularyStore,
	parser sourceParser,
	enricher enricher,
	cfg config.EnrichmentConfig,
) *Service {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Service{
		log:      logger.With("service", "vocabulary"),
		store:    store,
		parser:   parser,
		enricher: enricher,
		workers:  workers,
	}
}
