package vocabulary

import "github.com/google/uuid"

// ImportResult summarizes one import run.
type ImportResult struct {
	RunID    uuid.UUID
	Source   string
	Format   string
	Imported int
	Updated  int
	Skipped  int
	Errors   []ImportError
}

// ImportError describes a source row that was not imported.
type ImportError struct {
	LineNumber int
	Text       string
	Reason     string
}

// EnrichAllResult summarizes a bulk enrichment.
type EnrichAllResult struct {
	Candidates int
	Enriched   int
}
