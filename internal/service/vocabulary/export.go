package vocabulary

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/heartmarshall/lexipath/internal/domain"
	"github.com/heartmarshall/lexipath/internal/export"
)

// Export writes the collection to w in format.
func (s *Service) Export(ctx context.Context, format domain.ExportFormat, w io.Writer) error {
	if !format.IsValid() {
		return domain.NewValidationError("format", "must be xlsx or csv")
	}

	rows, err := s.store.ExportRows(ctx)
	if err != nil {
		return fmt.Errorf("load export rows: %w", err)
	}
	if err := export.Write(w, format, rows); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "vocabulary exported", slog.Int("count", len(rows)))
	return nil
}
