// Package export writes the vocabulary table as a workbook or CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/lexipath/internal/domain"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Lexicon"

// Write encodes rows in format to w.
func Write(w io.Writer, format domain.ExportFormat, rows []domain.ExportRow) error {
	switch format {
	case domain.ExportFormatXLSX:
		return WriteXLSX(w, rows)
	case domain.ExportFormatCSV:
		return WriteCSV(w, rows)
	default:
		return domain.NewValidationError("format", "must be xlsx or csv")
	}
}

// ContentType returns the MIME type for format.
func ContentType(format domain.ExportFormat) string {
	if format == domain.ExportFormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// WriteXLSX writes a single-sheet workbook with a header row.
func WriteXLSX(w io.Writer, rows []domain.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	if err := setRow(f, 1, domain.ExportColumns); err != nil {
		return err
	}
	for i, r := range rows {
		if err := setRow(f, i+2, r.Values()); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: cell name: %w", err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	return nil
}

// WriteCSV writes RFC 4180 CSV with a header row.
func WriteCSV(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.ExportColumns); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Values()); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}
	return nil
}
