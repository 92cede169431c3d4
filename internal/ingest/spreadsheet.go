package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// zipSignature starts every xlsx (ZIP) payload.
var zipSignature = []byte{0x50, 0x4B}

func looksLikeSpreadsheet(data []byte) bool {
	return bytes.HasPrefix(data, zipSignature)
}

// parseSpreadsheet reads the first sheet; its first row is the header and
// blank rows are skipped.
func parseSpreadsheet(data []byte) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	headerAt := -1
	for i, row := range grid {
		if !blankRow(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, nil
	}

	header := grid[headerAt]
	var rows []RawRow
	for i := headerAt + 1; i < len(grid); i++ {
		if blankRow(grid[i]) {
			continue
		}
		rows = append(rows, zipRows(header, [][]string{grid[i]}, i+1)...)
	}
	return rows, nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
