package ingest

import "strings"

// RawRow is one data row keyed by header text, before normalization.
type RawRow struct {
	// Line is the 1-based position in the source (header is line 1).
	Line    int
	Columns []string
	Values  []string
}

// Lookup returns the first non-empty value whose column equals name,
// ignoring case and surrounding space.
func (r RawRow) Lookup(name string) (string, bool) {
	for i, col := range r.Columns {
		if !strings.EqualFold(strings.TrimSpace(col), name) {
			continue
		}
		if i >= len(r.Values) {
			continue
		}
		if v := strings.TrimSpace(r.Values[i]); v != "" {
			return v, true
		}
	}
	return "", false
}

// zipRows pairs each value row with the header positionally; missing
// trailing values become "".
func zipRows(header []string, body [][]string, firstLine int) []RawRow {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	rows := make([]RawRow, 0, len(body))
	for i, values := range body {
		padded := make([]string, len(cols))
		copy(padded, values)
		rows = append(rows, RawRow{Line: firstLine + i, Columns: cols, Values: padded})
	}
	return rows
}
