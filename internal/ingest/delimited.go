package ingest

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeText converts payload bytes to a string. A UTF-8 or UTF-16 byte
// order mark selects the encoding; without one the payload is UTF-8 and
// invalid sequences become U+FFFD.
func decodeText(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(out), nil
}

// parseDelimited splits text into non-blank lines, takes the first as the
// header and zips every other line to it with SplitLine.
func parseDelimited(text string) []RawRow {
	type line struct {
		no   int
		text string
	}
	var lines []line
	for i, l := range strings.Split(text, "\n") {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, line{no: i + 1, text: l})
	}
	if len(lines) < 2 {
		return nil
	}

	header := SplitLine(lines[0].text)
	rows := make([]RawRow, 0, len(lines)-1)
	for _, l := range lines[1:] {
		r := zipRows(header, [][]string{SplitLine(l.text)}, l.no)
		rows = append(rows, r[0])
	}
	return rows
}

// SplitLine tokenizes one delimited line. A double quote toggles quoting and
// is dropped; a comma outside quotes ends a field. Fields are trimmed.
//
//	Word,"Meaning, detailed",CN  →  [Word] [Meaning, detailed] [CN]
func SplitLine(line string) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(cur.String()))
}
