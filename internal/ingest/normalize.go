package ingest

import (
	"golang.org/x/text/unicode/norm"

	"github.com/heartmarshall/lexipath/internal/domain"
)

// Header aliases per canonical field, highest priority first. Matching
// ignores case.
var (
	wordColumns          = []string{"Vocabulary", "word"}
	pronunciationColumns = []string{"Pronunciation"}
	meaningCNColumns     = []string{"Chinese Translation", "meaning_cn"}
	meaningENColumns     = []string{"Meaning", "meaning_en"}
	exampleColumns       = []string{"Sample Sentence", "example"}
	synonymsColumns      = []string{"Synonyms"}
	collocationsColumns  = []string{"Collocations", "Phrases"}
)

// Skip reasons reported in RowIssue.
const (
	ReasonMissingHeadword   = "missing headword"
	ReasonDuplicateHeadword = "duplicate headword"
)

// RowIssue describes a row left out of the normalized output.
type RowIssue struct {
	Line   int
	Word   string
	Reason string
}

// NormalizeResult is the normalizer output.
type NormalizeResult struct {
	Records []domain.VocabularyRecord
	Skipped []RowIssue
}

// Normalize maps raw rows onto the canonical schema. Rows without a headword
// are skipped. Rows whose id repeats an earlier row are skipped too, so the
// first occurrence wins.
func Normalize(rows []RawRow) NormalizeResult {
	res := NormalizeResult{Records: make([]domain.VocabularyRecord, 0, len(rows))}
	seen := make(map[string]int, len(rows))

	for _, row := range rows {
		word := resolve(row, wordColumns)
		if word == "" {
			res.Skipped = append(res.Skipped, RowIssue{Line: row.Line, Reason: ReasonMissingHeadword})
			continue
		}

		id := domain.MakeID(word)
		if _, dup := seen[id]; dup {
			res.Skipped = append(res.Skipped, RowIssue{Line: row.Line, Word: word, Reason: ReasonDuplicateHeadword})
			continue
		}
		seen[id] = len(res.Records)

		rec := domain.VocabularyRecord{
			ID:            id,
			Word:          word,
			Pronunciation: resolve(row, pronunciationColumns),
			MeaningEN:     resolve(row, meaningENColumns),
			MeaningCN:     resolve(row, meaningCNColumns),
			Example:       resolve(row, exampleColumns),
			Synonyms:      resolve(row, synonymsColumns),
			Collocations:  resolve(row, collocationsColumns),
			Status:        domain.StatusUnmastered,
		}
		rec.FoldLegacyExample()
		res.Records = append(res.Records, rec)
	}
	return res
}

// resolve returns the first non-empty value among aliases, NFC-normalized.
func resolve(row RawRow, aliases []string) string {
	for _, name := range aliases {
		if v, ok := row.Lookup(name); ok {
			return norm.NFC.String(v)
		}
	}
	return ""
}
