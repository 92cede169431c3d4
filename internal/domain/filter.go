package domain

import "strings"

// VocabularyFilter narrows a listing. Zero value matches everything.
type VocabularyFilter struct {
	Query  string
	Status *Status
}

// Matches reports whether r satisfies the filter. The query is a
// case-insensitive substring test against the headword and both glosses;
// r.Status must already be resolved.
func (f VocabularyFilter) Matches(r VocabularyRecord) bool {
	if f.Status != nil && r.Status != *f.Status {
		return false
	}
	q := NormalizeText(f.Query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Word), q) ||
		strings.Contains(strings.ToLower(r.MeaningEN), q) ||
		strings.Contains(strings.ToLower(r.MeaningCN), q)
}
