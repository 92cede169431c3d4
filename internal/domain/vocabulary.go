package domain

import (
	"slices"
	"strings"
)

// MaxExamples caps the number of example sentences kept on a record.
const MaxExamples = 5

// VocabularyRecord is the canonical unit of the collection.
// JSON names follow the persisted layout so existing data loads unchanged.
type VocabularyRecord struct {
	ID            string   `json:"id"                    msgpack:"id"`
	Word          string   `json:"word"                  msgpack:"word"`
	Pronunciation string   `json:"pronunciation"         msgpack:"pronunciation"`
	MeaningEN     string   `json:"meaning_en"            msgpack:"meaning_en"`
	MeaningCN     string   `json:"meaning_cn"            msgpack:"meaning_cn"`
	Examples      []string `json:"examples,omitempty"    msgpack:"examples,omitempty"`
	Example       string   `json:"example,omitempty"     msgpack:"example,omitempty"`
	Synonyms      string   `json:"synonyms"              msgpack:"synonyms"`
	Collocations  string   `json:"collocations,omitempty" msgpack:"collocations,omitempty"`
	Status        Status   `json:"status,omitempty"      msgpack:"status,omitempty"`
}

// MakeID derives the stable record identifier from a headword.
// Every rune outside [a-z0-9] becomes a hyphen after lowercasing and trimming,
// so "Scrutiny" and "scrutiny " share the id "id-scrutiny".
func MakeID(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))

	var b strings.Builder
	b.Grow(len(w) + 3)
	b.WriteString("id-")
	for _, r := range w {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// AllExamples returns the plural examples followed by the legacy singular
// example, skipping empty strings.
func (r VocabularyRecord) AllExamples() []string {
	out := make([]string, 0, len(r.Examples)+1)
	for _, ex := range r.Examples {
		if ex != "" {
			out = append(out, ex)
		}
	}
	if r.Example != "" {
		out = append(out, r.Example)
	}
	return out
}

// FoldLegacyExample moves the singular example field into Examples,
// de-duplicated and capped at MaxExamples.
func (r *VocabularyRecord) FoldLegacyExample() {
	if r.Example == "" {
		return
	}
	r.Examples = DedupExamples(r.AllExamples(), MaxExamples)
	r.Example = ""
}

// FirstExample returns the first example sentence, or "".
func (r VocabularyRecord) FirstExample() string {
	if all := r.AllExamples(); len(all) > 0 {
		return all[0]
	}
	return ""
}

// DedupExamples removes exact duplicates keeping first occurrences and
// truncates to limit entries. A non-positive limit means no truncation.
func DedupExamples(examples []string, limit int) []string {
	seen := make(map[string]struct{}, len(examples))
	out := make([]string, 0, len(examples))
	for _, ex := range examples {
		if _, ok := seen[ex]; ok {
			continue
		}
		seen[ex] = struct{}{}
		out = append(out, ex)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Clone returns a deep copy of the record.
func (r VocabularyRecord) Clone() VocabularyRecord {
	r.Examples = slices.Clone(r.Examples)
	return r
}

// RecordPatch is a partial update applied by the progress store.
// Nil fields are left untouched.
type RecordPatch struct {
	Pronunciation *string
	MeaningEN     *string
	MeaningCN     *string
	Examples      []string
	Synonyms      *string
	Collocations  *string
	Status        *Status
}

// IsEmpty reports whether the patch changes nothing.
func (p RecordPatch) IsEmpty() bool {
	return p.Pronunciation == nil && p.MeaningEN == nil && p.MeaningCN == nil &&
		p.Examples == nil && p.Synonyms == nil && p.Collocations == nil && p.Status == nil
}

// Apply shallow-merges the patch onto r. Examples are de-duplicated and
// capped at MaxExamples.
func (p RecordPatch) Apply(r *VocabularyRecord) {
	if p.Pronunciation != nil {
		r.Pronunciation = *p.Pronunciation
	}
	if p.MeaningEN != nil {
		r.MeaningEN = *p.MeaningEN
	}
	if p.MeaningCN != nil {
		r.MeaningCN = *p.MeaningCN
	}
	if p.Examples != nil {
		r.Examples = DedupExamples(p.Examples, MaxExamples)
		r.Example = ""
	}
	if p.Synonyms != nil {
		r.Synonyms = *p.Synonyms
	}
	if p.Collocations != nil {
		r.Collocations = *p.Collocations
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
}

// PatchFromEnriched builds the patch that writes enrichment output back.
func PatchFromEnriched(r VocabularyRecord) RecordPatch {
	return RecordPatch{
		Pronunciation: &r.Pronunciation,
		MeaningEN:     &r.MeaningEN,
		Synonyms:      &r.Synonyms,
		Examples:      slices.Clone(r.Examples),
	}
}

// ExportRow is one row of the tabular export.
type ExportRow struct {
	Vocabulary         string
	Meaning            string
	ChineseTranslation string
	Pronunciation      string
	Example            string
	Synonyms           string
	Status             Status
}

// ExportColumns lists the export header in column order.
var ExportColumns = []string{
	"Vocabulary", "Meaning", "Chinese Translation", "Pronunciation", "Example", "Synonyms", "Status",
}

// Values returns the row cells in ExportColumns order.
func (r ExportRow) Values() []string {
	return []string{
		r.Vocabulary, r.Meaning, r.ChineseTranslation, r.Pronunciation, r.Example, r.Synonyms, string(r.Status),
	}
}
