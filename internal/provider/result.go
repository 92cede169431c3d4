// Package provider holds the results returned by external lookup services.
package provider

// DictionaryResult is a dictionary entry flattened across etymologies.
type DictionaryResult struct {
	Word string
	// Phonetic is the entry-level transcription, falling back to the first
	// non-empty phonetic variant.
	Phonetic string
	Senses   []SenseResult
}

// SenseResult is one definition with its usage examples.
type SenseResult struct {
	PartOfSpeech string
	Definition   string
	Examples     []string
}

// PrimaryDefinition returns the first non-empty definition.
func (r *DictionaryResult) PrimaryDefinition() string {
	if r == nil {
		return ""
	}
	for _, s := range r.Senses {
		if s.Definition != "" {
			return s.Definition
		}
	}
	return ""
}

// Examples returns every example sentence across senses in order.
func (r *DictionaryResult) Examples() []string {
	if r == nil {
		return nil
	}
	var out []string
	for _, s := range r.Senses {
		for _, ex := range s.Examples {
			if ex != "" {
				out = append(out, ex)
			}
		}
	}
	return out
}

// SynonymResult is an ordered list of related words for a headword.
type SynonymResult struct {
	Word  string
	Words []string
}
