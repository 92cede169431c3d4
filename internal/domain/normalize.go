package domain

import "strings"

// NormalizeText prepares text for comparison: surrounding whitespace is
// trimmed, runs of inner whitespace collapse to one space, and the result is
// lowercased. Hyphens, apostrophes and diacritics are kept.
func NormalizeText(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// SameHeadword reports whether two headwords are equal ignoring case and
// surrounding whitespace.
func SameHeadword(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
