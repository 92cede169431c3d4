package ingest

import (
	"net/url"
	"regexp"
	"strings"
)

const sheetPath = "/spreadsheets/d/"

var (
	shareSuffix = regexp.MustCompile(`/(edit|view)(\?[^#]*)?(#.*)?$`)
	gidParam    = regexp.MustCompile(`(?:^|[?&#])gid=([0-9]+)`)
)

// CanonicalExportURL rewrites a shareable sheet link into its CSV export
// link. On a /spreadsheets/d/<id> path a trailing /edit or /view, with any
// query and fragment, becomes /export?format=csv and a gid found there is
// carried over. Links already in export form, .xlsx links and anything else
// pass through (trimmed of surrounding space and trailing slashes).
func CanonicalExportURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "/export?format=csv") || hasXLSXExt(raw) {
		return raw
	}

	cleaned := strings.TrimRight(raw, "/")
	m := shareSuffix.FindStringSubmatchIndex(cleaned)
	if m == nil || !strings.Contains(cleaned[:m[0]], sheetPath) {
		return cleaned
	}

	tail := cleaned[m[0]:]
	out := cleaned[:m[0]] + "/export?format=csv"
	if g := gidParam.FindStringSubmatch(tail); g != nil {
		out += "&gid=" + g[1]
	}
	return out
}

// hasXLSXExt reports whether the path of raw ends in .xlsx, ignoring case,
// query and fragment.
func hasXLSXExt(raw string) bool {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return strings.HasSuffix(strings.ToLower(u.Path), ".xlsx")
	}
	return strings.HasSuffix(strings.ToLower(raw), ".xlsx")
}
