// Package ingest turns external vocabulary sources into canonical records.
//
// A Source is decoded into raw rows (spreadsheet or delimited text) and the
// rows are normalized into domain.VocabularyRecord values keyed by the id
// derived from their headword.
package ingest

import (
	"io"
	"strings"
)

// SourceKind tells the parser where the bytes come from.
type SourceKind int

const (
	// SourceSample yields the built-in demo records.
	SourceSample SourceKind = iota
	// SourceFile reads an uploaded or local file.
	SourceFile
	// SourceURL fetches a published sheet or a direct file link.
	SourceURL
)

func (k SourceKind) String() string {
	switch k {
	case SourceFile:
		return "file"
	case SourceURL:
		return "url"
	default:
		return "sample"
	}
}

// Source is one import input.
type Source struct {
	Kind   SourceKind
	Name   string
	Reader io.Reader
	URL    string
}

// SampleSource selects the built-in sample data.
func SampleSource() Source {
	return Source{Kind: SourceSample, Name: "sample"}
}

// FileSource reads name's content from r. The name's extension picks the decoder.
func FileSource(name string, r io.Reader) Source {
	return Source{Kind: SourceFile, Name: name, Reader: r}
}

// URLSource fetches rawURL. An empty string means the sample data.
func URLSource(rawURL string) Source {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return SampleSource()
	}
	return Source{Kind: SourceURL, Name: rawURL, URL: rawURL}
}

// Label is a short description used in logs and errors.
func (s Source) Label() string {
	switch s.Kind {
	case SourceURL:
		return s.URL
	case SourceFile:
		return s.Name
	default:
		return "sample"
	}
}
