// Package enrichment augments vocabulary records with best-effort data from
// a dictionary service and a synonym service.
package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/lexipath/internal/domain"
	"github.com/heartmarshall/lexipath/internal/provider"
)

type dictionaryProvider interface {
	FetchEntry(ctx context.Context, word string) (*provider.DictionaryResult, error)
}

type synonymProvider interface {
	FetchSynonyms(ctx context.Context, word string, limit int) (*provider.SynonymResult, error)
}

// Limits bounds how much fetched data is merged into a record.
type Limits struct {
	MaxSynonyms        int
	MaxFetchedExamples int
	MaxExamples        int
}

// DefaultLimits returns 10 synonyms, 3 fetched examples and 5 examples total.
func DefaultLimits() Limits {
	return Limits{MaxSynonyms: 10, MaxFetchedExamples: 3, MaxExamples: domain.MaxExamples}
}

// Service runs both lookups and merges the results.
type Service struct {
	log    *slog.Logger
	dict   dictionaryProvider
	syn    synonymProvider
	limits Limits
}

// NewService creates an enrichment service. Either provider may be nil, in
// which case that side always yields no data.
func NewService(log *slog.Logger, dict dictionaryProvider, syn synonymProvider, limits Limits) *Service {
	def := DefaultLimits()
	if limits.MaxSynonyms <= 0 {
		limits.MaxSynonyms = def.MaxSynonyms
	}
	if limits.MaxExamples <= 0 {
		limits.MaxExamples = def.MaxExamples
	}
	if limits.MaxFetchedExamples < 0 {
		limits.MaxFetchedExamples = def.MaxFetchedExamples
	}
	return &Service{
		log:    log.With("service", "enrichment"),
		dict:   dict,
		syn:    syn,
		limits: limits,
	}
}

// Fetched is what the two lookups produced. Zero fields mean "no data".
type Fetched struct {
	Pronunciation string
	MeaningEN     string
	Examples      []string
	Synonyms      []string
}

// Enrich returns rec with pronunciation, meaning_en, synonyms and examples
// filled in from external data. It never fails: lookup errors degrade to
// "no data" for that side.
func (s *Service) Enrich(ctx context.Context, rec domain.VocabularyRecord) domain.VocabularyRecord {
	word := strings.TrimSpace(rec.Word)
	if word == "" {
		return rec.Clone()
	}
	return Merge(rec, s.Fetch(ctx, word), s.limits)
}

// EnrichWord builds a record for a bare headword and enriches it.
func (s *Service) EnrichWord(ctx context.Context, word string) domain.VocabularyRecord {
	word = strings.TrimSpace(word)
	return s.Enrich(ctx, domain.VocabularyRecord{
		ID:     domain.MakeID(word),
		Word:   word,
		Status: domain.StatusUnmastered,
	})
}

// Fetch issues the synonym and dictionary lookups concurrently and waits for
// both. A failing side does not cancel the other.
func (s *Service) Fetch(ctx context.Context, word string) Fetched {
	var (
		g    errgroup.Group
		syns *provider.SynonymResult
		dict *provider.DictionaryResult
	)

	g.Go(func() error {
		syns = bestEffort(ctx, s.log, "synonyms", word, func() (*provider.SynonymResult, error) {
			if s.syn == nil {
				return nil, nil
			}
			return s.syn.FetchSynonyms(ctx, word, s.limits.MaxSynonyms)
		})
		return nil
	})
	g.Go(func() error {
		dict = bestEffort(ctx, s.log, "dictionary", word, func() (*provider.DictionaryResult, error) {
			if s.dict == nil {
				return nil, nil
			}
			return s.dict.FetchEntry(ctx, word)
		})
		return nil
	})
	_ = g.Wait()

	var f Fetched
	if syns != nil {
		f.Synonyms = syns.Words
		if len(f.Synonyms) > s.limits.MaxSynonyms {
			f.Synonyms = f.Synonyms[:s.limits.MaxSynonyms]
		}
	}
	if dict != nil {
		f.Pronunciation = strings.TrimSpace(dict.Phonetic)
		f.MeaningEN = dict.PrimaryDefinition()
		f.Examples = dict.Examples()
	}
	return f
}

// bestEffort runs fn, converting errors and panics into a nil result.
func bestEffort[T any](ctx context.Context, log *slog.Logger, side, word string, fn func() (*T, error)) (out *T) {
	defer func() {
		if r := recover(); r != nil {
			log.WarnContext(ctx, "enrichment lookup panicked, proceeding without data",
				slog.String("side", side),
				slog.String("word", word),
				slog.String("panic", fmt.Sprint(r)),
			)
			out = nil
		}
	}()

	res, err := fn()
	if err != nil {
		log.WarnContext(ctx, "enrichment lookup failed, proceeding without data",
			slog.String("side", side),
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return res
}

// Merge applies fetched data to base:
//
//	pronunciation, meaning_en  base non-empty wins, else fetched
//	synonyms                   base non-empty wins, else fetched joined by ", "
//	examples                   base (plural, then legacy) + first MaxFetchedExamples
//	                           fetched, exact de-dup, at most MaxExamples
//
// Every other field passes through unchanged.
func Merge(base domain.VocabularyRecord, f Fetched, limits Limits) domain.VocabularyRecord {
	out := base.Clone()

	if isBlank(out.Pronunciation) {
		out.Pronunciation = f.Pronunciation
	}
	if isBlank(out.MeaningEN) {
		out.MeaningEN = f.MeaningEN
	}
	if isBlank(out.Synonyms) && len(f.Synonyms) > 0 {
		out.Synonyms = strings.Join(f.Synonyms, ", ")
	}

	fetched := f.Examples
	if limits.MaxFetchedExamples >= 0 && len(fetched) > limits.MaxFetchedExamples {
		fetched = fetched[:limits.MaxFetchedExamples]
	}
	combined := append(base.AllExamples(), fetched...)
	out.Examples = domain.DedupExamples(combined, limits.MaxExamples)
	out.Example = ""

	return out
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
