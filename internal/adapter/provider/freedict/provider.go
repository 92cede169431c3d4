package freedict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"github.com/heartmarshall/lexipath/internal/provider"
)

// DefaultBaseURL is the public FreeDictionary endpoint.
const DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

const (
	defaultTimeout = 10 * time.Second
	retryDelay     = 500 * time.Millisecond
	maxBodyBytes   = 2 << 20
)

// Provider fetches dictionary entries from the FreeDictionary API.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider. An empty baseURL means DefaultBaseURL and
// a non-positive timeout means 10s.
func NewProvider(logger *slog.Logger, baseURL string, timeout time.Duration) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "freedict"),
	}
}

// FetchEntry fetches the dictionary entry for word.
// Returns nil, nil if the word is not found (HTTP 404).
func (p *Provider) FetchEntry(ctx context.Context, word string) (*provider.DictionaryResult, error) {
	reqURL := p.baseURL + "/" + url.PathEscape(word)

	p.log.DebugContext(ctx, "freedict request", slog.String("word", word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("freedict: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.doWithRetry(ctx, req, word)
	if err != nil {
		return nil, fmt.Errorf("freedict: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("freedict: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("freedict: read body: %w", err)
	}

	entries, err := decodeEntries(body)
	if err != nil {
		return nil, fmt.Errorf("freedict: decode json: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	result := mapAPIResponse(entries)

	p.log.DebugContext(ctx, "freedict response",
		slog.String("word", word),
		slog.Int("senses", len(result.Senses)),
		slog.Bool("phonetic", result.Phonetic != ""),
	)
	return result, nil
}

// decodeEntries unmarshals the response, repairing syntactically broken
// JSON before giving up.
func decodeEntries(body []byte) ([]apiEntry, error) {
	var entries []apiEntry
	err := json.Unmarshal(body, &entries)
	if err == nil {
		return entries, nil
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return nil, err
	}
	fixed, repairErr := jsonrepair.JSONRepair(string(body))
	if repairErr != nil {
		return nil, err
	}
	entries = nil
	if err := json.Unmarshal([]byte(fixed), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, word string) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "freedict retry", slog.String("word", word), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(retryDelay):
	}

	return p.httpClient.Do(req)
}

// mapAPIResponse flattens all entries into one result: senses are
// concatenated in response order and the phonetic comes from the first
// entry that has one.
func mapAPIResponse(entries []apiEntry) *provider.DictionaryResult {
	result := &provider.DictionaryResult{
		Word:   entries[0].Word,
		Senses: []provider.SenseResult{},
	}

	for _, entry := range entries {
		if result.Phonetic == "" {
			result.Phonetic = entryPhonetic(entry)
		}

		for _, meaning := range entry.Meanings {
			for _, def := range meaning.Definitions {
				sense := provider.SenseResult{
					PartOfSpeech: meaning.PartOfSpeech,
					Definition:   strings.TrimSpace(def.Definition),
				}
				if ex := strings.TrimSpace(def.Example); ex != "" {
					sense.Examples = []string{ex}
				}
				result.Senses = append(result.Senses, sense)
			}
		}
	}

	return result
}

func entryPhonetic(e apiEntry) string {
	if e.Phonetic != "" {
		return e.Phonetic
	}
	for _, ph := range e.Phonetics {
		if ph.Text != "" {
			return ph.Text
		}
	}
	return ""
}

// Wire format: an array with one element per etymology.
type apiEntry struct {
	Word      string `json:"word"`
	Phonetic  string `json:"phonetic"`
	Phonetics []struct {
		Text string `json:"text"`
	} `json:"phonetics"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
			Example    string `json:"example"`
		} `json:"definitions"`
	} `json:"meanings"`
}
