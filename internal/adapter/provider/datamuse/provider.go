// Package datamuse looks up related words through the Datamuse API.
package datamuse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/lexipath/internal/provider"
)

// DefaultBaseURL is the public Datamuse words endpoint.
const DefaultBaseURL = "https://api.datamuse.com/words"

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// Provider fetches synonyms from Datamuse.
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
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "datamuse"),
	}
}

type apiWord struct {
	Word  string `json:"word"`
	Score int    `json:"score"`
}

// FetchSynonyms returns up to limit synonyms for word in service order.
// An empty list is a valid answer.
func (p *Provider) FetchSynonyms(ctx context.Context, word string, limit int) (*provider.SynonymResult, error) {
	q := url.Values{}
	q.Set("rel_syn", word)
	if limit > 0 {
		q.Set("max", strconv.Itoa(limit))
	}
	reqURL := p.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("datamuse: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("datamuse: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("datamuse: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("datamuse: read body: %w", err)
	}

	var items []apiWord
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("datamuse: decode json: %w", err)
	}

	result := &provider.SynonymResult{Word: word, Words: make([]string, 0, len(items))}
	for _, it := range items {
		w := strings.TrimSpace(it.Word)
		if w == "" {
			continue
		}
		result.Words = append(result.Words, w)
		if limit > 0 && len(result.Words) == limit {
			break
		}
	}

	p.log.DebugContext(ctx, "datamuse response", slog.String("word", word), slog.Int("synonyms", len(result.Words)))
	return result, nil
}
