package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/lexipath/internal/domain"
)

// Payload formats.
const (
	FormatSample      = "sample"
	FormatSpreadsheet = "xlsx"
	FormatDelimited   = "csv"
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultMaxBytes     = 10 << 20
)

// Options configures a Parser. Zero values pick defaults.
type Options struct {
	FetchTimeout time.Duration
	MaxBytes     int64
	UserAgent    string
	HTTPClient   *http.Client
}

// Parser detects a source's format and decodes it into canonical records.
type Parser struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
	log       *slog.Logger
}

// NewParser creates a Parser.
func NewParser(logger *slog.Logger, opts Options) *Parser {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.FetchTimeout}
	}
	return &Parser{
		client:    client,
		maxBytes:  opts.MaxBytes,
		userAgent: opts.UserAgent,
		log:       logger.With("component", "ingest"),
	}
}

// ParseResult is a fully decoded and normalized source.
type ParseResult struct {
	Source   string
	Format   string
	RowsRead int
	Records  []domain.VocabularyRecord
	Skipped  []RowIssue
}

// Parse reads src and normalizes its rows. Any read, network or decode
// failure is returned as *domain.SourceFetchError and no partial result is
// produced. A source with zero usable rows is not an error here.
func (p *Parser) Parse(ctx context.Context, src Source) (*ParseResult, error) {
	var (
		rows   []RawRow
		format string
		err    error
	)

	switch src.Kind {
	case SourceSample:
		rows, format = sampleRows(), FormatSample
	case SourceFile:
		rows, format, err = p.parseFile(src)
	case SourceURL:
		rows, format, err = p.parseURL(ctx, src.URL)
	default:
		err = fmt.Errorf("unknown source kind %d", src.Kind)
	}
	if err != nil {
		return nil, domain.NewSourceFetchError(src.Label(), err)
	}

	norm := Normalize(rows)
	for _, s := range norm.Skipped {
		p.log.DebugContext(ctx, "row skipped",
			slog.String("source", src.Label()),
			slog.Int("line", s.Line),
			slog.String("word", s.Word),
			slog.String("reason", s.Reason),
		)
	}

	return &ParseResult{
		Source:   src.Label(),
		Format:   format,
		RowsRead: len(rows),
		Records:  norm.Records,
		Skipped:  norm.Skipped,
	}, nil
}

func (p *Parser) parseFile(src Source) ([]RawRow, string, error) {
	if src.Reader == nil {
		return nil, "", fmt.Errorf("no file content")
	}
	data, err := p.readAll(src.Reader)
	if err != nil {
		return nil, "", err
	}
	if strings.HasSuffix(strings.ToLower(src.Name), ".xlsx") {
		rows, err := parseSpreadsheet(data)
		return rows, FormatSpreadsheet, err
	}
	return p.decodeDelimited(data)
}

func (p *Parser) parseURL(ctx context.Context, rawURL string) ([]RawRow, string, error) {
	target := CanonicalExportURL(rawURL)

	p.log.DebugContext(ctx, "fetching source", slog.String("url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := p.readAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	if hasXLSXExt(target) || looksLikeSpreadsheet(data) {
		rows, err := parseSpreadsheet(data)
		return rows, FormatSpreadsheet, err
	}
	return p.decodeDelimited(data)
}

func (p *Parser) decodeDelimited(data []byte) ([]RawRow, string, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, "", err
	}
	return parseDelimited(text), FormatDelimited, nil
}

// readAll reads r fully, failing when it exceeds the configured limit.
func (p *Parser) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > p.maxBytes {
		return nil, fmt.Errorf("payload exceeds %d bytes", p.maxBytes)
	}
	return data, nil
}
