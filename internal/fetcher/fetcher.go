package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/guttosm/bocspot/config"
	"github.com/guttosm/bocspot/internal/domain/models"
	"github.com/guttosm/bocspot/internal/logger"
)

// maxBodyBytes bounds how much of the page is read.
const maxBodyBytes = 8 << 20

// Fetcher downloads the published-rates page once and turns it into a QuoteRecord.
//
// Responsibilities:
//   - Issue a single GET with a browser User-Agent (no retries).
//   - Decode the body as UTF-8.
//   - Delegate row location to the Extractor.
//   - Parse the rate and stamp the observer's wall-clock time.
type Fetcher struct {
	URL       string
	UserAgent string
	Client    *http.Client
	Extractor Extractor
	Now       func() time.Time
}

// New builds a Fetcher from the source configuration.
func New(cfg config.SourceConfig) *Fetcher {
	return &Fetcher{
		URL:       cfg.URL,
		UserAgent: cfg.UserAgent,
		Client:    &http.Client{Timeout: cfg.Timeout},
		Extractor: PriceTableExtractor{TableID: cfg.TableID, RowLabel: cfg.RowLabel},
		Now:       time.Now,
	}
}

// Fetch performs one request and returns the extracted record.
//
// Errors:
//   - models.ErrNetwork: transport failure or non-2xx status.
//   - models.ErrStructure: table or row not found.
//   - models.ErrParse: the rate cell is not a decimal number.
func (f *Fetcher) Fetch(ctx context.Context) (models.QuoteRecord, error) {
	doc, err := f.download(ctx)
	if err != nil {
		return models.QuoteRecord{}, err
	}

	row, err := f.Extractor.Extract(doc)
	if err != nil {
		return models.QuoteRecord{}, err
	}

	rate, err := ParseRate(row.Rate)
	if err != nil {
		return models.QuoteRecord{}, err
	}

	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	rec := models.NewQuoteRecord(now(), strings.TrimSpace(row.Date), strings.TrimSpace(row.Time), rate)

	logger.L().Debug().
		Str("label", row.Label).
		Str("source_date", rec.SourceDate).
		Str("source_time", rec.SourceTime).
		Str("rate_per_100", rec.RatePer100.String()).
		Msg("quote extracted")
	return rec, nil
}

// ParseRate converts a table cell into a decimal after trimming whitespace.
func ParseRate(cell string) (decimal.Decimal, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty rate cell", models.ErrParse)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: rate cell %q is not a number", models.ErrParse, s)
	}
	return d, nil
}

func (f *Fetcher) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", models.ErrNetwork, err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", models.ErrNetwork, f.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	logger.L().Debug().
		Str("url", f.URL).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("page downloaded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: get %s: status %d", models.ErrNetwork, f.URL, resp.StatusCode)
	}

	body, err := decodeUTF8(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", models.ErrNetwork, err)
	}
	return body, nil
}

// decodeUTF8 reads r as UTF-8, replacing invalid sequences with U+FFFD
// regardless of what the server declares.
func decodeUTF8(r io.Reader) ([]byte, error) {
	return io.ReadAll(transform.NewReader(r, unicode.UTF8.NewDecoder()))
}
