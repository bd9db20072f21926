package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/guttosm/bocspot/internal/chart"
	"github.com/guttosm/bocspot/internal/domain/models"
	"github.com/guttosm/bocspot/internal/logger"
	"github.com/guttosm/bocspot/internal/storage"
)

// QuoteFetcher retrieves the current published quote.
type QuoteFetcher interface {
	Fetch(ctx context.Context) (models.QuoteRecord, error)
}

// QuoteService defines the operations shared by the CLI and the HTTP API.
type QuoteService interface {
	FetchAndRecord(ctx context.Context, force bool) (FetchResult, error)
	History(ctx context.Context, f HistoryFilter) ([]models.LogEntry, error)
	Latest(ctx context.Context) (models.LogEntry, error)
	Plot(ctx context.Context, out string) (PlotResult, error)
	Chart(ctx context.Context, w io.Writer) error
}

// FetchResult reports what a fetch did with the log.
type FetchResult struct {
	Record  models.QuoteRecord
	Written bool
}

// PlotResult summarizes a rendered chart.
type PlotResult struct {
	Out     string
	Points  int
	Skipped int
}

// HistoryFilter narrows History by published date (YYYY/MM/DD, inclusive).
// Limit keeps only the most recent entries when positive.
type HistoryFilter struct {
	From  string
	To    string
	Limit int
}

type quoteService struct {
	fetcher QuoteFetcher
	log     *storage.LogFile
	mirror  storage.QuotesRepository
	chart   chart.Options

	fetchMu sync.Mutex
}

// NewQuoteService wires the fetcher, the log and the optional mirror.
// mirror may be nil.
func NewQuoteService(fetcher QuoteFetcher, log *storage.LogFile, mirror storage.QuotesRepository, opts chart.Options) QuoteService {
	return &quoteService{fetcher: fetcher, log: log, mirror: mirror, chart: opts}
}

// FetchAndRecord runs one fetch and appends the result unless its date is
// already in the log. Concurrent calls are serialized.
func (s *quoteService) FetchAndRecord(ctx context.Context, force bool) (FetchResult, error) {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	rec, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return FetchResult{}, err
	}

	written, err := s.log.AppendIfNew(rec, force)
	if err != nil {
		return FetchResult{}, fmt.Errorf("append to %s: %w", s.log.Path(), err)
	}

	if written && s.mirror != nil {
		if err := s.mirror.InsertQuote(ctx, rec); err != nil {
			logger.L().Warn().Err(err).Str("source_date", rec.SourceDate).Msg("postgres mirror insert failed")
		}
	}

	logger.L().Info().
		Str("file", s.log.Path()).
		Str("source_date", rec.SourceDate).
		Bool("written", written).
		Bool("force", force).
		Msg("fetch recorded")
	return FetchResult{Record: rec, Written: written}, nil
}

func (s *quoteService) History(_ context.Context, f HistoryFilter) ([]models.LogEntry, error) {
	entries, _, err := s.log.ReadEntries()
	if err != nil {
		return nil, err
	}

	out := make([]models.LogEntry, 0, len(entries))
	for _, e := range entries {
		d := models.TruncateDate(e.SourceDate)
		if f.From != "" && d < f.From {
			continue
		}
		if f.To != "" && d > f.To {
			continue
		}
		out = append(out, e)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out, nil
}

func (s *quoteService) Latest(_ context.Context) (models.LogEntry, error) {
	entries, _, err := s.log.ReadEntries()
	if err != nil {
		return models.LogEntry{}, err
	}
	if len(entries) == 0 {
		return models.LogEntry{}, fmt.Errorf("%w: no quotes recorded in %s", models.ErrNotFound, s.log.Path())
	}
	return entries[len(entries)-1], nil
}

// Plot renders the whole log to out.
func (s *quoteService) Plot(_ context.Context, out string) (PlotResult, error) {
	entries, skipped, err := s.log.ReadEntries()
	if err != nil {
		return PlotResult{}, err
	}
	if err := chart.Render(out, entries, s.chart); err != nil {
		return PlotResult{}, err
	}
	logger.L().Debug().Str("out", out).Int("points", len(entries)).Int("skipped", skipped).Msg("chart rendered")
	return PlotResult{Out: out, Points: len(entries), Skipped: skipped}, nil
}

// Chart streams the rendered PNG to w.
func (s *quoteService) Chart(_ context.Context, w io.Writer) error {
	entries, _, err := s.log.ReadEntries()
	if err != nil {
		return err
	}
	return chart.WriteTo(w, entries, s.chart)
}
