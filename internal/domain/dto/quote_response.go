package dto

import (
	"github.com/guttosm/bocspot/internal/domain/models"
)

// QuoteResponse is one recorded quote as exposed by the API.
//
// Rates are rendered as fixed-precision strings, the same way the log stores them.
type QuoteResponse struct {
	LocalTime  string `json:"local_time" example:"2024-03-15T10:31:02"`
	SourceDate string `json:"source_date" example:"2024/03/15"`
	SourceTime string `json:"source_time" example:"10:30:00"`
	RatePer100 string `json:"rate_per_100" example:"782.5000"`
	RatePer1   string `json:"rate_per_1" example:"7.825000"`
}

// QuotesResponse wraps a list of quotes.
type QuotesResponse struct {
	Count  int             `json:"count" example:"1"`
	Quotes []QuoteResponse `json:"quotes"`
}

// FetchResponse is returned by POST /api/v1/quotes/fetch.
type FetchResponse struct {
	Written bool          `json:"written" example:"true"`
	Quote   QuoteResponse `json:"quote"`
}

// FromLogEntry maps a log row to its API shape.
func FromLogEntry(e models.LogEntry) QuoteResponse {
	return QuoteResponse{
		LocalTime:  e.LocalTime.Format(models.LocalTimeLayout),
		SourceDate: e.SourceDate,
		SourceTime: e.SourceTime,
		RatePer100: e.RatePer100.StringFixed(4),
		RatePer1:   e.RatePer1.StringFixed(6),
	}
}

// FromQuoteRecord maps a freshly fetched record to its API shape.
func FromQuoteRecord(r models.QuoteRecord) QuoteResponse {
	return QuoteResponse{
		LocalTime:  r.LocalTime.Format(models.LocalTimeLayout),
		SourceDate: r.SourceDate,
		SourceTime: r.SourceTime,
		RatePer100: r.RatePer100.StringFixed(4),
		RatePer1:   r.RatePer1.StringFixed(6),
	}
}

// FromLogEntries maps a slice of log rows, never returning a nil Quotes slice.
func FromLogEntries(entries []models.LogEntry) QuotesResponse {
	out := QuotesResponse{Count: len(entries), Quotes: make([]QuoteResponse, 0, len(entries))}
	for _, e := range entries {
		out.Quotes = append(out.Quotes, FromLogEntry(e))
	}
	return out
}
