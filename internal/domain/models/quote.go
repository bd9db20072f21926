package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocalTimeLayout is the ISO-8601 layout (second precision, no offset) used for
// the observer's wall-clock stamp in the log.
const LocalTimeLayout = "2006-01-02T15:04:05"

// SourceDateLen is the number of characters kept from the published date.
const SourceDateLen = 10

// QuoteRecord is one observation of the published selling price.
//
// It is created by the fetcher, serialized once into the log and then discarded.
//
// Fields:
//   - LocalTime: observer's clock at fetch time, truncated to seconds.
//   - SourceDate: published date, first 10 characters of the raw cell (YYYY/MM/DD).
//   - SourceTime: published time, kept as-is.
//   - RatePer100: local currency per 100 foreign-currency units.
//   - RatePer1: RatePer100 / 100.
type QuoteRecord struct {
	LocalTime  time.Time
	SourceDate string
	SourceTime string
	RatePer100 decimal.Decimal
	RatePer1   decimal.Decimal
}

// NewQuoteRecord derives a record from a per-100 rate. The per-unit rate is
// always computed here so both fields stay consistent.
func NewQuoteRecord(localTime time.Time, rawDate, sourceTime string, ratePer100 decimal.Decimal) QuoteRecord {
	return QuoteRecord{
		LocalTime:  localTime.Truncate(time.Second),
		SourceDate: TruncateDate(rawDate),
		SourceTime: sourceTime,
		RatePer100: ratePer100,
		RatePer1:   ratePer100.Shift(-2),
	}
}

// TruncateDate keeps at most the first 10 characters of a published date.
// The value is treated as an opaque string; no calendar parsing happens.
func TruncateDate(s string) string {
	r := []rune(s)
	if len(r) <= SourceDateLen {
		return s
	}
	return string(r[:SourceDateLen])
}

// LogEntry is one row read back from the log.
type LogEntry struct {
	LocalTime  time.Time       `json:"local_time"`
	SourceDate string          `json:"source_date"`
	SourceTime string          `json:"source_time"`
	RatePer100 decimal.Decimal `json:"rate_per_100"`
	RatePer1   decimal.Decimal `json:"rate_per_1"`
}
