package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/bocspot/internal/domain/models"
)

func TestFromQuoteRecord(t *testing.T) {
	rec := models.NewQuoteRecord(time.Date(2024, 3, 15, 10, 31, 2, 0, time.UTC), "2024/03/15", "10:30:00", decimal.RequireFromString("782.50"))
	got := FromQuoteRecord(rec)
	want := QuoteResponse{
		LocalTime:  "2024-03-15T10:31:02",
		SourceDate: "2024/03/15",
		SourceTime: "10:30:00",
		RatePer100: "782.5000",
		RatePer1:   "7.825000",
	}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestFromLogEntries_EmptyIsArray(t *testing.T) {
	b, err := json.Marshal(FromLogEntries(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"count":0,"quotes":[]}` {
		t.Fatalf("unexpected json %s", b)
	}
}

func TestFromLogEntry(t *testing.T) {
	e := models.LogEntry{
		LocalTime:  time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC),
		SourceDate: "2024/03/16",
		RatePer100: decimal.RequireFromString("780"),
		RatePer1:   decimal.RequireFromString("7.8"),
	}
	got := FromLogEntry(e)
	if got.RatePer100 != "780.0000" || got.RatePer1 != "7.800000" || got.SourceTime != "" {
		t.Fatalf("unexpected %+v", got)
	}
}
