package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/bocspot/internal/domain/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func entry(day int, rate string) models.LogEntry {
	per1 := decimal.RequireFromString(rate)
	return models.LogEntry{
		LocalTime:  time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC),
		SourceDate: time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC).Format("2006/01/02"),
		RatePer100: per1.Shift(2),
		RatePer1:   per1,
	}
}

func TestRender(t *testing.T) {
	cases := []struct {
		name    string
		entries []models.LogEntry
	}{
		{name: "empty", entries: nil},
		{name: "single point", entries: []models.LogEntry{entry(15, "7.825")}},
		{name: "series", entries: []models.LogEntry{entry(14, "7.80"), entry(15, "7.825"), entry(18, "7.79")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "chart.png")
			require.NoError(t, Render(out, tc.entries, Options{Title: "t", DPI: 72}))

			b, err := os.ReadFile(out)
			require.NoError(t, err)
			require.True(t, bytes.HasPrefix(b, pngMagic))
		})
	}
}

func TestRender_Overwrites(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0o644))
	require.NoError(t, Render(out, []models.LogEntry{entry(15, "7.825")}, Options{}))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(b, pngMagic))
}

func TestRender_BadPath(t *testing.T) {
	err := Render(filepath.Join(t.TempDir(), "no", "such", "dir.png"), nil, Options{})
	require.Error(t, err)
}

func TestWriteTo_DPIScalesImage(t *testing.T) {
	var small, large bytes.Buffer
	entries := []models.LogEntry{entry(14, "7.80"), entry(15, "7.825")}
	require.NoError(t, WriteTo(&small, entries, Options{DPI: 50}))
	require.NoError(t, WriteTo(&large, entries, Options{DPI: 150}))
	require.Greater(t, large.Len(), small.Len())
}

func TestToXYs(t *testing.T) {
	xys := toXYs([]models.LogEntry{entry(15, "7.825")})
	require.Len(t, xys, 1)
	require.Equal(t, float64(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC).Unix()), xys[0].X)
	require.InDelta(t, 7.825, xys[0].Y, 1e-9)
}
