// Package chart renders the recorded per-unit rate as a PNG time series.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/guttosm/bocspot/internal/domain/models"
)

const (
	xLabel      = "Time (Day)"
	yLabel      = "Currency"
	seriesLabel = "Spot selling price (CNY / 1 EUR)"
	tickFormat  = "2006-01-02"
	defaultDPI  = 200
)

// Canvas size in inches before DPI scaling.
var (
	width  = 6.4 * vg.Inch
	height = 4.8 * vg.Inch
)

// Options controls the look of the rendered chart.
type Options struct {
	Title string
	DPI   int
}

// Render writes the chart for entries to the PNG file at path, replacing it.
// Entries are drawn in the order given; callers pass them sorted by time.
// With no entries a chart with axes and title but no series is produced.
func Render(path string, entries []models.LogEntry, opts Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WriteTo(f, entries, opts)
}

// WriteTo encodes the chart as PNG into w.
func WriteTo(w io.Writer, entries []models.LogEntry, opts Options) error {
	p, err := build(entries, opts.Title)
	if err != nil {
		return err
	}

	dpi := opts.DPI
	if dpi <= 0 {
		dpi = defaultDPI
	}
	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func build(entries []models.LogEntry, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: tickFormat}
	p.Add(plotter.NewGrid())

	if len(entries) == 0 {
		return p, nil
	}

	line, points, err := plotter.NewLinePoints(toXYs(entries))
	if err != nil {
		return nil, fmt.Errorf("build series: %w", err)
	}
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	points.Shape = draw.CircleGlyph{}
	points.Color = line.Color

	p.Add(line, points)
	p.Legend.Add(seriesLabel, line, points)
	p.Legend.Top = true
	return p, nil
}

// toXYs maps local_time to Unix seconds (UTC wall clock, matching
// plot.TimeTicks) and the per-unit rate to Y.
func toXYs(entries []models.LogEntry) plotter.XYs {
	xys := make(plotter.XYs, len(entries))
	for i, e := range entries {
		xys[i].X = float64(e.LocalTime.Unix())
		xys[i].Y = e.RatePer1.InexactFloat64()
	}
	return xys
}
