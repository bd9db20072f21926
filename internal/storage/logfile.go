package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/bocspot/internal/domain/models"
	"github.com/guttosm/bocspot/internal/logger"
)

// Header is the canonical column order written on the first line of a new log.
var Header = []string{
	"local_time",
	"source_date",
	"source_time",
	"rate_per_100",
	"rate_per_1",
}

// columnAliases maps headers written by older versions of the tool onto the
// canonical column names.
var columnAliases = map[string]string{
	"boc_date":      "source_date",
	"boc_time":      "source_time",
	"spot_sell_100": "rate_per_100",
	"spot_sell_1":   "rate_per_1",
}

// localTimeLayouts are tried in order when reading local_time back.
var localTimeLayouts = []string{
	models.LocalTimeLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// LogFile is the handle on the tab-separated, append-only quote log.
// The same handle is shared by the writer and the readers; the path is never
// resolved implicitly.
//
// There is no cross-process locking: two processes appending to the same path
// at the same time race.
type LogFile struct {
	path string
}

// NewLogFile returns a handle for path. The file itself is created lazily on
// the first append.
func NewLogFile(path string) *LogFile {
	return &LogFile{path: path}
}

// Path returns the file location.
func (l *LogFile) Path() string { return l.path }

// AppendIfNew appends rec unless a row with the same source date already exists.
//
// Behavior:
//   - force=true skips the duplicate check entirely.
//   - The header is written first when the file is missing or empty.
//   - The file is opened in append mode and always flushed and closed.
//
// Returns:
//   - written: false when the record was dropped as a duplicate.
func (l *LogFile) AppendIfNew(rec models.QuoteRecord, force bool) (bool, error) {
	if !force && l.HasSourceDate(rec.SourceDate) {
		logger.L().Debug().Str("file", l.path).Str("source_date", rec.SourceDate).Msg("source date already recorded")
		return false, nil
	}
	if err := l.appendLine(FormatLine(rec)); err != nil {
		return false, err
	}
	return true, nil
}

// HasSourceDate reports whether any row's source_date matches date on the
// first 10 characters.
//
// A missing, empty or unreadable file counts as "no prior record". An empty
// date never matches, so rows without a published date are always appended.
func (l *LogFile) HasSourceDate(date string) bool {
	want := models.TruncateDate(date)
	if want == "" || l.isEmpty() {
		return false
	}
	dates, err := l.sourceDates()
	if err != nil {
		return l.malformedLogFallback(err)
	}
	for _, d := range dates {
		if models.TruncateDate(d) == want {
			return true
		}
	}
	return false
}

// malformedLogFallback keeps the append path available when the existing log
// cannot be parsed (for example after a manual edit). Duplicate prevention is
// given up for this run.
func (l *LogFile) malformedLogFallback(err error) bool {
	logger.L().Warn().Err(err).Str("file", l.path).Msg("log unreadable, treating as no prior record")
	return false
}

// sourceDates reads the whole log and returns the source_date column.
// The log must be strictly well-formed: a data row wider than the header, a
// quoting error or a missing source_date column is an error.
func (l *LogFile) sourceDates() ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := newTSVReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header)
	idx, ok := cols["source_date"]
	if !ok {
		return nil, errors.New("source_date column missing")
	}

	var dates []string
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("line %d: expected at most %d fields, got %d", line, len(header), len(rec))
		}
		if idx < len(rec) {
			dates = append(dates, rec[idx])
		}
	}
	return dates, nil
}

// ReadEntries loads every row whose local_time and rate_per_1 parse, sorted by
// local_time ascending. Rows that fail either parse are counted in skipped.
//
// Errors:
//   - models.ErrNotFound when the file does not exist.
//   - a parse error when the file is not a valid tab-separated table.
func (l *LogFile) ReadEntries() (entries []models.LogEntry, skipped int, err error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: data file %s (run fetch first)", models.ErrNotFound, l.path)
		}
		return nil, 0, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer func() { _ = f.Close() }()

	r := newTSVReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read header of %s: %w", l.path, err)
	}
	cols := columnIndex(header)
	for _, name := range []string{"local_time", "rate_per_1"} {
		if _, ok := cols[name]; !ok {
			return nil, 0, fmt.Errorf("%s: column %q missing from header", l.path, name)
		}
	}

	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, 0, fmt.Errorf("%s line %d: %w", l.path, line, err)
		}
		entry, ok := toEntry(rec, cols)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LocalTime.Before(entries[j].LocalTime)
	})
	return entries, skipped, nil
}

// FormatLine renders rec as one tab-separated data line without the newline.
func FormatLine(rec models.QuoteRecord) string {
	return strings.Join([]string{
		rec.LocalTime.Format(models.LocalTimeLayout),
		rec.SourceDate,
		rec.SourceTime,
		rec.RatePer100.StringFixed(4),
		rec.RatePer1.StringFixed(6),
	}, "\t")
}

// ParseLocalTime accepts the layouts the log may contain. Values without an
// offset are read as UTC wall-clock time.
func ParseLocalTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range localTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (l *LogFile) isEmpty() bool {
	st, err := os.Stat(l.path)
	return err != nil || st.Size() == 0
}

func (l *LogFile) appendLine(line string) (err error) {
	needHeader := l.isEmpty()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", l.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", l.path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if needHeader {
		if _, err := w.WriteString(strings.Join(Header, "\t") + "\n"); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if _, err := w.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", l.path, err)
	}
	return nil
}

func newTSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1 // width is checked explicitly
	return cr
}

// columnIndex maps canonical column names to their position in header.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if canonical, ok := columnAliases[name]; ok {
			name = canonical
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func toEntry(rec []string, cols map[string]int) (models.LogEntry, bool) {
	get := func(name string) string {
		if i, ok := cols[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	ts, ok := ParseLocalTime(get("local_time"))
	if !ok {
		return models.LogEntry{}, false
	}
	per1, err := decimal.NewFromString(get("rate_per_1"))
	if err != nil {
		return models.LogEntry{}, false
	}
	per100, err := decimal.NewFromString(get("rate_per_100"))
	if err != nil {
		per100 = per1.Shift(2)
	}
	return models.LogEntry{
		LocalTime:  ts,
		SourceDate: get("source_date"),
		SourceTime: get("source_time"),
		RatePer100: per100,
		RatePer1:   per1,
	}, true
}
