// Package export persists already-computed trends data: delimited text,
// JSON documents, and SQLite tables. It never talks to the upstream; callers
// hand it fully normalized series.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/damionrashford/google-trends/pkg/trends"
)

// DefaultDir is the export directory used when the caller does not choose one.
const DefaultDir = "google_trends_exports"

// ErrNoData is returned when an export is requested for an empty dataset.
var ErrNoData = errors.New("no data to export")

// Result describes one written export file.
type Result struct {
	Filename  string `json:"filename"`
	Format    string `json:"format"`
	SizeBytes int64  `json:"size_bytes"`
	Path      string `json:"path"`
}

// Document is the JSON export layout: a metadata header plus the series.
type Document struct {
	Metadata Metadata        `json:"metadata"`
	Data     []trends.Series `json:"data"`
}

// Metadata records what was queried and when the export was produced.
type Metadata struct {
	Keywords   []string  `json:"keywords"`
	Timeframe  string    `json:"timeframe"`
	Region     string    `json:"region,omitempty"`
	ExportDate time.Time `json:"export_date"`
	DataPoints int       `json:"data_points"`
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// Filename builds an export filename from the query keywords, or returns the
// custom name (with the extension appended if missing).
func Filename(prefix string, keywords []string, ext, custom string) string {
	if custom != "" {
		if !strings.HasSuffix(custom, "."+ext) {
			custom += "." + ext
		}
		return custom
	}

	kws := keywords
	if len(kws) > 3 {
		kws = kws[:3]
	}
	slug := unsafeChars.ReplaceAllString(strings.Join(kws, "-"), "_")
	return fmt.Sprintf("%s_%s_%s.%s", prefix, slug, time.Now().Format("20060102_150405"), ext)
}

func ensureDir(dir string) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	return dir, nil
}

func fileResult(path, format string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("stat exported file: %w", err)
	}
	return Result{
		Filename:  filepath.Base(path),
		Format:    format,
		SizeBytes: info.Size(),
		Path:      path,
	}, nil
}

func totalPoints(series []trends.Series) int {
	total := 0
	for _, s := range series {
		total += len(s.Points)
	}
	return total
}

// WriteCSV writes the series as a wide table: one row per timestamp, one
// column per keyword, plus a partial-data flag.
func WriteCSV(dir, filename string, series []trends.Series) (Result, error) {
	if totalPoints(series) == 0 {
		return Result{}, ErrNoData
	}
	dir, err := ensureDir(dir)
	if err != nil {
		return Result{}, err
	}

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := make([]string, 0, len(series)+2)
	header = append(header, "date")
	for _, s := range series {
		header = append(header, s.Keyword)
	}
	header = append(header, "is_partial")
	if err := w.Write(header); err != nil {
		return Result{}, fmt.Errorf("writing csv header: %w", err)
	}

	for _, row := range tabulate(series) {
		record := make([]string, 0, len(row.values)+2)
		record = append(record, row.time.Format("2006-01-02 15:04:05"))
		for _, v := range row.values {
			record = append(record, strconv.Itoa(v))
		}
		record = append(record, strconv.FormatBool(row.partial))
		if err := w.Write(record); err != nil {
			return Result{}, fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return Result{}, fmt.Errorf("flushing csv: %w", err)
	}
	return fileResult(path, "csv")
}

// WriteJSON writes a Document with metadata and the full series.
func WriteJSON(dir, filename string, doc Document) (Result, error) {
	if totalPoints(doc.Data) == 0 {
		return Result{}, ErrNoData
	}
	dir, err := ensureDir(dir)
	if err != nil {
		return Result{}, err
	}

	doc.Metadata.DataPoints = totalPoints(doc.Data)
	if doc.Metadata.ExportDate.IsZero() {
		doc.Metadata.ExportDate = time.Now().UTC()
	}

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return Result{}, fmt.Errorf("encoding json export: %w", err)
	}
	return fileResult(path, "json")
}

type tableRow struct {
	time    time.Time
	values  []int
	partial bool
}

// tabulate aligns the series on the union of their timestamps; a keyword
// with no observation at a timestamp contributes zero.
func tabulate(series []trends.Series) []tableRow {
	type cell struct {
		value   int
		partial bool
	}
	byTime := make(map[time.Time][]cell)

	for i, s := range series {
		for _, p := range s.Points {
			row, ok := byTime[p.Time]
			if !ok {
				row = make([]cell, len(series))
				byTime[p.Time] = row
			}
			row[i] = cell{value: p.Value, partial: p.Partial}
		}
	}

	times := make([]time.Time, 0, len(byTime))
	for ts := range byTime {
		times = append(times, ts)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	rows := make([]tableRow, 0, len(times))
	for _, ts := range times {
		row := tableRow{time: ts, values: make([]int, len(series))}
		for i, c := range byTime[ts] {
			row.values[i] = c.value
			row.partial = row.partial || c.partial
		}
		rows = append(rows, row)
	}
	return rows
}
