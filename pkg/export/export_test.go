package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damionrashford/google-trends/pkg/trends"
)

func sampleSeries() []trends.Series {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mk := func(keyword string, values ...int) trends.Series {
		points := make([]trends.Point, len(values))
		for i, v := range values {
			points[i] = trends.Point{Time: start.Add(time.Duration(i) * 24 * time.Hour), Value: v}
		}
		return trends.Series{Keyword: keyword, Points: points}
	}
	return []trends.Series{mk("golang", 10, 20, 30), mk("rust", 40, 50, 60)}
}

func TestFilename(t *testing.T) {
	t.Run("custom name keeps extension", func(t *testing.T) {
		assert.Equal(t, "mine.csv", Filename("trends", []string{"golang"}, "csv", "mine.csv"))
		assert.Equal(t, "mine.csv", Filename("trends", []string{"golang"}, "csv", "mine"))
	})

	t.Run("generated name slugs keywords", func(t *testing.T) {
		name := Filename("trends", []string{"machine learning", "c++"}, "json", "")
		assert.True(t, strings.HasPrefix(name, "trends_machine_learning_c_"), name)
		assert.True(t, strings.HasSuffix(name, ".json"), name)
	})

	t.Run("caps keywords at three", func(t *testing.T) {
		name := Filename("trends", []string{"aa", "bb", "cc", "zz", "yy"}, "csv", "")
		assert.Contains(t, name, "aa_bb_cc")
		assert.NotContains(t, name, "zz")
	})
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()

	result, err := WriteCSV(dir, "out.csv", sampleSeries())
	require.NoError(t, err)

	assert.Equal(t, "out.csv", result.Filename)
	assert.Equal(t, "csv", result.Format)
	assert.Positive(t, result.SizeBytes)
	assert.Equal(t, filepath.Join(dir, "out.csv"), result.Path)

	f, err := os.Open(result.Path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header plus three rows")

	assert.Equal(t, []string{"date", "golang", "rust", "is_partial"}, records[0])
	assert.Equal(t, []string{"2025-03-01 00:00:00", "10", "40", "false"}, records[1])
	assert.Equal(t, []string{"2025-03-03 00:00:00", "30", "60", "false"}, records[3])
}

func TestWriteCSV_MisalignedSeriesFillZero(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	series := []trends.Series{
		{Keyword: "a", Points: []trends.Point{{Time: start, Value: 10}}},
		{Keyword: "b", Points: []trends.Point{{Time: start.Add(24 * time.Hour), Value: 20, Partial: true}}},
	}

	result, err := WriteCSV(t.TempDir(), "out.csv", series)
	require.NoError(t, err)

	f, err := os.Open(result.Path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"2025-03-01 00:00:00", "10", "0", "false"}, records[1])
	assert.Equal(t, []string{"2025-03-02 00:00:00", "0", "20", "true"}, records[2])
}

func TestWriteCSV_NoData(t *testing.T) {
	_, err := WriteCSV(t.TempDir(), "out.csv", nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = WriteCSV(t.TempDir(), "out.csv", []trends.Series{{Keyword: "empty"}})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	series := sampleSeries()

	result, err := WriteJSON(dir, "out.json", Document{
		Metadata: Metadata{
			Keywords:  []string{"golang", "rust"},
			Timeframe: "today 12-m",
			Region:    "US",
		},
		Data: series,
	})
	require.NoError(t, err)
	assert.Equal(t, "json", result.Format)

	raw, err := os.ReadFile(result.Path)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, []string{"golang", "rust"}, doc.Metadata.Keywords)
	assert.Equal(t, 6, doc.Metadata.DataPoints, "data point count is filled in")
	assert.False(t, doc.Metadata.ExportDate.IsZero())
	require.Len(t, doc.Data, 2)
	assert.Equal(t, series[0].Values(), doc.Data[0].Values())
}

func TestWriteJSON_NoData(t *testing.T) {
	_, err := WriteJSON(t.TempDir(), "out.json", Document{})
	assert.ErrorIs(t, err, ErrNoData)
}
