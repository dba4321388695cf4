package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damionrashford/google-trends/pkg/trends"
)

func makeSeries(keyword string, start time.Time, step time.Duration, values ...int) trends.Series {
	points := make([]trends.Point, len(values))
	for i, v := range values {
		points[i] = trends.Point{Time: start.Add(time.Duration(i) * step), Value: v}
	}
	return trends.Series{Keyword: keyword, Points: points}
}

func TestStatistics_Empty(t *testing.T) {
	stats := Statistics(trends.Series{Keyword: "golang"})

	assert.Equal(t, "golang", stats.Keyword)
	assert.Equal(t, 0, stats.Points)
	assert.Zero(t, stats.Mean)
	assert.Zero(t, stats.StdDev)
	assert.Equal(t, trends.TrendStable, stats.Trend)
	assert.True(t, stats.PeakDate.IsZero())
}

func TestStatistics_SinglePoint(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	stats := Statistics(makeSeries("golang", start, 24*time.Hour, 42))

	assert.Equal(t, 1, stats.Points)
	assert.Equal(t, 42.0, stats.Mean)
	assert.Equal(t, 42.0, stats.Median)
	assert.Zero(t, stats.StdDev, "sample stddev of one value is zero")
	assert.Equal(t, 42, stats.Min)
	assert.Equal(t, 42, stats.Max)
	assert.Equal(t, trends.TrendStable, stats.Trend)
	assert.Equal(t, start, stats.PeakDate)
}

func TestStatistics_KnownValues(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	stats := Statistics(makeSeries("golang", start, 24*time.Hour, 10, 20, 30, 40))

	assert.Equal(t, 25.0, stats.Mean)
	assert.Equal(t, 25.0, stats.Median)
	assert.InDelta(t, 12.909944, stats.StdDev, 1e-6)
	assert.Equal(t, 10, stats.Min)
	assert.Equal(t, 40, stats.Max)
	assert.Equal(t, 40, stats.PeakValue)
	assert.Equal(t, start.Add(3*24*time.Hour), stats.PeakDate)
	assert.InDelta(t, 51.639778, stats.Volatility, 1e-6)
}

func TestStatistics_MeanWithinBounds(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	stats := Statistics(makeSeries("k", start, time.Hour, 7, 93, 12, 55, 41, 0, 88))

	assert.GreaterOrEqual(t, stats.Mean, float64(stats.Min))
	assert.LessOrEqual(t, stats.Mean, float64(stats.Max))
	assert.GreaterOrEqual(t, stats.Median, float64(stats.Min))
	assert.LessOrEqual(t, stats.Median, float64(stats.Max))
}

func TestStatistics_PeakDateIsFirstOccurrence(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	stats := Statistics(makeSeries("k", start, 24*time.Hour, 10, 90, 30, 90))

	assert.Equal(t, 90, stats.PeakValue)
	assert.Equal(t, start.Add(24*time.Hour), stats.PeakDate)
}

func TestMedian_OrderInvariant(t *testing.T) {
	assert.Equal(t, median([]int{1, 2, 3, 4, 5}), median([]int{5, 4, 3, 2, 1}))
	assert.Equal(t, 3.0, median([]int{5, 1, 3, 2, 4}))
	assert.Equal(t, 2.5, median([]int{4, 1, 3, 2}))
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   trends.TrendDirection
	}{
		{"steadily rising", []int{10, 20, 30, 40, 50}, trends.TrendRising},
		{"steadily falling", []int{50, 40, 30, 20, 10}, trends.TrendFalling},
		{"flat", []int{30, 30, 30, 30}, trends.TrendStable},
		{"noise around flat", []int{30, 31, 29, 30, 31, 29}, trends.TrendStable},
		{"single point", []int{30}, trends.TrendStable},
		{"empty", nil, trends.TrendStable},
		{"slope exactly at threshold", []int{30, 30, 31, 31, 32}, trends.TrendStable},
		{"unit slope rising", []int{30, 31, 32, 33, 34}, trends.TrendRising},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyTrend(tt.values))
		})
	}
}

func TestStatistics_ZeroSeriesHasNoVolatility(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	stats := Statistics(makeSeries("k", start, time.Hour, 0, 0, 0))

	require.Zero(t, stats.Mean)
	assert.Zero(t, stats.Volatility, "zero mean must not divide")
}
