package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damionrashford/google-trends/pkg/trends"
)

func TestCompare_PerfectCorrelation(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := makeSeries("a", start, 24*time.Hour, 10, 20, 30, 40)
	b := makeSeries("b", start, 24*time.Hour, 20, 40, 60, 80)

	result := Compare([]trends.Series{a, b})

	require.Len(t, result.Correlation, 2)
	assert.Equal(t, 1.0, result.Correlation[0][0])
	assert.Equal(t, 1.0, result.Correlation[1][1])
	assert.InDelta(t, 1.0, result.Correlation[0][1], 1e-9)
	assert.Equal(t, result.Correlation[0][1], result.Correlation[1][0], "matrix must be symmetric")
}

func TestCompare_InverseCorrelation(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := makeSeries("a", start, 24*time.Hour, 10, 20, 30, 40)
	b := makeSeries("b", start, 24*time.Hour, 40, 30, 20, 10)

	result := Compare([]trends.Series{a, b})

	assert.InDelta(t, -1.0, result.Correlation[0][1], 1e-9)
}

func TestCompare_ZeroVarianceCorrelatesAtZero(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := makeSeries("a", start, 24*time.Hour, 10, 20, 30)
	flat := makeSeries("flat", start, 24*time.Hour, 50, 50, 50)

	result := Compare([]trends.Series{a, flat})

	assert.Zero(t, result.Correlation[0][1])
	assert.Equal(t, 1.0, result.Correlation[1][1], "diagonal stays 1.0 even for flat series")
}

func TestCompare_SingleKeyword(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	result := Compare([]trends.Series{makeSeries("solo", start, 24*time.Hour, 5, 10, 15)})

	assert.Equal(t, []string{"solo"}, result.Keywords)
	require.Len(t, result.Correlation, 1)
	assert.Equal(t, 1.0, result.Correlation[0][0])
	assert.Equal(t, []string{"solo"}, result.Ranking)
}

func TestCompare_RankingByMeanDescending(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	low := makeSeries("low", start, 24*time.Hour, 1, 2, 3)
	high := makeSeries("high", start, 24*time.Hour, 70, 80, 90)
	mid := makeSeries("mid", start, 24*time.Hour, 30, 40, 50)

	result := Compare([]trends.Series{low, high, mid})

	assert.Equal(t, []string{"high", "mid", "low"}, result.Ranking)
	assert.Equal(t, []string{"low", "high", "mid"}, result.Keywords, "keywords keep input order")
}

func TestCompare_RankingTiesKeepInputOrder(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first := makeSeries("first", start, 24*time.Hour, 10, 20)
	second := makeSeries("second", start, 24*time.Hour, 20, 10)

	result := Compare([]trends.Series{first, second})

	assert.Equal(t, []string{"first", "second"}, result.Ranking)
}

func TestCompare_MisalignedTimestamps(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := makeSeries("a", start, 24*time.Hour, 10, 20, 30)
	// b starts one day later, so each side has a timestamp the other lacks.
	b := makeSeries("b", start.Add(24*time.Hour), 24*time.Hour, 15, 25, 35)

	result := Compare([]trends.Series{a, b})

	require.Len(t, result.Correlation, 2)
	r := result.Correlation[0][1]
	assert.GreaterOrEqual(t, r, -1.0)
	assert.LessOrEqual(t, r, 1.0)
}

func TestCompare_Empty(t *testing.T) {
	result := Compare(nil)

	assert.Empty(t, result.Keywords)
	assert.Empty(t, result.Correlation)
	assert.Empty(t, result.Ranking)
	assert.NotNil(t, result.Stats)
}

func TestPearson(t *testing.T) {
	assert.Zero(t, pearson(nil, nil))
	assert.Zero(t, pearson([]float64{1, 2}, []float64{1}))
	assert.InDelta(t, 1.0, pearson([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.Zero(t, pearson([]float64{1, 1, 1}, []float64{1, 2, 3}))
}
