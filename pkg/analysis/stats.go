// Package analysis computes derived statistics over normalized interest
// series: summary statistics, trend classification, multi-keyword comparison
// and seasonal patterns. All functions are pure and deterministic; no I/O,
// no retries.
package analysis

import (
	"math"
	"sort"

	"github.com/damionrashford/google-trends/pkg/trends"
)

// trendThreshold is the least-squares slope magnitude (interest points per
// observation step) below which a series is classified as stable.
const trendThreshold = 0.5

// Statistics computes the summary statistics for one series. A series of
// length zero or one yields zero-valued defaults with a stable trend; the
// function never faults.
func Statistics(s trends.Series) trends.Statistics {
	stats := trends.Statistics{
		Keyword: s.Keyword,
		Trend:   trends.TrendStable,
		Points:  len(s.Points),
	}
	if len(s.Points) == 0 {
		return stats
	}

	values := s.Values()
	stats.Mean = mean(values)
	stats.Median = median(values)
	stats.StdDev = stdDev(values, stats.Mean)
	stats.Min, stats.Max = minMax(values)

	stats.PeakValue = stats.Max
	for _, p := range s.Points {
		if p.Value == stats.Max {
			stats.PeakDate = p.Time
			break
		}
	}

	stats.Trend = classifyTrend(values)
	if stats.Mean > 0 {
		stats.Volatility = stats.StdDev / stats.Mean * 100
	}
	return stats
}

func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func median(values []int) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

// stdDev is the sample standard deviation. Zero for fewer than two values.
func stdDev(values []int, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := float64(v) - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func minMax(values []int) (int, int) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// classifyTrend fits a least-squares line over the observation index and
// compares its slope against trendThreshold. Fewer than two points is stable.
func classifyTrend(values []int) trends.TrendDirection {
	if len(values) < 2 {
		return trends.TrendStable
	}

	n := float64(len(values))
	meanX := (n - 1) / 2
	meanY := mean(values)

	var num, den float64
	for i, v := range values {
		dx := float64(i) - meanX
		num += dx * (float64(v) - meanY)
		den += dx * dx
	}
	slope := num / den

	switch {
	case slope > trendThreshold:
		return trends.TrendRising
	case slope < -trendThreshold:
		return trends.TrendFalling
	default:
		return trends.TrendStable
	}
}
