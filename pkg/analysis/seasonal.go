package analysis

import (
	"errors"
	"sort"
	"time"

	"github.com/damionrashford/google-trends/pkg/trends"
)

// ErrInsufficientData is returned when a series does not span enough full
// calendar periods for a seasonal breakdown.
var ErrInsufficientData = errors.New("insufficient data for seasonal analysis")

// Seasonal groups a series by calendar period and reports per-group
// aggregates.
//
// The grouping granularity follows the series spacing: sub-daily and daily
// series group by day-of-week, coarser series group by month-of-year. The
// series must span at least two full periods (14 days for day-of-week,
// 24 months for month-of-year), otherwise ErrInsufficientData is returned.
func Seasonal(s trends.Series) (trends.SeasonalPattern, error) {
	pattern := trends.SeasonalPattern{Keyword: s.Keyword}
	if len(s.Points) < 2 {
		return pattern, ErrInsufficientData
	}

	span := s.Points[len(s.Points)-1].Time.Sub(s.Points[0].Time)
	weekly := medianSpacing(s.Points) <= 24*time.Hour

	if weekly {
		if span < 14*24*time.Hour {
			return pattern, ErrInsufficientData
		}
		pattern.Period = "day-of-week"
		pattern.Groups = groupBy(s.Points, 7, func(t time.Time) (int, string) {
			wd := t.Weekday()
			return int(wd), wd.String()
		})
	} else {
		if span < 2*365*24*time.Hour {
			return pattern, ErrInsufficientData
		}
		pattern.Period = "month-of-year"
		pattern.Groups = groupBy(s.Points, 12, func(t time.Time) (int, string) {
			m := t.Month()
			return int(m), m.String()
		})
	}

	pattern.Peaks, pattern.Lows = extremes(pattern.Groups, 3)
	return pattern, nil
}

func medianSpacing(points []trends.Point) time.Duration {
	gaps := make([]time.Duration, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		gaps = append(gaps, points[i].Time.Sub(points[i-1].Time))
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
	return gaps[len(gaps)/2]
}

func groupBy(points []trends.Point, buckets int, key func(time.Time) (int, string)) []trends.SeasonGroup {
	type acc struct {
		label       string
		sum, points int
		min, max    int
	}
	byIndex := make(map[int]*acc, buckets)

	for _, p := range points {
		idx, label := key(p.Time)
		a, ok := byIndex[idx]
		if !ok {
			a = &acc{label: label, min: p.Value, max: p.Value}
			byIndex[idx] = a
		}
		a.sum += p.Value
		a.points++
		if p.Value < a.min {
			a.min = p.Value
		}
		if p.Value > a.max {
			a.max = p.Value
		}
	}

	indexes := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	groups := make([]trends.SeasonGroup, 0, len(indexes))
	for _, idx := range indexes {
		a := byIndex[idx]
		groups = append(groups, trends.SeasonGroup{
			Index:  idx,
			Label:  a.label,
			Mean:   float64(a.sum) / float64(a.points),
			Min:    a.min,
			Max:    a.max,
			Points: a.points,
		})
	}
	return groups
}

// extremes returns the labels of the n strongest and n weakest groups by mean.
func extremes(groups []trends.SeasonGroup, n int) (peaks, lows []string) {
	sorted := make([]trends.SeasonGroup, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Mean > sorted[j].Mean })

	if n > len(sorted) {
		n = len(sorted)
	}
	for i := 0; i < n; i++ {
		peaks = append(peaks, sorted[i].Label)
		lows = append(lows, sorted[len(sorted)-1-i].Label)
	}
	return peaks, lows
}
