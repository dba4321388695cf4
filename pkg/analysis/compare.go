package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/damionrashford/google-trends/pkg/trends"
)

// Compare aligns the keyword series on the union of their timestamps
// (missing observations count as zero), computes the pairwise Pearson
// correlation matrix, and ranks keywords by mean interest descending with
// ties broken by input order.
func Compare(series []trends.Series) trends.ComparisonResult {
	result := trends.ComparisonResult{
		Keywords: make([]string, len(series)),
		Stats:    make(map[string]trends.Statistics, len(series)),
	}
	for i, s := range series {
		result.Keywords[i] = s.Keyword
		result.Stats[s.Keyword] = Statistics(s)
	}

	aligned := align(series)
	result.Correlation = correlationMatrix(aligned)

	ranking := make([]string, len(series))
	copy(ranking, result.Keywords)
	sort.SliceStable(ranking, func(i, j int) bool {
		return result.Stats[ranking[i]].Mean > result.Stats[ranking[j]].Mean
	})
	result.Ranking = ranking

	return result
}

// align maps each series onto the sorted union of all timestamps.
func align(series []trends.Series) [][]float64 {
	union := make(map[time.Time]struct{})
	for _, s := range series {
		for _, p := range s.Points {
			union[p.Time] = struct{}{}
		}
	}

	timestamps := make([]time.Time, 0, len(union))
	for ts := range union {
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	aligned := make([][]float64, len(series))
	for i, s := range series {
		byTime := make(map[time.Time]int, len(s.Points))
		for _, p := range s.Points {
			byTime[p.Time] = p.Value
		}
		row := make([]float64, len(timestamps))
		for j, ts := range timestamps {
			row[j] = float64(byTime[ts])
		}
		aligned[i] = row
	}
	return aligned
}

// correlationMatrix computes pairwise Pearson correlation. The matrix is
// symmetric with the diagonal exactly 1.0; pairs involving a zero-variance
// series correlate at 0.
func correlationMatrix(aligned [][]float64) [][]float64 {
	n := len(aligned)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1.0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(aligned[i], aligned[j])
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}
	return matrix
}

func pearson(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}

	n := float64(len(x))
	var meanX, meanY float64
	for i := range x {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= n
	meanY /= n

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
