// Package trends defines the domain model for Google Trends data: queries,
// interest series, related queries, regional interest, and the derived
// statistics shared by the provider and analysis layers. It also holds the
// Provider interface that tool servers consume.
package trends

import (
	"context"
	"time"
)

// MaxKeywords is the upstream limit on keywords per query.
const MaxKeywords = 5

// Query describes one logical trends request. Queries are caller-owned and
// immutable once validated.
type Query struct {
	// Keywords is the ordered list of search terms, 1 to MaxKeywords entries.
	Keywords []string `json:"keywords"`

	// Timeframe selects the date range and granularity, e.g. "today 12-m".
	// Must be one of Timeframes().
	Timeframe string `json:"timeframe"`

	// Region restricts results to a 2-letter country code. Empty means
	// worldwide.
	Region string `json:"region,omitempty"`

	// Category narrows results to a Google Trends category ID. Zero means
	// all categories.
	Category int `json:"category,omitempty"`
}

// Validate checks the query against the configuration tables. It returns a
// *ValidationError describing the first problem found, or nil.
func (q Query) Validate() error {
	if len(q.Keywords) == 0 {
		return &ValidationError{Field: "keywords", Reason: "at least one keyword is required"}
	}
	if len(q.Keywords) > MaxKeywords {
		return &ValidationError{Field: "keywords", Reason: "at most 5 keywords are allowed"}
	}
	for _, kw := range q.Keywords {
		if kw == "" {
			return &ValidationError{Field: "keywords", Reason: "keywords must be non-empty"}
		}
	}
	if !ValidTimeframe(q.Timeframe) {
		return &ValidationError{Field: "timeframe", Reason: "unknown timeframe " + q.Timeframe}
	}
	if q.Region != "" && !ValidRegion(q.Region) {
		return &ValidationError{Field: "region", Reason: "unknown region " + q.Region}
	}
	if q.Category < 0 {
		return &ValidationError{Field: "category", Reason: "category must be non-negative"}
	}
	return nil
}

// Point is one observation in an interest series. Value is the 0-100
// relative interest score the upstream assigns per query.
type Point struct {
	Time    time.Time `json:"time"`
	Value   int       `json:"value"`
	Partial bool      `json:"is_partial,omitempty"`
}

// Series is a chronologically increasing interest series for one keyword,
// with no duplicate timestamps.
type Series struct {
	Keyword string  `json:"keyword"`
	Points  []Point `json:"points"`
}

// Values returns the series values in order.
func (s Series) Values() []int {
	values := make([]int, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// RelatedQuery is one entry in a related-queries list. For "top" entries
// Value is the relative interest volume; for "rising" entries it is the
// growth percentage, with Breakout set when growth exceeds the upstream's
// reporting scale.
type RelatedQuery struct {
	Query          string `json:"query"`
	Value          int    `json:"value"`
	FormattedValue string `json:"formatted_value,omitempty"`
	Breakout       bool   `json:"breakout,omitempty"`
}

// RelatedQueries holds the top and rising related queries for one keyword.
type RelatedQueries struct {
	Keyword string         `json:"keyword"`
	Top     []RelatedQuery `json:"top"`
	Rising  []RelatedQuery `json:"rising"`
}

// RegionInterest is the interest score for one geographic region.
type RegionInterest struct {
	Keyword string `json:"keyword"`
	Code    string `json:"region_code"`
	Name    string `json:"region_name"`
	Value   int    `json:"value"`
}

// TrendDirection classifies the overall movement of a series.
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendStable  TrendDirection = "stable"
)

// Statistics are the derived summary values for one interest series.
// They are computed once and never mutated.
type Statistics struct {
	Keyword    string         `json:"keyword"`
	Mean       float64        `json:"mean"`
	Median     float64        `json:"median"`
	StdDev     float64        `json:"std_dev"`
	Min        int            `json:"min"`
	Max        int            `json:"max"`
	PeakValue  int            `json:"peak_value"`
	PeakDate   time.Time      `json:"peak_date,omitzero"`
	Points     int            `json:"total_points"`
	Trend      TrendDirection `json:"trend_direction"`
	Volatility float64        `json:"volatility"`
}

// ComparisonResult is the outcome of a multi-keyword comparison.
//
// Correlation is the pairwise Pearson matrix in the original keyword order:
// symmetric, diagonal exactly 1.0. Ranking lists keywords by mean interest
// descending, ties broken by input order.
type ComparisonResult struct {
	Keywords    []string              `json:"keywords"`
	Stats       map[string]Statistics `json:"keyword_stats"`
	Correlation [][]float64           `json:"correlation"`
	Ranking     []string              `json:"ranking"`
}

// SeasonGroup aggregates the observations falling into one calendar bucket.
type SeasonGroup struct {
	// Index is the calendar position: 1-12 for months, 0-6 for weekdays
	// (Sunday = 0).
	Index  int     `json:"index"`
	Label  string  `json:"label"`
	Mean   float64 `json:"mean"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Points int     `json:"points"`
}

// SeasonalPattern reports calendar-period aggregates for one keyword series.
type SeasonalPattern struct {
	Keyword string `json:"keyword"`

	// Period names the grouping granularity: "month-of-year" or
	// "day-of-week", chosen from the series spacing.
	Period string        `json:"period"`
	Groups []SeasonGroup `json:"groups"`

	// Peaks and Lows are the labels of the three strongest and weakest
	// groups.
	Peaks []string `json:"seasonal_peaks"`
	Lows  []string `json:"seasonal_lows"`
}

// Provider is the facade interface exposed to the tool-dispatch layer.
//
// Every method validates its input before any upstream call, retries
// throttled and transient upstream failures with backoff, and degrades to a
// well-typed empty result once the retry budget is exhausted. Fatal upstream
// failures and validation errors surface as errors; an empty result with a
// nil error means the query is valid but has no data.
type Provider interface {
	// InterestOverTime returns one interest series per query keyword.
	InterestOverTime(ctx context.Context, q Query) ([]Series, error)

	// RelatedQueries returns top and rising related queries, one entry per
	// query keyword. Each keyword is fetched as an independent upstream call.
	RelatedQueries(ctx context.Context, q Query) ([]RelatedQueries, error)

	// InterestByRegion returns regional interest for the first query
	// keyword at the given resolution ("COUNTRY", "REGION", "CITY", "DMA").
	InterestByRegion(ctx context.Context, q Query, resolution string) ([]RegionInterest, error)

	// TrendingSearches returns the current trending search terms for a
	// region code.
	TrendingSearches(ctx context.Context, region string) ([]string, error)

	// CompareKeywords fetches each keyword's series independently and
	// returns the full comparison.
	CompareKeywords(ctx context.Context, q Query) (ComparisonResult, error)

	// SeasonalPatterns returns calendar-period aggregates per keyword.
	SeasonalPatterns(ctx context.Context, q Query) ([]SeasonalPattern, error)
}
