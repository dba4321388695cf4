// Package google-trends provides resilient access to Google Trends search
// interest data, with statistical analysis and an MCP server surface.
//
// The library is built around the trends.Provider interface, implemented by
// the google package. Every upstream call is paced and retried by a shared
// rate-limit guard so callers never hammer the unofficial Trends endpoints.
//
// Core Features:
//
//   - Interest-over-time series for up to five keywords
//   - Related queries, regional interest, and trending searches
//   - Keyword comparison with correlation matrix and ranking
//   - Seasonal pattern detection (month-of-year or day-of-week)
//   - CSV, JSON, and SQLite export of fetched series
//   - MCP server exposing all of the above as tools over stdio
//
// # Standard Errors
//
// The trends package defines sentinel errors that classify upstream
// failures:
//
//   - ErrThrottled: the upstream rejected the request for rate reasons
//     (HTTP 429 or a block-page redirect); retried with backoff
//
//   - ErrTransient: a temporary upstream fault (5xx or a malformed
//     response body); retried with backoff
//
//   - ErrUpstreamUnavailable: the upstream could not be reached at all;
//     surfaced immediately without retries
//
//   - ErrValidation: the request itself is invalid; wrapped by
//     ValidationError naming the offending field
//
// When every retry of a throttled or transient failure is exhausted, data
// fetches degrade to an empty result rather than an error, so downstream
// consumers keep working during upstream outages.
//
// # Example
//
//	client := google.NewClient(google.NewOptions())
//	series, err := client.InterestOverTime(ctx, trends.Query{
//		Keywords:  []string{"golang", "rust"},
//		Timeframe: "today 12-m",
//		Region:    "US",
//	})
package googletrends
