package google

import (
	"context"
	"errors"

	"github.com/damionrashford/google-trends/pkg/analysis"
	"github.com/damionrashford/google-trends/pkg/logging"
	"github.com/damionrashford/google-trends/pkg/ratelimit"
	"github.com/damionrashford/google-trends/pkg/trends"
)

// Geographic resolutions accepted by InterestByRegion.
var resolutions = map[string]struct{}{
	"COUNTRY": {},
	"REGION":  {},
	"CITY":    {},
	"DMA":     {},
}

// Client is the Google Trends facade. It composes the upstream client, the
// ratelimit guard and the analyzer behind the trends.Provider interface.
//
// Every method either returns a complete result, a designated empty result
// after the retry budget is spent, or an error; callers never observe
// partially populated values. Concurrent calls through one Client share the
// same spacing limiter and retry state. Independent Clients share nothing.
type Client struct {
	opts     *Options
	upstream *upstream
	guard    *ratelimit.Guard
	logger   logging.Logger
}

var _ trends.Provider = (*Client)(nil)

// NewClient creates a Client with the given options. Nil selects defaults.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = NewOptions()
	}
	opts.defaults()

	guard := ratelimit.NewGuard(ratelimit.GuardConfig{
		RequestInterval: opts.RequestInterval,
		MaxAttempts:     opts.MaxAttempts,
		BaseDelay:       opts.BaseDelay,
		MaxDelay:        opts.MaxDelay,
		RetryIf:         trends.IsRetryable,
		Limiter:         opts.Limiter,
		Logger:          opts.Logger,
	})

	return &Client{
		opts:     opts,
		upstream: newUpstream(opts),
		guard:    guard,
		logger:   opts.Logger,
	}
}

// InterestOverTime implements trends.Provider.
func (c *Client) InterestOverTime(ctx context.Context, q trends.Query) ([]trends.Series, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	c.logger.Info("fetching interest over time",
		logging.Strings("keywords", q.Keywords),
		logging.String("timeframe", q.Timeframe),
	)
	return ratelimit.Fetch(ctx, c.guard, []trends.Series{}, func(ctx context.Context) ([]trends.Series, error) {
		return c.upstream.fetchInterestOverTime(ctx, q)
	})
}

// RelatedQueries implements trends.Provider. Each keyword is fetched as its
// own guarded upstream call so one throttled keyword degrades alone.
func (c *Client) RelatedQueries(ctx context.Context, q trends.Query) ([]trends.RelatedQueries, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	results := make([]trends.RelatedQueries, 0, len(q.Keywords))
	for _, kw := range q.Keywords {
		sub := q
		sub.Keywords = []string{kw}

		empty := trends.RelatedQueries{
			Keyword: kw,
			Top:     []trends.RelatedQuery{},
			Rising:  []trends.RelatedQuery{},
		}
		related, err := ratelimit.Fetch(ctx, c.guard, empty, func(ctx context.Context) (trends.RelatedQueries, error) {
			return c.upstream.fetchRelated(ctx, sub)
		})
		if err != nil {
			return nil, err
		}
		results = append(results, related)
	}
	return results, nil
}

// InterestByRegion implements trends.Provider.
func (c *Client) InterestByRegion(ctx context.Context, q trends.Query, resolution string) ([]trends.RegionInterest, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if _, ok := resolutions[resolution]; !ok {
		return nil, &trends.ValidationError{Field: "resolution", Reason: "unknown resolution " + resolution}
	}

	c.logger.Info("fetching interest by region",
		logging.String("keyword", q.Keywords[0]),
		logging.String("resolution", resolution),
	)
	return ratelimit.Fetch(ctx, c.guard, []trends.RegionInterest{}, func(ctx context.Context) ([]trends.RegionInterest, error) {
		return c.upstream.fetchRegions(ctx, q, resolution)
	})
}

// TrendingSearches implements trends.Provider.
func (c *Client) TrendingSearches(ctx context.Context, region string) ([]string, error) {
	if region == "" {
		region = trends.DefaultRegion
	}
	if !trends.ValidRegion(region) {
		return nil, &trends.ValidationError{Field: "region", Reason: "unknown region " + region}
	}

	return ratelimit.Fetch(ctx, c.guard, []string{}, func(ctx context.Context) ([]string, error) {
		return c.upstream.fetchTrending(ctx, region)
	})
}

// CompareKeywords implements trends.Provider. Each keyword's series is
// fetched as an independent guarded call, then the aggregate goes through
// the analyzer. A keyword whose retries are exhausted contributes an empty
// series rather than failing the whole comparison.
func (c *Client) CompareKeywords(ctx context.Context, q trends.Query) (trends.ComparisonResult, error) {
	if err := q.Validate(); err != nil {
		return trends.ComparisonResult{}, err
	}

	series := make([]trends.Series, 0, len(q.Keywords))
	for _, kw := range q.Keywords {
		sub := q
		sub.Keywords = []string{kw}

		empty := trends.Series{Keyword: kw, Points: []trends.Point{}}
		s, err := ratelimit.Fetch(ctx, c.guard, empty, func(ctx context.Context) (trends.Series, error) {
			fetched, err := c.upstream.fetchInterestOverTime(ctx, sub)
			if err != nil {
				return trends.Series{Keyword: kw}, err
			}
			if len(fetched) == 0 {
				return empty, nil
			}
			return fetched[0], nil
		})
		if err != nil {
			return trends.ComparisonResult{}, err
		}
		series = append(series, s)
	}

	return analysis.Compare(series), nil
}

// SeasonalPatterns implements trends.Provider. Keywords without enough span
// for a seasonal breakdown are omitted from the result.
func (c *Client) SeasonalPatterns(ctx context.Context, q trends.Query) ([]trends.SeasonalPattern, error) {
	series, err := c.InterestOverTime(ctx, q)
	if err != nil {
		return nil, err
	}

	patterns := make([]trends.SeasonalPattern, 0, len(series))
	for _, s := range series {
		pattern, err := analysis.Seasonal(s)
		if errors.Is(err, analysis.ErrInsufficientData) {
			c.logger.Debug("not enough data for seasonal breakdown",
				logging.String("keyword", s.Keyword),
				logging.Int("points", len(s.Points)),
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}
