package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"sync"

	"github.com/damionrashford/google-trends/pkg/logging"
	"github.com/damionrashford/google-trends/pkg/trends"
)

const (
	explorePath     = "/trends/api/explore"
	multilinePath   = "/trends/api/widgetdata/multiline"
	relatedPath     = "/trends/api/widgetdata/relatedsearches"
	comparedGeoPath = "/trends/api/widgetdata/comparedgeo"
	dailyTrendsPath = "/trends/api/dailytrends"
)

// Widget IDs handed out by the explore endpoint.
const (
	widgetTimeSeries     = "TIMESERIES"
	widgetRelatedQueries = "RELATED_QUERIES"
	widgetGeoMap         = "GEO_MAP"
)

// upstream issues raw HTTP calls against the trends endpoint and decodes the
// semi-structured replies into domain values. It performs exactly one logical
// request per method call; spacing and retries live in the guard above it.
//
// The endpoint is session-stateful: a warm-up request primes the cookie jar
// before the first explore call.
type upstream struct {
	baseURL string
	locale  string
	tz      int
	http    *http.Client
	logger  logging.Logger

	warmup sync.Once
}

func newUpstream(opts *Options) *upstream {
	jar, _ := cookiejar.New(nil)
	return &upstream{
		baseURL: opts.BaseURL,
		locale:  opts.Locale,
		tz:      opts.TimezoneOffset,
		logger:  opts.Logger,
		http: &http.Client{
			Timeout:   opts.HTTPTimeout,
			Jar:       jar,
			Transport: opts.Transport,
			// A redirect to the blocking page is a throttling signal;
			// keep the original status visible instead of following it.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// explorePayload is the req parameter of the explore call.
type explorePayload struct {
	ComparisonItem []comparisonItem `json:"comparisonItem"`
	Category       int              `json:"category"`
	Property       string           `json:"property"`
}

type comparisonItem struct {
	Keyword string `json:"keyword"`
	Geo     string `json:"geo"`
	Time    string `json:"time"`
}

// upstreamTimeframe maps the table value onto the token the wire format
// expects. Only the all-time selector differs.
func upstreamTimeframe(tf string) string {
	if tf == "2004-present" {
		return "all"
	}
	return tf
}

func buildPayload(q trends.Query) explorePayload {
	items := make([]comparisonItem, len(q.Keywords))
	for i, kw := range q.Keywords {
		items[i] = comparisonItem{
			Keyword: kw,
			Geo:     q.Region,
			Time:    upstreamTimeframe(q.Timeframe),
		}
	}
	return explorePayload{ComparisonItem: items, Category: q.Category}
}

// warm primes the session cookies. Best effort: a failed warm-up surfaces
// later as a throttled explore call.
func (u *upstream) warm(ctx context.Context, region string) {
	u.warmup.Do(func() {
		if region == "" {
			region = trends.DefaultRegion
		}
		target := u.baseURL + "/?geo=" + url.QueryEscape(region)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return
		}
		resp, err := u.http.Do(req)
		if err != nil {
			u.logger.Debug("session warm-up failed", logging.Error(err))
			return
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	})
}

// call performs one HTTP round trip and classifies the outcome: 429 and
// redirects are throttling, 5xx and other unexpected statuses are transient,
// network failures mean the upstream is unreachable.
func (u *upstream) call(ctx context.Context, method, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept-Language", u.locale)

	resp, err := u.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", trends.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 300 && resp.StatusCode < 400:
		return nil, fmt.Errorf("%w: status %d", trends.ErrThrottled, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", trends.ErrTransient, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", trends.ErrTransient, err)
	}
	return body, nil
}

// decode strips the anti-XSSI prefix and unmarshals the remaining JSON.
// Any shape surprise is a transient failure, never a propagated panic.
func decode(body []byte, v interface{}) error {
	start := -1
	for i, b := range body {
		if b == '{' || b == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return fmt.Errorf("%w: response contains no JSON payload", trends.ErrTransient)
	}
	if err := json.Unmarshal(body[start:], v); err != nil {
		return fmt.Errorf("%w: unexpected response shape: %v", trends.ErrTransient, err)
	}
	return nil
}

func (u *upstream) apiURL(path string, params url.Values) string {
	params.Set("hl", u.locale)
	params.Set("tz", strconv.Itoa(u.tz))
	return u.baseURL + path + "?" + params.Encode()
}

// explore performs the token handshake and returns the widgets granted for
// the payload.
func (u *upstream) explore(ctx context.Context, q trends.Query) ([]widget, error) {
	u.warm(ctx, q.Region)

	payload, err := json.Marshal(buildPayload(q))
	if err != nil {
		return nil, fmt.Errorf("encoding explore payload: %w", err)
	}

	params := url.Values{}
	params.Set("req", string(payload))
	body, err := u.call(ctx, http.MethodPost, u.apiURL(explorePath, params))
	if err != nil {
		return nil, err
	}

	var resp exploreResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	return resp.Widgets, nil
}

// widgetData fetches the data document behind one explore widget. A widget's
// request object is re-sent verbatim, with optional overrides applied to it.
func (u *upstream) widgetData(ctx context.Context, path string, w widget, overrides map[string]interface{}, v interface{}) error {
	request := w.Request
	if len(overrides) > 0 {
		var m map[string]interface{}
		if err := json.Unmarshal(w.Request, &m); err != nil {
			return fmt.Errorf("%w: widget request is not an object: %v", trends.ErrTransient, err)
		}
		for k, val := range overrides {
			m[k] = val
		}
		patched, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encoding widget request: %w", err)
		}
		request = patched
	}

	params := url.Values{}
	params.Set("req", string(request))
	params.Set("token", w.Token)
	body, err := u.call(ctx, http.MethodGet, u.apiURL(path, params))
	if err != nil {
		return err
	}
	return decode(body, v)
}

// findWidget returns the n-th widget (zero-based) with the given ID.
func findWidget(widgets []widget, id string, n int) (widget, error) {
	seen := 0
	for _, w := range widgets {
		if w.ID != id {
			continue
		}
		if seen == n {
			return w, nil
		}
		seen++
	}
	return widget{}, fmt.Errorf("%w: explore reply is missing widget %s", trends.ErrTransient, id)
}

// fetchInterestOverTime is one logical interest-over-time request: explore
// handshake plus the multiline widget fetch, normalized into one series per
// keyword.
func (u *upstream) fetchInterestOverTime(ctx context.Context, q trends.Query) ([]trends.Series, error) {
	widgets, err := u.explore(ctx, q)
	if err != nil {
		return nil, err
	}
	w, err := findWidget(widgets, widgetTimeSeries, 0)
	if err != nil {
		return nil, err
	}

	var resp multilineResponse
	if err := u.widgetData(ctx, multilinePath, w, nil, &resp); err != nil {
		return nil, err
	}
	return normalizeTimeline(resp, q.Keywords)
}

// fetchRelated is one logical related-queries request for a single keyword.
func (u *upstream) fetchRelated(ctx context.Context, q trends.Query) (trends.RelatedQueries, error) {
	keyword := q.Keywords[0]
	out := trends.RelatedQueries{Keyword: keyword}

	widgets, err := u.explore(ctx, q)
	if err != nil {
		return out, err
	}
	w, err := findWidget(widgets, widgetRelatedQueries, 0)
	if err != nil {
		return out, err
	}

	var resp relatedResponse
	if err := u.widgetData(ctx, relatedPath, w, nil, &resp); err != nil {
		return out, err
	}
	return normalizeRelated(resp, keyword), nil
}

// fetchRegions is one logical interest-by-region request for the first
// keyword at the given resolution.
func (u *upstream) fetchRegions(ctx context.Context, q trends.Query, resolution string) ([]trends.RegionInterest, error) {
	widgets, err := u.explore(ctx, q)
	if err != nil {
		return nil, err
	}
	w, err := findWidget(widgets, widgetGeoMap, 0)
	if err != nil {
		return nil, err
	}

	var resp comparedGeoResponse
	err = u.widgetData(ctx, comparedGeoPath, w, map[string]interface{}{"resolution": resolution}, &resp)
	if err != nil {
		return nil, err
	}
	return normalizeRegions(resp, q.Keywords[0]), nil
}

// fetchTrending is one logical daily-trending request. It needs no explore
// handshake.
func (u *upstream) fetchTrending(ctx context.Context, region string) ([]string, error) {
	u.warm(ctx, region)

	params := url.Values{}
	params.Set("geo", region)
	params.Set("ns", "15")
	body, err := u.call(ctx, http.MethodGet, u.apiURL(dailyTrendsPath, params))
	if err != nil {
		return nil, err
	}

	var resp dailyTrendsResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	return normalizeTrending(resp), nil
}
