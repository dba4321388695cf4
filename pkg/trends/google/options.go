// Package google implements the trends.Provider interface against the
// Google Trends web API. Each logical query is a token handshake against the
// explore endpoint followed by a widget-data fetch, executed under the
// ratelimit guard so spacing, retries and degradation policies apply
// uniformly.
package google

import (
	"net/http"
	"time"

	"github.com/damionrashford/google-trends/pkg/logging"
	"github.com/damionrashford/google-trends/pkg/ratelimit"
)

// Options configures the Google Trends client.
type Options struct {
	// BaseURL overrides the upstream endpoint. Tests point it at a local
	// httptest server.
	BaseURL string

	// Locale is the hl parameter sent with every request.
	Locale string

	// TimezoneOffset is the tz parameter, in minutes west of UTC.
	TimezoneOffset int

	// HTTPTimeout bounds each HTTP round trip.
	HTTPTimeout time.Duration

	// RequestInterval is the minimum spacing between upstream requests.
	RequestInterval time.Duration

	// MaxAttempts is the retry budget per logical call, including the
	// first attempt.
	MaxAttempts uint

	// BaseDelay and MaxDelay bound the exponential backoff between retries.
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// Transport overrides the HTTP transport. Tests inject a mock
	// RoundTripper here.
	Transport http.RoundTripper

	// Limiter overrides the spacing limiter built from RequestInterval.
	Limiter ratelimit.RateLimiter

	Logger logging.Logger
}

// NewOptions returns options with production defaults: a one second request
// interval, four attempts, and backoff from 500ms up to 30s.
func NewOptions() *Options {
	return &Options{
		BaseURL:         "https://trends.google.com",
		Locale:          "en-US",
		TimezoneOffset:  360,
		HTTPTimeout:     30 * time.Second,
		RequestInterval: time.Second,
		MaxAttempts:     4,
		BaseDelay:       500 * time.Millisecond,
		MaxDelay:        30 * time.Second,
	}
}

func (o *Options) defaults() {
	def := NewOptions()
	if o.BaseURL == "" {
		o.BaseURL = def.BaseURL
	}
	if o.Locale == "" {
		o.Locale = def.Locale
	}
	if o.TimezoneOffset == 0 {
		o.TimezoneOffset = def.TimezoneOffset
	}
	if o.HTTPTimeout <= 0 {
		o.HTTPTimeout = def.HTTPTimeout
	}
	if o.RequestInterval <= 0 {
		o.RequestInterval = def.RequestInterval
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = def.MaxAttempts
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = def.BaseDelay
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = def.MaxDelay
	}
	if o.Logger == nil {
		o.Logger = logging.NewLogger()
	}
}
