package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/avast/retry-go"

	"github.com/damionrashford/google-trends/pkg/logging"
)

// GuardConfig configures a Guard.
type GuardConfig struct {
	// RequestInterval is the minimum spacing between upstream requests,
	// enforced across retries and across concurrent operations.
	RequestInterval time.Duration

	// MaxAttempts is the total attempt budget per operation, including the
	// first try.
	MaxAttempts uint

	// BaseDelay seeds the exponential backoff between retry attempts:
	// delay(n) = BaseDelay * 2^n + jitter, capped at MaxDelay.
	BaseDelay time.Duration

	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration

	// RetryIf reports whether an operation error is worth retrying.
	// Errors it rejects abort immediately and surface to the caller.
	RetryIf func(error) bool

	// Limiter overrides the spacing limiter built from RequestInterval.
	// Tests inject NewUnlimitedLimiter to run without real delays.
	Limiter RateLimiter

	Logger logging.Logger
}

func (c *GuardConfig) defaults() {
	if c.RequestInterval <= 0 {
		c.RequestInterval = time.Second
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 4
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 500 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.RetryIf == nil {
		c.RetryIf = func(error) bool { return true }
	}
	if c.Logger == nil {
		c.Logger = logging.NewLogger()
	}
}

// RetryState is the mutable bookkeeping a Guard keeps between attempts. It is
// process-local, owned by exactly one Guard, and never serialized.
type RetryState struct {
	LastRequest         time.Time
	ConsecutiveFailures int
	CurrentDelay        time.Duration
}

// Guard wraps logical upstream operations with request spacing and retries.
// A zero Guard is not usable; construct with NewGuard. Guards are safe for
// concurrent use; independent Guards share no state.
type Guard struct {
	cfg     GuardConfig
	limiter RateLimiter
	logger  logging.Logger

	mu    sync.Mutex
	state RetryState
}

// NewGuard creates a Guard with the given configuration.
func NewGuard(cfg GuardConfig) *Guard {
	cfg.defaults()

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = NewTokenBucketLimiter(Rate{Limit: 1, Interval: cfg.RequestInterval})
	}

	return &Guard{
		cfg:     cfg,
		limiter: limiter,
		logger:  cfg.Logger,
	}
}

// Backoff returns the deterministic part of the delay before retry attempt n
// (zero-based): base * 2^n, capped at max. Jitter is added separately so the
// schedule stays testable.
func Backoff(n uint, base, max time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delay := base
	for i := uint(0); i < n; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}

func (g *Guard) delayFor(n uint) time.Duration {
	delay := Backoff(n, g.cfg.BaseDelay, g.cfg.MaxDelay)
	if delay < g.cfg.MaxDelay {
		delay += time.Duration(rand.Int63n(int64(g.cfg.BaseDelay) + 1))
		if delay > g.cfg.MaxDelay {
			delay = g.cfg.MaxDelay
		}
	}

	g.mu.Lock()
	g.state.CurrentDelay = delay
	g.mu.Unlock()
	return delay
}

// Retryable reports whether the Guard would retry the given error.
func (g *Guard) Retryable(err error) bool {
	return g.cfg.RetryIf(err)
}

// State returns a snapshot of the retry bookkeeping.
func (g *Guard) State() RetryState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Guard) recordAttempt(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.LastRequest = time.Now()
	if err != nil {
		g.state.ConsecutiveFailures++
		return
	}
	g.state.ConsecutiveFailures = 0
	g.state.CurrentDelay = 0
}

// Do runs op with request spacing before every attempt and exponential
// backoff between attempts. Errors rejected by RetryIf abort immediately.
// On an exhausted attempt budget the last error is returned; most callers
// want Fetch instead, which degrades that case to an empty result.
func (g *Guard) Do(ctx context.Context, op func(context.Context) error) error {
	return retry.Do(
		func() error {
			if err := g.limiter.Wait(ctx); err != nil {
				return err
			}
			err := op(ctx)
			g.recordAttempt(err)
			return err
		},
		retry.Attempts(g.cfg.MaxAttempts),
		retry.RetryIf(g.cfg.RetryIf),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return g.delayFor(n)
		}),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Warn("upstream call failed, retrying",
				logging.Int("attempt", int(n)+1),
				logging.Int("max_attempts", int(g.cfg.MaxAttempts)),
				logging.Duration("backoff", g.State().CurrentDelay),
				logging.Error(err),
			)
		}),
	)
}

// Fetch runs op through the Guard and returns its result. When the attempt
// budget is exhausted on a retryable failure it returns the declared empty
// value with a nil error, so downstream composition never needs a special
// case for degraded results; the failure is reported through the logger.
// Non-retryable errors surface unchanged.
func Fetch[T any](ctx context.Context, g *Guard, empty T, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := g.Do(ctx, func(c context.Context) error {
		v, err := op(c)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err == nil {
		return out, nil
	}
	if g.Retryable(err) {
		g.logger.Warn("retry budget exhausted, returning empty result",
			logging.Int("attempts", int(g.cfg.MaxAttempts)),
			logging.Error(err),
		)
		return empty, nil
	}
	return empty, err
}
