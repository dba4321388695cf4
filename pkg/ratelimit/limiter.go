// Package ratelimit controls the pace of calls against the upstream trends
// endpoint. It provides two layers: a token-bucket limiter that enforces the
// minimum spacing between requests, and a Guard that wraps whole logical
// operations with retry, exponential backoff, and empty-result degradation.
//
// The spacing limiter is shared by every operation that goes through one
// Guard, so the minimum-delay invariant holds globally across concurrent
// callers, not per call.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/ratelimit"
)

// Rate describes a rate limit: Limit operations per Interval.
type Rate struct {
	Limit    int
	Interval time.Duration
}

// RateLimiter paces operations. Wait blocks until the next operation is
// permitted or the context is cancelled.
type RateLimiter interface {
	Wait(ctx context.Context) error

	// SetLimit replaces the rate configuration at runtime.
	SetLimit(rate Rate) error
}

// uberLimiter implements RateLimiter on Uber's token bucket.
type uberLimiter struct {
	limiter ratelimit.Limiter
	rate    Rate
}

// NewTokenBucketLimiter creates a limiter allowing rate.Limit operations per
// rate.Interval. A one-per-five-seconds spacing is expressed as
// Rate{Limit: 1, Interval: 5 * time.Second}.
func NewTokenBucketLimiter(rate Rate) RateLimiter {
	return &uberLimiter{
		limiter: ratelimit.New(rate.Limit, ratelimit.Per(rate.Interval)),
		rate:    rate,
	}
}

// NewUnlimitedLimiter creates a limiter that never blocks. Intended for tests.
func NewUnlimitedLimiter() RateLimiter {
	return &uberLimiter{limiter: ratelimit.NewUnlimited()}
}

func (l *uberLimiter) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limit wait cancelled: %w", ctx.Err())
	default:
		l.limiter.Take()
		return nil
	}
}

func (l *uberLimiter) SetLimit(rate Rate) error {
	if rate.Limit <= 0 || rate.Interval <= 0 {
		return fmt.Errorf("invalid rate limit: %+v", rate)
	}
	l.limiter = ratelimit.New(rate.Limit, ratelimit.Per(rate.Interval))
	l.rate = rate
	return nil
}
