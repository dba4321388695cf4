package trends

import (
	"errors"
	"fmt"
)

// Failure taxonomy for upstream calls. Throttled and Transient are retried
// with backoff and eventually degrade to an empty result; validation and
// unavailability errors surface to the caller immediately.
var (
	// ErrThrottled signals an explicit denial from the upstream: HTTP 429 or
	// a redirect to its blocking page.
	ErrThrottled = errors.New("upstream throttled the request")

	// ErrTransient signals a malformed or unexpected upstream response that
	// may succeed on retry.
	ErrTransient = errors.New("transient upstream failure")

	// ErrUpstreamUnavailable signals that the upstream could not be reached
	// at all. Not retried.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrValidation is the base error wrapped by every ValidationError.
	ErrValidation = errors.New("invalid query")
)

// ValidationError reports a query field that failed validation. It is
// returned before any upstream call is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IsRetryable reports whether err is a failure worth retrying with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrThrottled) || errors.Is(err, ErrTransient)
}

// IsValidation reports whether err originated from query validation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
