package cache

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/starchart/pkg/errors"
)

// RetryableError marks a failure worth another attempt: an unreachable
// backend, a 5xx or a 429 from an upstream service.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return stderrors.As(err, &re)
}

// Backoff is an exponential retry policy.
type Backoff struct {
	Attempts int
	Delay    time.Duration // before the second attempt; doubles each time
	Max      time.Duration // cap on a single wait, including Retry-After
}

// DefaultBackoff is used for upstream fetches. Nominatim asks for at most
// one request per second, so the first wait is a full second.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, Max: 10 * time.Second}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. A rate limit with a Retry-After longer than the current
// delay waits that long instead.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var lastErr error

	for i := range attempts {
		lastErr = fn()
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}

		wait := delay
		var rl *errors.RateLimitedError
		if stderrors.As(lastErr, &rl) && time.Duration(rl.RetryAfter)*time.Second > wait {
			wait = time.Duration(rl.RetryAfter) * time.Second
		}
		if b.Max > 0 && wait > b.Max {
			wait = b.Max
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
	return lastErr
}

// RetryWithBackoff runs fn under DefaultBackoff.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Do(ctx, fn)
}
