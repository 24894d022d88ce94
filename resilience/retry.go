package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/astrokit/ninaclient/apierr"
	"github.com/astrokit/ninaclient/result"
)

// maxJitter bounds the random component added to each backoff sleep.
const maxJitter = time.Second

// randJitter is a hook so tests can pin the random component.
var randJitter = func() time.Duration { return rand.N(maxJitter) }

// RetryConfig defines the retry policy.
type RetryConfig struct {
	// MaxAttempts is the total number of invocations, including the first.
	MaxAttempts int
	// BaseDelay is doubled after every failed attempt: the sleep before
	// attempt n+1 is BaseDelay * 2^n plus jitter in [0, 1s).
	BaseDelay time.Duration
	// OnRetry, when set, is called before each backoff sleep with the
	// attempt index (0-based), the computed delay, and the failure.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Retry invokes op up to cfg.MaxAttempts times, sleeping an exponentially
// growing jittered delay between failing attempts. Failures classified as
// terminal propagate immediately without consuming remaining attempts;
// when attempts are exhausted the last failure is returned unchanged.
func Retry[T any](ctx context.Context, cfg RetryConfig, op func(context.Context) result.Result[T]) result.Result[T] {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var last result.Result[T]
	for attempt := 0; attempt < attempts; attempt++ {
		last = op(ctx)
		if last.IsOk() {
			return last
		}
		if !apierr.Retryable(last.Err()) {
			return last
		}
		if attempt == attempts-1 {
			break
		}

		delay := backoff(cfg.BaseDelay, attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay, last.Err())
		}

		select {
		case <-ctx.Done():
			return result.Err[T](apierr.Wrap(apierr.KindCanceled, "retry interrupted", ctx.Err()))
		case <-time.After(delay):
		}
	}

	return last
}

// backoff computes BaseDelay * 2^attempt plus random jitter.
func backoff(base time.Duration, attempt int) time.Duration {
	return base<<uint(attempt) + randJitter()
}
