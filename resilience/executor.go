package resilience

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/astrokit/ninaclient/apierr"
	"github.com/astrokit/ninaclient/result"
)

// Executor is the single choke point for outbound calls: it rejects calls
// on a disposed client, applies the retry policy, and drives the optional
// circuit breaker with the outcome of the whole retry sequence. One
// executor is created per client and shared by every operation.
type Executor struct {
	retry    RetryConfig
	breaker  *Breaker // nil when the breaker is disabled
	disposed *atomic.Bool
}

// NewExecutor creates an executor. breaker may be nil; disposed is the
// owning client's teardown flag and must not be nil.
func NewExecutor(retry RetryConfig, breaker *Breaker, disposed *atomic.Bool) *Executor {
	return &Executor{
		retry:    retry,
		breaker:  breaker,
		disposed: disposed,
	}
}

// Breaker returns the executor's circuit breaker, or nil.
func (e *Executor) Breaker() *Breaker {
	return e.breaker
}

// Execute runs op through the retry policy and the circuit breaker. A
// breaker-counted failure only occurs after retries are exhausted: the
// breaker sees one outcome per call, not one per attempt. While the
// breaker is open the retry sequence is not started at all.
func Execute[T any](ctx context.Context, e *Executor, op func(context.Context) result.Result[T]) result.Result[T] {
	if e.disposed.Load() {
		return result.Err[T](apierr.New(apierr.KindDisposed, "client is closed"))
	}

	if e.breaker == nil {
		return Retry(ctx, e.retry, op)
	}

	var res result.Result[T]
	invoked := false
	err := e.breaker.Execute(func() error {
		invoked = true
		res = Retry(ctx, e.retry, op)
		return res.Err()
	})

	if !invoked {
		if errors.Is(err, ErrProbeInFlight) {
			return result.Err[T](apierr.Wrap(apierr.KindCircuitOpen, "recovery probe in flight", err))
		}
		return result.Err[T](apierr.Wrap(apierr.KindCircuitOpen, "circuit breaker is open", err))
	}
	return res
}
