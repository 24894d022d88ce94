package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrokit/ninaclient/apierr"
	"github.com/astrokit/ninaclient/result"
)

// pinJitter removes the random backoff component for deterministic timing.
func pinJitter(t *testing.T) {
	t.Helper()
	orig := randJitter
	randJitter = func() time.Duration { return 0 }
	t.Cleanup(func() { randJitter = orig })
}

func TestRetryExhaustsAttempts(t *testing.T) {
	pinJitter(t)

	calls := 0
	base := 10 * time.Millisecond
	start := time.Now()

	res := Retry(context.Background(), RetryConfig{MaxAttempts: 3, BaseDelay: base},
		func(ctx context.Context) result.Result[string] {
			calls++
			return result.Err[string](apierr.New(apierr.KindConnection, "refused"))
		})

	assert.Equal(t, 3, calls)
	assert.Equal(t, apierr.KindConnection, res.Kind())
	// Two sleeps: base*2^0 + base*2^1.
	assert.GreaterOrEqual(t, time.Since(start), 3*base)
}

func TestRetryShortCircuitsOnTerminalFailure(t *testing.T) {
	calls := 0
	start := time.Now()

	res := Retry(context.Background(), RetryConfig{MaxAttempts: 5, BaseDelay: time.Second},
		func(ctx context.Context) result.Result[int] {
			calls++
			return result.Err[int](apierr.New(apierr.KindCanceled, "aborted"))
		})

	assert.Equal(t, 1, calls)
	assert.Equal(t, apierr.KindCanceled, res.Kind())
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	pinJitter(t)

	calls := 0
	res := Retry(context.Background(), RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond},
		func(ctx context.Context) result.Result[string] {
			calls++
			if calls < 3 {
				return result.Err[string](apierr.New(apierr.KindAPI, "not yet"))
			}
			return result.Ok("done")
		})

	assert.Equal(t, 3, calls)
	value, err := res.Value()
	require.NoError(t, err)
	assert.Equal(t, "done", value)
}

func TestRetryReturnsLastFailureUnchanged(t *testing.T) {
	pinJitter(t)

	last := apierr.New(apierr.KindAPI, "final failure")
	res := Retry(context.Background(), RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond},
		func(ctx context.Context) result.Result[int] {
			return result.Err[int](last)
		})

	assert.Same(t, error(last), res.Err())
}

func TestRetryCancellationDuringBackoff(t *testing.T) {
	pinJitter(t)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	res := Retry(ctx, RetryConfig{MaxAttempts: 3, BaseDelay: time.Minute},
		func(ctx context.Context) result.Result[int] {
			calls++
			return result.Err[int](apierr.New(apierr.KindConnection, "refused"))
		})

	assert.Equal(t, 1, calls)
	assert.Equal(t, apierr.KindCanceled, res.Kind())
}

func TestRetryCallsOnRetryHook(t *testing.T) {
	pinJitter(t)

	var delays []time.Duration
	base := time.Millisecond

	Retry(context.Background(), RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   base,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			delays = append(delays, delay)
		},
	}, func(ctx context.Context) result.Result[int] {
		return result.Err[int](apierr.New(apierr.KindConnection, "refused"))
	})

	require.Len(t, delays, 2)
	assert.Equal(t, base, delays[0])
	assert.Equal(t, 2*base, delays[1])
}

func TestBackoffJitterRange(t *testing.T) {
	base := 10 * time.Millisecond
	for i := 0; i < 100; i++ {
		d := backoff(base, 1)
		assert.GreaterOrEqual(t, d, 2*base)
		assert.Less(t, d, 2*base+maxJitter)
	}
}
