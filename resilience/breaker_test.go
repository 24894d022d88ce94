package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFailed = errors.New("failed")

func failN(b *Breaker, n int) {
	for i := 0; i < n; i++ {
		_ = b.Execute(func() error { return errFailed })
	}
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		settings      BreakerSettings
		outcomes      []bool // true = success, false = failure
		expectedState State
	}{
		{
			name:          "stays closed on successes",
			settings:      BreakerSettings{FailureThreshold: 3, Cooldown: time.Minute},
			outcomes:      []bool{true, true, true},
			expectedState: StateClosed,
		},
		{
			name:          "opens after consecutive failures",
			settings:      BreakerSettings{FailureThreshold: 3, Cooldown: time.Minute},
			outcomes:      []bool{false, false, false},
			expectedState: StateOpen,
		},
		{
			name:          "success resets the failure count",
			settings:      BreakerSettings{FailureThreshold: 3, Cooldown: time.Minute},
			outcomes:      []bool{false, false, true, false, false},
			expectedState: StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker := NewBreaker("test", tt.settings)

			for _, success := range tt.outcomes {
				_ = breaker.Execute(func() error {
					if success {
						return nil
					}
					return errFailed
				})
			}

			assert.Equal(t, tt.expectedState, breaker.State())
		})
	}
}

func TestBreakerOpensAtThreshold(t *testing.T) {
	breaker := NewBreaker("test", BreakerSettings{FailureThreshold: 5, Cooldown: time.Minute})

	failN(breaker, 5)
	assert.Equal(t, StateOpen, breaker.State())

	// The next call is rejected without invoking the operation.
	invoked := false
	err := breaker.Execute(func() error {
		invoked = true
		return nil
	})
	assert.Equal(t, ErrCircuitOpen, err)
	assert.False(t, invoked)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	breaker := NewBreaker("test", BreakerSettings{FailureThreshold: 2, Cooldown: 20 * time.Millisecond})

	failN(breaker, 2)
	assert.Equal(t, StateOpen, breaker.State())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, breaker.State())

	// Successful probe closes the breaker and resets the failure count.
	require.NoError(t, breaker.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, 0, breaker.Failures())
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	breaker := NewBreaker("test", BreakerSettings{FailureThreshold: 2, Cooldown: 20 * time.Millisecond})

	failN(breaker, 2)
	time.Sleep(30 * time.Millisecond)

	// Failed probe returns to open and restarts the cooldown clock.
	err := breaker.Execute(func() error { return errFailed })
	assert.Equal(t, errFailed, err)
	assert.Equal(t, StateOpen, breaker.State())

	// Cooldown has restarted: the very next call is still rejected.
	err = breaker.Execute(func() error { return nil })
	assert.Equal(t, ErrCircuitOpen, err)

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, breaker.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerStateChangeCallback(t *testing.T) {
	var transitions []string

	breaker := NewBreaker("test", BreakerSettings{
		FailureThreshold: 2,
		Cooldown:         10 * time.Millisecond,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	failN(breaker, 2)
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, breaker.Execute(func() error { return nil }))

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestBreakerDiscardedOutcomesDoNotCount(t *testing.T) {
	errAborted := errors.New("aborted by caller")
	breaker := NewBreaker("test", BreakerSettings{
		FailureThreshold: 2,
		Cooldown:         20 * time.Millisecond,
		DiscardOutcome:   func(err error) bool { return errors.Is(err, errAborted) },
	})

	// Discarded failures never accumulate toward the threshold.
	for i := 0; i < 5; i++ {
		err := breaker.Execute(func() error { return errAborted })
		assert.Equal(t, errAborted, err)
	}
	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, 0, breaker.Failures())

	// Counted failures still trip the breaker.
	failN(breaker, 2)
	require.Equal(t, StateOpen, breaker.State())

	// A discarded probe releases the slot without changing state.
	time.Sleep(30 * time.Millisecond)
	_ = breaker.Execute(func() error { return errAborted })
	assert.Equal(t, StateHalfOpen, breaker.State())

	require.NoError(t, breaker.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerFailureCountSnapshot(t *testing.T) {
	breaker := NewBreaker("test", BreakerSettings{FailureThreshold: 5, Cooldown: time.Minute})

	failN(breaker, 3)
	assert.Equal(t, 3, breaker.Failures())
	assert.Equal(t, StateClosed, breaker.State())

	require.NoError(t, breaker.Execute(func() error { return nil }))
	assert.Equal(t, 0, breaker.Failures())
}
