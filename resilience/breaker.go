package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrCircuitOpen is returned when the breaker rejects a call outright.
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrProbeInFlight is returned to callers that race the half-open probe.
	ErrProbeInFlight = errors.New("circuit breaker probe in flight")
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerSettings configures the circuit breaker behavior
type BreakerSettings struct {
	// FailureThreshold is the number of consecutive failures that trips
	// the breaker while closed.
	FailureThreshold int
	// Cooldown is the period of the open state until a half-open probe
	// is permitted.
	Cooldown time.Duration
	// OnStateChange is called whenever the state changes
	OnStateChange func(name string, from State, to State)
	// DiscardOutcome, when set, marks failures that say nothing about the
	// remote service's health, such as caller-initiated cancellation.
	// Discarded outcomes count neither as success nor as failure.
	DiscardOutcome func(err error) bool
}

// Breaker implements the circuit breaker pattern. All state is mutated
// under a single lock; one breaker instance is shared across every call
// issued by a client for its whole lifetime.
type Breaker struct {
	name     string
	settings BreakerSettings

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// NewBreaker creates a new circuit breaker with the given settings
func NewBreaker(name string, settings BreakerSettings) *Breaker {
	if settings.FailureThreshold <= 0 {
		settings.FailureThreshold = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}

	return &Breaker{
		name:     name,
		settings: settings,
		state:    StateClosed,
	}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState(time.Now())
}

// Failures returns the current consecutive-failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Execute runs the given operation if the circuit breaker accepts it.
// While open it returns ErrCircuitOpen without invoking the operation;
// once the cooldown elapses a single probe is let through.
func (b *Breaker) Execute(op func() error) error {
	if err := b.beforeRequest(); err != nil {
		return err
	}

	err := op()
	if err != nil && b.settings.DiscardOutcome != nil && b.settings.DiscardOutcome(err) {
		b.discard()
		return err
	}
	b.afterRequest(err == nil)
	return err
}

// discard releases the half-open probe slot without recording an outcome.
func (b *Breaker) discard() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.currentState(time.Now()) == StateHalfOpen {
		b.probing = false
	}
}

// beforeRequest admits or rejects a call and claims the half-open probe slot.
func (b *Breaker) beforeRequest() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState(time.Now()) {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.probing {
			return ErrProbeInFlight
		}
		b.probing = true
	}
	return nil
}

// afterRequest records the outcome of an admitted call.
func (b *Breaker) afterRequest(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state := b.currentState(now)

	switch state {
	case StateClosed:
		if success {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.settings.FailureThreshold {
			b.setState(StateOpen, now)
		}
	case StateHalfOpen:
		b.probing = false
		if success {
			b.setState(StateClosed, now)
			return
		}
		b.setState(StateOpen, now)
	}
}

// currentState applies the open -> half-open transition once the cooldown
// has elapsed. Caller must hold the lock.
func (b *Breaker) currentState(now time.Time) State {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.settings.Cooldown {
		b.setState(StateHalfOpen, now)
	}
	return b.state
}

// setState changes the state of the circuit breaker. Caller must hold the lock.
func (b *Breaker) setState(state State, now time.Time) {
	if b.state == state {
		return
	}

	prev := b.state
	b.state = state

	switch state {
	case StateClosed:
		b.failures = 0
	case StateOpen:
		b.openedAt = now
	case StateHalfOpen:
		b.probing = false
	}

	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, prev, state)
	}
}
