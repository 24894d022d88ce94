// Package nina is the typed client for the Advanced API. Every operation
// returns a Result and runs through the shared resilience executor; no
// exceptions escape the public surface under normal failure conditions.
package nina

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/astrokit/ninaclient/apierr"
	"github.com/astrokit/ninaclient/config"
	"github.com/astrokit/ninaclient/logging"
	"github.com/astrokit/ninaclient/monitoring"
	"github.com/astrokit/ninaclient/resilience"
	"github.com/astrokit/ninaclient/result"
	"github.com/astrokit/ninaclient/transport"
)

// Client is the top-level API client. Create one per target instance; the
// retry policy and circuit breaker live for the client's lifetime and are
// shared by every call.
type Client struct {
	cfg     *config.Config
	log     *logging.Logger
	metrics *monitoring.Metrics
	http    *transport.Client
	exec    *resilience.Executor
	breaker *resilience.Breaker

	disposed atomic.Bool
}

// Option customizes client construction.
type Option func(*Client)

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithMetrics attaches a metrics collector. Defaults to none.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client from the given configuration.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logging.NewNop()
	}

	if cfg.Breaker.Enabled {
		c.breaker = resilience.NewBreaker("nina-api", resilience.BreakerSettings{
			FailureThreshold: cfg.Breaker.FailureThreshold,
			Cooldown:         cfg.Breaker.Cooldown(),
			// A canceled call says nothing about remote health.
			DiscardOutcome: func(err error) bool {
				return apierr.Is(err, apierr.KindCanceled)
			},
			OnStateChange: func(name string, from, to resilience.State) {
				c.metrics.RecordBreakerTransition(from.String(), to.String())
				c.log.Warn("circuit breaker state change",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
	}

	retry := resilience.RetryConfig{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay(),
		OnRetry: func(attempt int, delay time.Duration, err error) {
			c.metrics.RecordRetry(outcomeKind(err))
			c.log.Debug("retrying after failure",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
		},
	}

	c.http = transport.New(cfg.API, c.log, c.metrics)
	c.exec = resilience.NewExecutor(retry, c.breaker, &c.disposed)
	return c, nil
}

// Close tears the client down. Calls issued afterwards fail immediately
// with a disposed error. Close is idempotent.
func (c *Client) Close() {
	if c.disposed.CompareAndSwap(false, true) {
		c.log.Debug("client closed")
	}
}

// Diagnostics is a read-only snapshot of the client's health surface.
type Diagnostics struct {
	Disposed       bool
	BaseURL        string
	RequestTimeout time.Duration
	BreakerEnabled bool
	CircuitState   resilience.State
	FailureCount   int
}

// Diagnostics returns the current snapshot.
func (c *Client) Diagnostics() Diagnostics {
	d := Diagnostics{
		Disposed:       c.disposed.Load(),
		BaseURL:        c.http.BaseURL(),
		RequestTimeout: c.cfg.API.RequestTimeout(),
		BreakerEnabled: c.breaker != nil,
	}
	if c.breaker != nil {
		d.CircuitState = c.breaker.State()
		d.FailureCount = c.breaker.Failures()
	}
	return d
}

// get runs a GET operation through the resilience executor.
func get[T any](ctx context.Context, c *Client, endpoint string, params url.Values) result.Result[T] {
	return resilience.Execute(ctx, c.exec, func(ctx context.Context) result.Result[T] {
		return transport.GetJSON[T](ctx, c.http, endpoint, params)
	})
}

// post runs the API's one POST operation through the resilience executor.
func post[T any](ctx context.Context, c *Client, endpoint string, body any) result.Result[T] {
	return resilience.Execute(ctx, c.exec, func(ctx context.Context) result.Result[T] {
		return transport.PostJSON[T](ctx, c.http, endpoint, body)
	})
}

// getBytes runs a binary GET through the resilience executor.
func getBytes(ctx context.Context, c *Client, endpoint string, params url.Values) result.Result[[]byte] {
	return resilience.Execute(ctx, c.exec, func(ctx context.Context) result.Result[[]byte] {
		return transport.GetBytes(ctx, c.http, endpoint, params)
	})
}

func outcomeKind(err error) string {
	return apierr.KindOf(err).String()
}
