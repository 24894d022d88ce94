package transport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/astrokit/ninaclient/apierr"
	"github.com/astrokit/ninaclient/config"
	"github.com/astrokit/ninaclient/logging"
	"github.com/astrokit/ninaclient/monitoring"
)

// Client wraps resty with rate limiting and Result-typed response mapping.
// Retries and circuit breaking live above it in the resilience executor.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// New creates the HTTP client. Connection pooling comes from the
// retryablehttp transport; its retry layer is disabled because retry
// decisions are made on classified Results, not raw transport errors.
func New(cfg config.APIConfig, log *logging.Logger, metrics *monitoring.Metrics) *Client {
	if log == nil {
		log = logging.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	if t, ok := retryClient.HTTPClient.Transport.(*http.Transport); ok {
		dialer := &net.Dialer{Timeout: cfg.ConnectTimeout()}
		t.DialContext = dialer.DialContext
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.RequestTimeout()).
		SetHeader("User-Agent", "ninaclient/1.0").
		SetTransport(retryClient.HTTPClient.Transport)

	if cfg.APIKey != "" {
		restyClient.SetHeader("X-API-Key", cfg.APIKey)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)+1)
	}

	return &Client{
		resty:   restyClient,
		limiter: limiter,
		log:     log.Named("transport"),
		metrics: metrics,
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.resty.BaseURL
}

// request waits for the rate limiter and prepares a resty request.
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apierr.Wrap(apierr.KindCanceled, "rate limiter wait aborted", err)
	}
	return c.resty.R().SetContext(ctx), nil
}

// classify maps a transport-level error to the failure taxonomy. User
// cancellation is distinguished from timeouts: a deadline hit is a
// connection failure and retryable, an explicit cancel is not.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled {
		return apierr.Wrap(apierr.KindCanceled, "request canceled", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apierr.Wrap(apierr.KindConnection, "request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierr.Wrap(apierr.KindConnection, "request timed out", err)
	}
	return apierr.Wrap(apierr.KindConnection, "connection failed", err)
}

// outcome labels a result for metrics.
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return apierr.KindOf(err).String()
}
