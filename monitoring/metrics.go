// Package monitoring exposes Prometheus metrics for the client: request
// outcomes, retry and breaker activity, and event socket health. All
// record methods are nil-safe so instrumentation stays optional.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// REST metrics
	RequestsTotal *prometheus.CounterVec
	RetriesTotal  *prometheus.CounterVec

	// Circuit breaker metrics
	BreakerTransitions *prometheus.CounterVec

	// Event socket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec
	WSReconnects  *prometheus.CounterVec
	WSDropped     *prometheus.CounterVec
}

// New creates a metrics collector registered against reg. A nil registerer
// falls back to the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ninaclient_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"endpoint", "outcome"},
		),
		RetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ninaclient_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"kind"},
		),
		BreakerTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ninaclient_breaker_transitions_total",
				Help: "Total number of circuit breaker state transitions",
			},
			[]string{"from", "to"},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ninaclient_ws_connections",
				Help: "Number of open event socket channels",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ninaclient_ws_messages_total",
				Help: "Total number of event socket messages",
			},
			[]string{"channel", "direction"},
		),
		WSReconnects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ninaclient_ws_reconnects_total",
				Help: "Total number of channel reconnect attempts",
			},
			[]string{"channel", "outcome"},
		),
		WSDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ninaclient_ws_dropped_total",
				Help: "Total number of inbound messages dropped on a full queue",
			},
			[]string{"channel"},
		),
	}
}

// RecordRequest records an API request outcome.
func (m *Metrics) RecordRequest(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// RecordRetry records a retry attempt classified by failure kind.
func (m *Metrics) RecordRetry(kind string) {
	if m == nil {
		return
	}
	m.RetriesTotal.WithLabelValues(kind).Inc()
}

// RecordBreakerTransition records a breaker state change.
func (m *Metrics) RecordBreakerTransition(from, to string) {
	if m == nil {
		return
	}
	m.BreakerTransitions.WithLabelValues(from, to).Inc()
}

// IncWSConnections increments the open channel gauge.
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
}

// DecWSConnections decrements the open channel gauge.
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
}

// RecordWSMessage records an event socket message.
func (m *Metrics) RecordWSMessage(channel, direction string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(channel, direction).Inc()
}

// RecordWSReconnect records a reconnect attempt outcome.
func (m *Metrics) RecordWSReconnect(channel, outcome string) {
	if m == nil {
		return
	}
	m.WSReconnects.WithLabelValues(channel, outcome).Inc()
}

// RecordWSDropped records a message dropped on queue overflow.
func (m *Metrics) RecordWSDropped(channel string) {
	if m == nil {
		return
	}
	m.WSDropped.WithLabelValues(channel).Inc()
}
