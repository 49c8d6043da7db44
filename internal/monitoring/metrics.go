package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "api_cost_tracker"

// Metrics records tracked-call counters on its own registry
type Metrics struct {
	enabled  bool
	registry *prometheus.Registry

	CallsTotal        *prometheus.CounterVec
	TokensTotal       *prometheus.CounterVec
	CostTotal         *prometheus.CounterVec
	UnknownModelTotal *prometheus.CounterVec
	CallDuration      *prometheus.HistogramVec
	SessionCost       prometheus.Gauge
	SessionCalls      prometheus.Gauge
	SessionResets     prometheus.Counter
}

// New creates metrics registered on a fresh registry. Disabled metrics accept
// every call and record nothing.
func New(enabled bool) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		enabled:  enabled,
		registry: registry,
		CallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Total number of priced API calls",
			},
			[]string{"provider", "model", "status"},
		),
		TokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_total",
				Help:      "Total number of tokens of successful calls",
			},
			[]string{"provider", "model", "direction"},
		),
		CostTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cost_usd_total",
				Help:      "Total cost in USD of successful calls",
			},
			[]string{"provider", "model"},
		),
		UnknownModelTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unknown_model_total",
				Help:      "Total number of calls for models missing from the rate table",
			},
			[]string{"provider", "model"},
		),
		CallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "call_duration_seconds",
				Help:      "Reported API call duration in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"provider", "model"},
		),
		SessionCost: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_cost_usd",
			Help:      "Accumulated session cost in USD since the last reset",
		}),
		SessionCalls: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_calls",
			Help:      "Number of successful calls since the last reset",
		}),
		SessionResets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_resets_total",
			Help:      "Total number of session resets",
		}),
	}
}

func (m *Metrics) isEnabled() bool {
	return m != nil && m.enabled
}

// RecordCall records a priced call. Tokens and cost are only counted for successful calls.
func (m *Metrics) RecordCall(provider, model, status string, success bool, inputTokens, outputTokens int, cost float64, duration time.Duration) {
	if !m.isEnabled() {
		return
	}

	m.CallsTotal.WithLabelValues(provider, model, status).Inc()
	if duration > 0 {
		m.CallDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
	}
	if !success {
		return
	}

	m.TokensTotal.WithLabelValues(provider, model, "input").Add(float64(max(inputTokens, 0)))
	m.TokensTotal.WithLabelValues(provider, model, "output").Add(float64(max(outputTokens, 0)))
	m.CostTotal.WithLabelValues(provider, model).Add(cost)
}

// RecordUnknownModel counts a call that could not be priced
func (m *Metrics) RecordUnknownModel(provider, model string) {
	if !m.isEnabled() {
		return
	}
	m.UnknownModelTotal.WithLabelValues(provider, model).Inc()
}

// UpdateSession publishes the current session totals
func (m *Metrics) UpdateSession(totalCalls int, totalCost float64) {
	if !m.isEnabled() {
		return
	}
	m.SessionCalls.Set(float64(totalCalls))
	m.SessionCost.Set(totalCost)
}

// RecordReset counts a session reset and zeroes the session gauges
func (m *Metrics) RecordReset() {
	if !m.isEnabled() {
		return
	}
	m.SessionResets.Inc()
	m.SessionCalls.Set(0)
	m.SessionCost.Set(0)
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
