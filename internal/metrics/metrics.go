// Package metrics exposes Prometheus instrumentation for provider calls,
// checks and the HTTP API.
//
// A nil *Metrics is valid and records nothing, so library users and tests do
// not need a registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "spellfix"

type Metrics struct {
	registry *prometheus.Registry

	// ProviderRequests counts provider attempts.
	// Labels: provider, outcome (ok, unavailable, rate_limited, malformed)
	ProviderRequests *prometheus.CounterVec

	// ProviderLatency measures one provider attempt.
	// Labels: provider
	ProviderLatency *prometheus.HistogramVec

	// Checks counts document checks.
	// Labels: status (ok, degraded)
	Checks *prometheus.CounterVec

	// Corrections counts corrections surfaced after validation.
	Corrections prometheus.Counter

	// Fallbacks counts chunks answered by the typo table or an empty set.
	// Labels: kind (failure kind)
	Fallbacks *prometheus.CounterVec

	// StaleResults counts check results discarded because the buffer moved on.
	StaleResults prometheus.Counter

	// Sessions tracks live editing sessions.
	Sessions prometheus.Gauge

	// HTTPRequests counts API requests.
	// Labels: method, route, status
	HTTPRequests *prometheus.CounterVec
}

// New registers all metrics on a fresh registry that also carries the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ProviderRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "provider", Name: "requests_total",
			Help: "Provider attempts by outcome.",
		}, []string{"provider", "outcome"}),
		ProviderLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "provider", Name: "request_duration_seconds",
			Help:    "Duration of one provider attempt.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"provider"}),
		Checks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "checks_total",
			Help: "Document checks by status.",
		}, []string{"status"}),
		Corrections: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "corrections_total",
			Help: "Corrections surfaced after validation.",
		}),
		Fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "fallbacks_total",
			Help: "Chunks answered without the provider.",
		}, []string{"kind"}),
		StaleResults: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "stale_results_total",
			Help: "Check results dropped because the text changed meanwhile.",
		}),
		Sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "sessions",
			Help: "Live editing sessions.",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "API requests.",
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

func (m *Metrics) ObserveProvider(provider, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(provider, outcome).Inc()
	m.ProviderLatency.WithLabelValues(provider).Observe(d.Seconds())
}

func (m *Metrics) ObserveCheck(degraded bool, corrections int) {
	if m == nil {
		return
	}
	status := "ok"
	if degraded {
		status = "degraded"
	}
	m.Checks.WithLabelValues(status).Inc()
	m.Corrections.Add(float64(corrections))
}

func (m *Metrics) ObserveFallback(kind string) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveStale() {
	if m == nil {
		return
	}
	m.StaleResults.Inc()
}

func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.Sessions.Set(float64(n))
}

func (m *Metrics) ObserveHTTP(method, route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
