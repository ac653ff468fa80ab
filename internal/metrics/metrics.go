// Package metrics exposes allocation and HTTP metrics for Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spigell/team-builder/internal/team"
)

// Manager owns a registry and the metrics registered on it.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	outcomes      *prometheus.CounterVec
	neededTotal   prometheus.Counter
	assignedTotal prometheus.Counter
	poolSize      prometheus.Gauge

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a Manager. Without WithRegistry a fresh registry is used
// so the default Go collectors are not exported.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "team_builder",
		subsystem:        "allocation",
		histogramBuckets: prometheus.DefBuckets,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total number of allocation runs by whether every quota was filled",
	}, []string{"filled"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Duration of allocation runs in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.outcomes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quotas_total",
		Help:      "Total number of processed skill quotas by status",
	}, []string{"status"})

	m.neededTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "needed_total",
		Help:      "Total headcount requested across all quotas",
	})

	m.assignedTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assigned_total",
		Help:      "Total candidates assigned across all quotas",
	})

	m.poolSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_size",
		Help:      "Number of candidates available to allocations",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordOutcome counts a processed quota.
func (m *Manager) RecordOutcome(outcome team.Outcome) {
	m.outcomes.WithLabelValues(string(outcome.Status)).Inc()
	m.neededTotal.Add(float64(outcome.Needed))
	m.assignedTotal.Add(float64(outcome.Assigned))
}

// RecordRun counts a finished run and observes its duration.
func (m *Manager) RecordRun(duration time.Duration, filled bool) {
	m.runs.WithLabelValues(strconv.FormatBool(filled)).Inc()
	m.runDuration.Observe(duration.Seconds())
}

// SetPoolSize reports the size of the candidate pool being served.
func (m *Manager) SetPoolSize(size int) {
	m.poolSize.Set(float64(size))
}

// RecordHTTPRequest counts a request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method string, statusCode int, duration time.Duration) {
	code := strconv.Itoa(statusCode)
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(duration.Seconds())
}

// Registry returns the registry metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
