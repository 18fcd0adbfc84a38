// Package metrics provides the Prometheus collectors of futsalmetrics.
//
// All recording methods are safe on a nil *Manager, so components can take
// an optional manager without guarding every call.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"
	CacheError = "error"
)

// Manager owns every collector of the process.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	cacheLookups        *prometheus.CounterVec
	upstreamRequests    *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates and registers the collectors. Without
// WithPrometheusRegistry they land on prometheus.DefaultRegisterer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "futsal",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Read-through cache lookups by result (hit, miss, stale, error)",
	}, []string{"result"})

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Requests sent to the FIFA API by endpoint and HTTP status",
	}, []string{"endpoint", "status"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served by route, method and status",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})
}

// RecordCacheLookup counts one cache lookup outcome.
func (m *Manager) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// RecordUpstreamRequest counts one FIFA API call. status 0 means the request
// failed before a response arrived.
func (m *Manager) RecordUpstreamRequest(endpoint string, status int) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, statusLabel(status)).Inc()
}

// RecordHTTPRequest counts a served request and observes its latency.
func (m *Manager) RecordHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, statusLabel(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}
