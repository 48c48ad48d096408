package httphandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exported at /metrics. All methods
// are safe to call on a nil *Metrics.
type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	submitted   prometheus.Counter
	busyRetries prometheus.Counter
}

// NewMetrics creates a Metrics with its own registry, including the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "echochamber",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "echochamber",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "echochamber",
			Name:      "suggestions_submitted_total",
			Help:      "Suggestions stored successfully.",
		}),
		busyRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "echochamber",
			Subsystem: "store",
			Name:      "busy_retries_total",
			Help:      "Insert retries caused by a locked database.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.submitted,
		m.busyRetries,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// ObserveRetry counts one busy-database retry. Its signature matches
// application.RetryObserver.
func (m *Metrics) ObserveRetry(_ error, _ time.Duration) {
	if m == nil {
		return
	}
	m.busyRetries.Inc()
}

func (m *Metrics) suggestionSubmitted() {
	if m == nil {
		return
	}
	m.submitted.Inc()
}

// middleware records request counts and latency labelled by the matched
// ServeMux pattern rather than the raw path, keeping label cardinality fixed.
func (m *Metrics) middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
