// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bananaquest"

// Result labels.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	scoreSubmissions *prometheus.CounterVec
	bestScoreUpdates prometheus.Counter
	puzzleFetches    *prometheus.CounterVec
	puzzleDuration   prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scoreSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_submissions_total",
			Help:      "Score submissions by result.",
		}, []string{"result"}),
		bestScoreUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "best_score_updates_total",
			Help:      "Submissions that created or raised a best score.",
		}),
		puzzleFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "puzzle_fetches_total",
			Help:      "Upstream puzzle fetches by result.",
		}, []string{"result"}),
		puzzleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "puzzle_fetch_duration_seconds",
			Help:      "Upstream puzzle fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.scoreSubmissions,
		m.bestScoreUpdates,
		m.puzzleFetches,
		m.puzzleDuration,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ScoreSubmitted(result string, bestScoreUpdated bool) {
	m.scoreSubmissions.WithLabelValues(result).Inc()
	if bestScoreUpdated {
		m.bestScoreUpdates.Inc()
	}
}

func (m *Metrics) PuzzleFetched(result string, took time.Duration) {
	m.puzzleFetches.WithLabelValues(result).Inc()
	m.puzzleDuration.Observe(took.Seconds())
}

func (m *Metrics) HTTPRequest(method, route string, status int, took time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
