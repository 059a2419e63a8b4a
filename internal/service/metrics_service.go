package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the grid API.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	cacheLatency     prometheus.Observer
	cacheWrite       prometheus.Observer
	cacheHitRatio    prometheus.Gauge
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	gridEvents       *prometheus.CounterVec
	submissions      *prometheus.CounterVec
	activeSessions   prometheus.Gauge
	scheduleRevision prometheus.Gauge
	rateLimited      prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "grid_cache_latency_seconds",
		Help:    "Latency for grid view cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "grid_cache_write_seconds",
		Help:    "Latency for grid view cache writes",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "grid_cache_hit_ratio",
		Help: "Ratio of grid view cache hits to total lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grid_cache_hits_total",
		Help: "Total grid view cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grid_cache_misses_total",
		Help: "Total grid view cache misses",
	})

	gridEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grid_events_total",
		Help: "Grid pointer and keyboard events by role, event and outcome",
	}, []string{"role", "event", "applied"})

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "availability_submissions_total",
		Help: "Saved availability forms by role and outcome",
	}, []string{"role", "outcome"})

	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "grid_sessions_active",
		Help: "Open page sessions",
	})

	scheduleRevision := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_revision",
		Help: "Revision of the shared admin settings",
	})

	rateLimited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grid_events_rate_limited_total",
		Help: "Grid events rejected by the per-session limiter",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		gridEvents, submissions, activeSessions, scheduleRevision, rateLimited, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheLatency:     cacheLatency,
		cacheWrite:       cacheWrite,
		cacheHitRatio:    cacheHitRatio,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		gridEvents:       gridEvents,
		submissions:      submissions,
		activeSessions:   activeSessions,
		scheduleRevision: scheduleRevision,
		rateLimited:      rateLimited,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveGridEvent counts a press, enter, release or toggle.
func (m *MetricsService) ObserveGridEvent(role, event string, applied bool) {
	if m == nil {
		return
	}
	m.gridEvents.WithLabelValues(role, event, fmt.Sprintf("%t", applied)).Inc()
}

// ObserveSubmission counts a saved or rejected availability form.
func (m *MetricsService) ObserveSubmission(role, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(role, outcome).Inc()
}

// SetActiveSessions publishes the number of open sessions.
func (m *MetricsService) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

// SetScheduleRevision publishes the shared settings revision.
func (m *MetricsService) SetScheduleRevision(rev uint64) {
	if m == nil {
		return
	}
	m.scheduleRevision.Set(float64(rev))
}

// IncRateLimited counts a throttled grid event.
func (m *MetricsService) IncRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
