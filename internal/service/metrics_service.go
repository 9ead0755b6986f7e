package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// scheduling engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	generationDuration prometheus.Histogram
	generatedSlots     prometheus.Counter
	generationsTotal   prometheus.Counter
	conflictsDetected  prometheus.Counter
	conflictChecks     prometheus.Counter
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
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_generation_duration_seconds",
		Help:    "Wall time spent generating a schedule proposal",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	generatedSlots := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_generated_slots_total",
		Help: "Total session slots produced by the generator",
	})

	generationsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_generations_total",
		Help: "Total schedule generation runs",
	})

	conflictsDetected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_conflicts_detected_total",
		Help: "Total conflicts reported by conflict checks",
	})

	conflictChecks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_conflict_checks_total",
		Help: "Total conflict check invocations",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		requestDuration, requestTotal,
		cacheLatency, cacheHits, cacheMisses,
		generationDuration, generatedSlots, generationsTotal,
		conflictsDetected, conflictChecks,
		goroutines,
	)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:           registry,
		handler:            handler,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLatency:       cacheLatency,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		generationDuration: generationDuration,
		generatedSlots:     generatedSlots,
		generationsTotal:   generationsTotal,
		conflictsDetected:  conflictsDetected,
		conflictChecks:     conflictChecks,
	}
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

// ObserveHTTPRequest records per-route request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveGeneration records one generator run.
func (m *MetricsService) ObserveGeneration(duration time.Duration, slots int) {
	if m == nil {
		return
	}
	m.generationDuration.Observe(duration.Seconds())
	m.generatedSlots.Add(float64(slots))
	m.generationsTotal.Inc()
}

// ObserveConflictCheck records one conflict check and the conflicts it found.
func (m *MetricsService) ObserveConflictCheck(conflicts int) {
	if m == nil {
		return
	}
	m.conflictChecks.Inc()
	m.conflictsDetected.Add(float64(conflicts))
}
