// Package metrics exposes Prometheus collectors for the HTTP layer and the
// dataset cache. All methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dataapp"

// Metrics owns a private registry so tests can create as many as they like
type Metrics struct {
	Registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	generations *prometheus.CounterVec
	rows        *prometheus.GaugeVec
	genSeconds  *prometheus.HistogramVec
	viewCache   *prometheus.CounterVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_generations_total",
			Help:      "Times each dataset was generated.",
		}, []string{"dataset"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in each cached dataset.",
		}, []string{"dataset"}),
		genSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_generation_seconds",
			Help:      "Time spent generating each dataset.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"dataset"}),
		viewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_cache_total",
			Help:      "Employee view cache lookups by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.requests,
		m.duration,
		m.generations,
		m.rows,
		m.genSeconds,
		m.viewCache,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Middleware records request counts and latency keyed by the chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveGeneration records one dataset generation
func (m *Metrics) ObserveGeneration(dataset string, rows int, took time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(dataset).Inc()
	m.rows.WithLabelValues(dataset).Set(float64(rows))
	m.genSeconds.WithLabelValues(dataset).Observe(took.Seconds())
}

// ViewCacheHit counts a derived-view cache hit
func (m *Metrics) ViewCacheHit() {
	if m == nil {
		return
	}
	m.viewCache.WithLabelValues("hit").Inc()
}

// ViewCacheMiss counts a derived-view cache miss
func (m *Metrics) ViewCacheMiss() {
	if m == nil {
		return
	}
	m.viewCache.WithLabelValues("miss").Inc()
}
