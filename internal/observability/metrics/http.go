package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	retrievalTotal     *prometheus.CounterVec
	retrievalDocuments *prometheus.HistogramVec
	retrievalDuration  *prometheus.HistogramVec
	fenMatchTotal      *prometheus.CounterVec
	cacheRequestsTotal *prometheus.CounterVec
	storeDuration      *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ca",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ca",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ca",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	retrievalTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ca",
			Subsystem: "retrieval",
			Name:      "requests_total",
			Help:      "Total retrieval requests by executed strategy.",
		},
		[]string{"service", "strategy"},
	)
	retrievalDocuments := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ca",
			Subsystem: "retrieval",
			Name:      "documents",
			Help:      "Distribution of documents returned per retrieval.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 25},
		},
		[]string{"service", "strategy"},
	)
	retrievalDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ca",
			Subsystem: "retrieval",
			Name:      "duration_seconds",
			Help:      "Retrieval execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "strategy"},
	)
	fenMatchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ca",
			Subsystem: "retrieval",
			Name:      "fen_match_total",
			Help:      "Position matches by tier (exact, normalized, prefix, starting_position).",
		},
		[]string{"service", "tier"},
	)
	cacheRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ca",
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache lookups by cache name and result.",
		},
		[]string{"cache", "result"},
	)
	storeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ca",
			Subsystem: "store",
			Name:      "request_duration_seconds",
			Help:      "Document store request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		retrievalTotal,
		retrievalDocuments,
		retrievalDuration,
		fenMatchTotal,
		cacheRequestsTotal,
		storeDuration,
	)

	return &HTTPServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		retrievalTotal:     retrievalTotal,
		retrievalDocuments: retrievalDocuments,
		retrievalDuration:  retrievalDuration,
		fenMatchTotal:      fenMatchTotal,
		cacheRequestsTotal: cacheRequestsTotal,
		storeDuration:      storeDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := r.URL.Path
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordRetrieval captures one completed retrieval: strategy, returned
// document count and elapsed time.
func (m *HTTPServerMetrics) RecordRetrieval(service, strategy string, documentCount int, duration time.Duration) {
	if strategy == "" {
		strategy = "unknown"
	}
	m.retrievalTotal.WithLabelValues(service, strategy).Inc()
	m.retrievalDocuments.WithLabelValues(service, strategy).Observe(float64(documentCount))
	m.retrievalDuration.WithLabelValues(service, strategy).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordFENMatch(service, tier string) {
	if tier == "" {
		return
	}
	m.fenMatchTotal.WithLabelValues(service, tier).Inc()
}

// CacheCounter returns a per-cache hit/miss counter suitable for wiring
// into a cache instance.
func (m *HTTPServerMetrics) CacheCounter(cacheName string) *prometheus.CounterVec {
	return m.cacheRequestsTotal.MustCurryWith(prometheus.Labels{"cache": cacheName})
}

func (m *HTTPServerMetrics) ObserveStoreRequest(service, operation string, duration time.Duration) {
	m.storeDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
