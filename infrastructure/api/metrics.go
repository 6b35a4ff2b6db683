package api

import (
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics owned by the HTTP server.
// Registration happens against an injected registry so tests stay
// hermetic.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	durationSeconds *prometheus.HistogramVec
	askTotal        *prometheus.CounterVec
}

// NewMetrics registers all server metrics against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewrag",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests handled, partitioned by method, path, and status code.",
		}, []string{"method", "path", "code"}),

		durationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reviewrag",
			Subsystem: "http",
			Name:      "duration_seconds",
			Help:      "Latency of HTTP requests handled by the server.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		askTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewrag",
			Subsystem: "ask",
			Name:      "requests_total",
			Help:      "Completed ask pipeline runs, partitioned by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveAsk records the outcome of one ask pipeline run.
func (m *Metrics) ObserveAsk(outcome string) {
	m.askTotal.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latencies for every route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		m.requestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(ww.Status())).Inc()
		m.durationSeconds.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}
