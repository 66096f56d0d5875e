package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	reqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journalmate_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	reqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "journalmate_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(reqCount, reqDuration)
}

// Metrics records request counts and latency. Uses the chi route pattern as
// the path label so per-ID URLs do not explode cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}

		reqCount.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
		reqDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
