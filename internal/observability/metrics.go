package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// UpstreamFetchTotal counts GitHub fetches by resource (profile, repos, events)
	// and result (ok, error).
	UpstreamFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_upstream_fetch_total",
			Help: "GitHub API fetches by resource and result",
		},
		[]string{"resource", "result"},
	)

	HeatmapFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_heatmap_fallback_total",
			Help: "Heatmaps generated synthetically because events were unavailable",
		},
	)

	PDFGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_pdf_generated_total",
			Help: "PDF reports rendered",
		},
	)
)

// UnmatchedRoute is the path label for requests no route matched
const UnmatchedRoute = "unmatched"

// MetricsMiddleware records request counts and latency. The path label is
// the chi route pattern, or UnmatchedRoute, never the raw URL.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := UnmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HttpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		HttpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
