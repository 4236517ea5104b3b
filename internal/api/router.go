package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caiobertoldo/living-portfolio/internal/observability"
	"github.com/caiobertoldo/living-portfolio/internal/portfolio"
	"github.com/caiobertoldo/living-portfolio/internal/settings"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Source   portfolio.DataSource
	Store    settings.Store
	Baseline portfolio.Baseline

	// Upstream is probed by /api/health; nil skips the probe
	Upstream HealthChecker

	CORSOrigins    []string
	AllowAllOrigin bool
}

// RouterResult holds the router and resources that need cleanup
type RouterResult struct {
	Router       *chi.Mux
	RateLimiters *RateLimiters
	Handler      *PortfolioHandler
}

// NewRouter creates and configures the HTTP router.
// Caller must call result.RateLimiters.Stop() on shutdown.
func NewRouter(cfg *RouterConfig) *RouterResult {
	r := chi.NewRouter()

	rateLimiters := NewRateLimiters()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(NewCORSMiddleware(cfg.CORSOrigins, cfg.AllowAllOrigin))
	r.Use(observability.MetricsMiddleware)
	r.Use(rateLimiters.Global.Middleware)

	checks := map[string]HealthChecker{}
	if cfg.Upstream != nil {
		checks["github"] = cfg.Upstream
	}
	r.Handle("/metrics", promhttp.Handler())

	h := NewPortfolioHandler(cfg.Source, cfg.Store, cfg.Baseline)

	r.Get("/", h.Page)
	r.With(rateLimiters.PDF.Middleware).Get("/download-pdf", h.DownloadPDF)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", NewHealthHandler(checks))
		r.Get("/github", h.GitHub)
		r.Get("/heatmap", h.Heatmap)
		r.Get("/comparison", h.Comparison)
		r.Get("/get-repos", h.Repos)
		r.Post("/save-config", h.SaveConfig)
	})

	return &RouterResult{
		Router:       r,
		RateLimiters: rateLimiters,
		Handler:      h,
	}
}
