package api

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/caiobertoldo/living-portfolio/internal/github"
	"github.com/caiobertoldo/living-portfolio/internal/observability"
	"github.com/caiobertoldo/living-portfolio/internal/portfolio"
	"github.com/caiobertoldo/living-portfolio/internal/report"
	"github.com/caiobertoldo/living-portfolio/internal/settings"
)

// PortfolioHandler serves the page, the PDF and the JSON views of one account
type PortfolioHandler struct {
	source   portfolio.DataSource
	store    settings.Store
	baseline portfolio.Baseline
	now      func() time.Time
	newRand  func() *rand.Rand
}

// NewPortfolioHandler creates a portfolio handler
func NewPortfolioHandler(source portfolio.DataSource, store settings.Store, baseline portfolio.Baseline) *PortfolioHandler {
	if store == nil {
		store = settings.NopStore{}
	}
	return &PortfolioHandler{
		source:   source,
		store:    store,
		baseline: baseline,
		now:      time.Now,
		newRand:  portfolio.NewRand,
	}
}

// GitHubResponse is the body of GET /api/github
type GitHubResponse struct {
	User             *github.User                `json:"user"`
	Stats            GitHubStats                 `json:"stats"`
	FeaturedProjects []portfolio.FeaturedProject `json:"featured_projects"`
}

// GitHubStats is the stats block of GitHubResponse
type GitHubStats struct {
	Languages  portfolio.LanguageStats `json:"languages"`
	TotalRepos int                     `json:"total_repos"`
}

// SaveConfigResponse is the body of POST /api/save-config
type SaveConfigResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Page handles GET /
func (h *PortfolioHandler) Page(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	summary := portfolio.Collect(r.Context(), h.source, now, h.newRand(), h.baseline)

	html, err := report.RenderPage(report.BuildPage(summary, h.source.Account(), settings.NewDefaults(), now))
	if err != nil {
		slog.Error("Failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

// GitHub handles GET /api/github
func (h *PortfolioHandler) GitHub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, _ := h.source.Profile(ctx)
	repos := h.source.Repositories(ctx)

	respondJSON(w, http.StatusOK, GitHubResponse{
		User: profile,
		Stats: GitHubStats{
			Languages:  portfolio.ComputeLanguageStats(repos),
			TotalRepos: len(repos),
		},
		FeaturedProjects: portfolio.SelectFeatured(repos),
	})
}

// DownloadPDF handles GET /download-pdf. It is the one endpoint that fails
// hard when the profile is unavailable.
func (h *PortfolioHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, ok := h.source.Profile(ctx)
	if !ok {
		http.Error(w, "Failed to generate PDF: profile unavailable", http.StatusInternalServerError)
		return
	}
	repos := h.source.Repositories(ctx)
	now := h.now()

	data, err := report.RenderPDF(report.Document{
		Profile:     profile,
		Languages:   portfolio.ComputeLanguageStats(repos),
		Featured:    portfolio.SelectFeatured(repos),
		GeneratedAt: now,
	})
	if err != nil {
		slog.Error("Failed to render PDF", "error", err)
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}
	observability.PDFGeneratedTotal.Inc()

	filename := report.PDFFilename(h.source.Account(), now)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Heatmap handles GET /api/heatmap
func (h *PortfolioHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	events, ok := h.source.RecentEvents(r.Context())
	cells, synthetic := portfolio.Heatmap(events, ok, h.now(), h.newRand())
	portfolio.RecordHeatmapFallback(synthetic)

	respondJSON(w, http.StatusOK, cells)
}

// Comparison handles GET /api/comparison
func (h *PortfolioHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, _ := h.source.Profile(ctx)
	repos := h.source.Repositories(ctx)

	respondJSON(w, http.StatusOK, portfolio.Compare(profile, repos, h.baseline))
}

// Repos handles GET /api/get-repos
func (h *PortfolioHandler) Repos(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, portfolio.SummarizeRepos(h.source.Repositories(r.Context())))
}

// SaveConfig handles POST /api/save-config
func (h *PortfolioHandler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	prefs, err := settings.Decode(r.Body)
	switch {
	case errors.Is(err, settings.ErrEmptyConfig):
		respondJSON(w, http.StatusBadRequest, SaveConfigResponse{Error: "No configuration provided"})
		return
	case errors.Is(err, settings.ErrInvalidConfig):
		respondJSON(w, http.StatusBadRequest, SaveConfigResponse{Error: err.Error()})
		return
	case err != nil:
		slog.Error("Failed to read configuration", "error", err)
		respondJSON(w, http.StatusInternalServerError, SaveConfigResponse{Error: "Failed to read configuration"})
		return
	}

	if err := h.store.Save(r.Context(), prefs); err != nil {
		slog.Error("Failed to save configuration", "error", err)
		respondJSON(w, http.StatusInternalServerError, SaveConfigResponse{Error: "Failed to save configuration"})
		return
	}

	respondJSON(w, http.StatusOK, SaveConfigResponse{Success: true, Message: "Configuration saved successfully"})
}
