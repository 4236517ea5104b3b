package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/caiobertoldo/living-portfolio/internal/github"
	"github.com/caiobertoldo/living-portfolio/internal/portfolio"
	"github.com/caiobertoldo/living-portfolio/internal/settings"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var metricLabels = map[string]string{
	portfolio.MetricRepos:          "Repositories",
	portfolio.MetricFollowers:      "Followers",
	portfolio.MetricStarsTotal:     "Total stars",
	portfolio.MetricLanguagesCount: "Languages",
}

var pageTmpl = template.Must(
	template.New("index.html.tmpl").
		Funcs(template.FuncMap{
			"metricLabel": func(key string) string { return metricLabels[key] },
			"pct":         func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
			"signedPct":   func(v float64) string { return fmt.Sprintf("%+.1f%%", v) },
		}).
		ParseFS(templatesFS, "templates/index.html.tmpl"),
)

// PageContext is everything the portfolio page template renders
type PageContext struct {
	User         *github.User
	ProfileFound bool

	Languages  portfolio.LanguageStats
	Commits    portfolio.CommitActivity
	Projects   []portfolio.FeaturedProject
	TotalRepos int

	Heatmap          []portfolio.HeatmapCell
	HeatmapSynthetic bool

	Comparison  portfolio.Comparison
	MetricOrder []string

	AllRepos      []portfolio.RepoSummary
	DefaultConfig settings.Defaults

	GeneratedAt time.Time
}

// BuildPage assembles the page context from a summary. When the profile is
// absent a placeholder for account is shown instead.
func BuildPage(s portfolio.Summary, account string, defaults settings.Defaults, now time.Time) PageContext {
	user := s.Profile
	if user == nil {
		user = portfolio.PlaceholderProfile(account)
	}

	return PageContext{
		User:             user,
		ProfileFound:     s.ProfileFound,
		Languages:        s.Languages,
		Commits:          s.Activity,
		Projects:         s.Featured,
		TotalRepos:       len(s.Repos),
		Heatmap:          s.Heatmap,
		HeatmapSynthetic: s.Synthetic,
		Comparison:       s.Comparison,
		MetricOrder:      portfolio.MetricOrder,
		AllRepos:         portfolio.SummarizeRepos(s.Repos),
		DefaultConfig:    defaults,
		GeneratedAt:      now,
	}
}

// RenderPage executes the page template
func RenderPage(ctx PageContext) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
