package portfolio

import (
	"time"

	"github.com/caiobertoldo/living-portfolio/internal/github"
)

// MaxFeatured is the size of the featured-project list
const MaxFeatured = 5

// Placeholders for absent repository data
const (
	NoDescription   = "No description available"
	NoLanguage      = "N/A"
	DateUnavailable = "Date unavailable"
)

const displayDateLayout = "02/01/2006"

// FeaturedProject is a display view of a non-fork repository
type FeaturedProject struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	UpdatedAt   string `json:"updated_at"`
	HTMLURL     string `json:"html_url"`
	Stars       int    `json:"stars"`
}

// SelectFeatured drops forks and returns the MaxFeatured most recently
// updated repositories, newest first.
func SelectFeatured(repos []github.Repository) []FeaturedProject {
	featured := make([]FeaturedProject, 0, MaxFeatured)
	for _, r := range recentlyUpdated(repos) {
		if r.Fork {
			continue
		}
		featured = append(featured, FeaturedProject{
			Name:        r.Name,
			Description: orDefault(r.Description, NoDescription),
			Language:    orDefault(r.Language, NoLanguage),
			UpdatedAt:   FormatDate(r.UpdatedAt),
			HTMLURL:     r.HTMLURL,
			Stars:       r.StargazersCount,
		})
		if len(featured) == MaxFeatured {
			break
		}
	}
	return featured
}

// RepoSummary is the display view of any repository, forks included
type RepoSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	HTMLURL     string `json:"html_url,omitempty"`
	UpdatedAt   string `json:"updated_at"`
}

// SummarizeRepos maps every repository to its display view, keeping order.
func SummarizeRepos(repos []github.Repository) []RepoSummary {
	summaries := make([]RepoSummary, 0, len(repos))
	for _, r := range repos {
		summaries = append(summaries, RepoSummary{
			Name:        r.Name,
			Description: orDefault(r.Description, NoDescription),
			Language:    orDefault(r.Language, NoLanguage),
			Stars:       r.StargazersCount,
			HTMLURL:     r.HTMLURL,
			UpdatedAt:   FormatDate(r.UpdatedAt),
		})
	}
	return summaries
}

// FormatDate turns an ISO 8601 timestamp into DD/MM/YYYY, or
// DateUnavailable if it does not parse.
func FormatDate(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return DateUnavailable
	}
	return t.Format(displayDateLayout)
}

// PlaceholderProfile stands in for the profile on the page when GitHub
// could not be reached.
func PlaceholderProfile(account string) *github.User {
	return &github.User{
		Login:    account,
		Name:     account,
		Bio:      "Developer in the making",
		Location: "Brazil",
		HTMLURL:  "https://github.com/" + account,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
