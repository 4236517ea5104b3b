package portfolio

import (
	"github.com/caiobertoldo/living-portfolio/internal/github"
)

// Comparison metric keys
const (
	MetricRepos          = "repos"
	MetricFollowers      = "followers"
	MetricStarsTotal     = "stars_total"
	MetricLanguagesCount = "languages_count"
)

// Comparison statuses
const (
	StatusAbove   = "above"
	StatusBelow   = "below"
	StatusAverage = "average"
)

// MetricOrder is the display order of comparison metrics
var MetricOrder = []string{MetricRepos, MetricFollowers, MetricStarsTotal, MetricLanguagesCount}

// Baseline holds the fixed reference averages the user is compared to.
type Baseline struct {
	Repos          int
	Followers      int
	StarsTotal     int
	LanguagesCount int
}

// DefaultBaseline is the reference every page is compared against
var DefaultBaseline = Baseline{
	Repos:          15,
	Followers:      10,
	StarsTotal:     30,
	LanguagesCount: 3,
}

func (b Baseline) values() map[string]int {
	return map[string]int{
		MetricRepos:          b.Repos,
		MetricFollowers:      b.Followers,
		MetricStarsTotal:     b.StarsTotal,
		MetricLanguagesCount: b.LanguagesCount,
	}
}

// ComparisonEntry compares one metric against its baseline
type ComparisonEntry struct {
	User        int     `json:"user"`
	Average     int     `json:"average"`
	DiffPercent float64 `json:"diff_percent"`
	Status      string  `json:"status"`
}

// Comparison is keyed by metric name
type Comparison map[string]ComparisonEntry

// Compare measures the user against baseline. A nil profile counts as zero
// repositories and followers. The language count is the size of the top
// language stats, so it never exceeds MaxLanguages.
func Compare(profile *github.User, repos []github.Repository, baseline Baseline) Comparison {
	user := map[string]int{
		MetricStarsTotal:     totalStars(repos),
		MetricLanguagesCount: len(ComputeLanguageStats(repos)),
	}
	if profile != nil {
		user[MetricRepos] = profile.PublicRepos
		user[MetricFollowers] = profile.Followers
	}

	comparison := make(Comparison, len(MetricOrder))
	for metric, avg := range baseline.values() {
		comparison[metric] = compareMetric(user[metric], avg)
	}
	return comparison
}

func compareMetric(user, avg int) ComparisonEntry {
	var diff float64
	if avg > 0 {
		diff = round1(float64(user-avg) / float64(avg) * 100)
	}

	status := StatusAverage
	switch {
	case diff > 0:
		status = StatusAbove
	case diff < 0:
		status = StatusBelow
	}

	return ComparisonEntry{
		User:        user,
		Average:     avg,
		DiffPercent: diff,
		Status:      status,
	}
}

func totalStars(repos []github.Repository) int {
	var total int
	for _, r := range repos {
		total += r.StargazersCount
	}
	return total
}
