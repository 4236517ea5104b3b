package portfolio

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/caiobertoldo/living-portfolio/internal/github"
	"github.com/caiobertoldo/living-portfolio/internal/observability"
)

// Summary is every derived view of one account, computed from a single
// round of fetches.
type Summary struct {
	Profile      *github.User
	ProfileFound bool
	Repos        []github.Repository

	Languages  LanguageStats
	Activity   CommitActivity
	Featured   []FeaturedProject
	Heatmap    []HeatmapCell
	Synthetic  bool // heatmap was generated, not built from events
	Comparison Comparison
}

// Heatmap builds the heatmap from events when they are available and falls
// back to SyntheticHeatmap otherwise. The bool reports the fallback; callers
// record it with RecordHeatmapFallback.
func Heatmap(events []github.Event, available bool, now time.Time, rng *rand.Rand) ([]HeatmapCell, bool) {
	if !available {
		return SyntheticHeatmap(rng, now), true
	}
	return BuildHeatmap(events, now), false
}

// Summarize runs the whole pipeline over already-fetched data. profile may
// be nil; nothing here fails on missing input.
func Summarize(profile *github.User, repos []github.Repository, events []github.Event, eventsAvailable bool, now time.Time, rng *rand.Rand, baseline Baseline) Summary {
	heatmap, synthetic := Heatmap(events, eventsAvailable, now, rng)

	return Summary{
		Profile:      profile,
		ProfileFound: profile != nil,
		Repos:        repos,
		Languages:    ComputeLanguageStats(repos),
		Activity:     ComputeCommitActivity(repos, now),
		Featured:     SelectFeatured(repos),
		Heatmap:      heatmap,
		Synthetic:    synthetic,
		Comparison:   Compare(profile, repos, baseline),
	}
}

// DataSource is implemented by Source; handlers depend on it so tests can
// substitute canned data.
type DataSource interface {
	Account() string
	Profile(ctx context.Context) (*github.User, bool)
	Repositories(ctx context.Context) []github.Repository
	RecentEvents(ctx context.Context) ([]github.Event, bool)
}

// Collect fetches profile, repositories and events sequentially,
// summarizes them and records a heatmap fallback.
func Collect(ctx context.Context, src DataSource, now time.Time, rng *rand.Rand, baseline Baseline) Summary {
	profile, _ := src.Profile(ctx)
	repos := src.Repositories(ctx)
	events, ok := src.RecentEvents(ctx)

	s := Summarize(profile, repos, events, ok, now, rng, baseline)
	RecordHeatmapFallback(s.Synthetic)
	return s
}

// RecordHeatmapFallback counts a synthetic heatmap that was served
func RecordHeatmapFallback(synthetic bool) {
	if synthetic {
		observability.HeatmapFallbackTotal.Inc()
	}
}

// NewRand returns a randomly seeded generator for SyntheticHeatmap.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
