package portfolio

import (
	"slices"
	"strings"
	"time"

	"github.com/caiobertoldo/living-portfolio/internal/github"
)

const (
	activityDays  = 7
	activityRepos = 5

	dayLayout   = "2006-01-02"
	labelLayout = "02/01"
)

// CommitActivity is a 7-day series, oldest first, ready for a chart.
// Counts approximate activity from repository update times; they are not
// commit counts.
type CommitActivity struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// ComputeCommitActivity takes the five most recently updated repositories
// and, for each of the last seven days including today, counts how many
// were updated on or after that day.
func ComputeCommitActivity(repos []github.Repository, now time.Time) CommitActivity {
	recent := recentlyUpdated(repos)
	if len(recent) > activityRepos {
		recent = recent[:activityRepos]
	}

	activity := CommitActivity{
		Labels: make([]string, 0, activityDays),
		Data:   make([]int, 0, activityDays),
	}

	for i := activityDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dayKey := day.Format(dayLayout)

		count := 0
		for _, r := range recent {
			if updated, ok := updateDay(r); ok && updated >= dayKey {
				count++
			}
		}

		activity.Labels = append(activity.Labels, day.Format(labelLayout))
		activity.Data = append(activity.Data, count)
	}

	return activity
}

// recentlyUpdated returns a copy of repos sorted by updated_at, newest first.
// ISO 8601 timestamps in the same zone sort correctly as strings.
func recentlyUpdated(repos []github.Repository) []github.Repository {
	sorted := slices.Clone(repos)
	slices.SortStableFunc(sorted, func(a, b github.Repository) int {
		return strings.Compare(b.UpdatedAt, a.UpdatedAt)
	})
	return sorted
}

// updateDay returns the YYYY-MM-DD part of a repository's updated_at.
func updateDay(r github.Repository) (string, bool) {
	if len(r.UpdatedAt) < len(dayLayout) {
		return "", false
	}
	day := r.UpdatedAt[:len(dayLayout)]
	if _, err := time.Parse(dayLayout, day); err != nil {
		return "", false
	}
	return day, true
}
