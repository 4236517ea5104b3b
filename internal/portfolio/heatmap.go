package portfolio

import (
	"math/rand/v2"
	"time"

	"github.com/caiobertoldo/living-portfolio/internal/github"
)

// HeatmapDays is the length of every heatmap, ending today
const HeatmapDays = 365

// HeatmapCell is one day of the commit heatmap
type HeatmapCell struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// CommitLevel maps a day's commit count to an intensity level from 0 to 4.
func CommitLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 5:
		return 2
	case count <= 10:
		return 3
	default:
		return 4
	}
}

// BuildHeatmap sums push-event commits per calendar day (in now's location)
// and lays them over the HeatmapDays days ending today.
func BuildHeatmap(events []github.Event, now time.Time) []HeatmapCell {
	perDay := make(map[string]int)
	for _, e := range events {
		if e.Type != github.EventPush {
			continue
		}
		perDay[e.CreatedAt.In(now.Location()).Format(dayLayout)] += e.CommitCount()
	}

	return fillHeatmap(now, func(day string) int {
		return perDay[day]
	})
}

// syntheticWeights is the fallback distribution of daily commit counts.
var syntheticWeights = []struct {
	count  int
	weight float64
}{
	{0, 0.65},
	{1, 0.15},
	{2, 0.10},
	{3, 0.05},
	{5, 0.03},
	{8, 0.02},
}

// SyntheticHeatmap generates a plausible-looking heatmap when no event data
// is available. The shape matches BuildHeatmap.
func SyntheticHeatmap(rng *rand.Rand, now time.Time) []HeatmapCell {
	return fillHeatmap(now, func(string) int {
		return sampleCount(rng.Float64())
	})
}

func sampleCount(p float64) int {
	var cumulative float64
	for _, w := range syntheticWeights {
		cumulative += w.weight
		if p < cumulative {
			return w.count
		}
	}
	return syntheticWeights[len(syntheticWeights)-1].count
}

func fillHeatmap(now time.Time, countFor func(day string) int) []HeatmapCell {
	cells := make([]HeatmapCell, 0, HeatmapDays)
	for i := HeatmapDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dayLayout)
		count := countFor(day)
		cells = append(cells, HeatmapCell{
			Date:  day,
			Count: count,
			Level: CommitLevel(count),
		})
	}
	return cells
}
