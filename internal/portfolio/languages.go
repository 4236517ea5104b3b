package portfolio

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"

	"github.com/caiobertoldo/living-portfolio/internal/github"
)

// MaxLanguages is how many languages LanguageStats keeps
const MaxLanguages = 5

// LanguageShare is one language's share of the declared-language repositories
type LanguageShare struct {
	Name       string
	Percentage float64
}

// LanguageStats holds the top languages, most used first. It marshals to a
// JSON object whose key order matches the slice order.
type LanguageStats []LanguageShare

// MarshalJSON encodes the stats as {"Go": 60.0, "Python": 40.0}.
func (ls LanguageStats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, share := range ls {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(share.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(share.Percentage)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Total returns the sum of all percentages
func (ls LanguageStats) Total() float64 {
	var total float64
	for _, share := range ls {
		total += share.Percentage
	}
	return total
}

// ComputeLanguageStats counts repositories per declared language and returns
// the MaxLanguages most frequent with their share of all declared-language
// repositories, rounded to one decimal. Repositories without a language are
// left out of the denominator. Ties keep the order of first appearance.
func ComputeLanguageStats(repos []github.Repository) LanguageStats {
	counts := make(map[string]int)
	var order []string
	var total int

	for _, r := range repos {
		if r.Language == "" {
			continue
		}
		if counts[r.Language] == 0 {
			order = append(order, r.Language)
		}
		counts[r.Language]++
		total++
	}

	if total == 0 {
		return LanguageStats{}
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})
	if len(order) > MaxLanguages {
		order = order[:MaxLanguages]
	}

	stats := make(LanguageStats, 0, len(order))
	for _, name := range order {
		stats = append(stats, LanguageShare{
			Name:       name,
			Percentage: round1(float64(counts[name]) / float64(total) * 100),
		})
	}
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
