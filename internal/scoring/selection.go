package scoring

import (
	"math"
	"sort"

	"infocurator/internal/domain"
)

// DefaultMaxPerSource caps how many items a single source may contribute
// to a selection.
const DefaultMaxPerSource = 3

// SelectionConfig bounds the final selection.
type SelectionConfig struct {
	Threshold    int
	MaxArticles  int
	MaxPerSource int
	// Trending marks a run that used no keywords; such runs structurally
	// cannot earn keyword points, so the configured threshold is halved.
	Trending bool
}

// EffectiveThreshold returns the threshold actually applied: halved and
// rounded for trending runs, unchanged otherwise.
func EffectiveThreshold(threshold int, trending bool) int {
	if !trending {
		return threshold
	}
	return int(math.Round(float64(threshold) / 2))
}

// Select filters scored items by the effective threshold, orders them by
// total score (stable on ties), and walks the result enforcing the
// per-source diversity quota and the global cap. The result may be empty.
func Select(items []domain.ScoredItem, cfg SelectionConfig) []domain.ScoredItem {
	threshold := EffectiveThreshold(cfg.Threshold, cfg.Trending)

	maxPerSource := cfg.MaxPerSource
	if maxPerSource <= 0 {
		maxPerSource = DefaultMaxPerSource
	}

	kept := make([]domain.ScoredItem, 0, len(items))
	for _, item := range items {
		if item.Scores.Total >= threshold {
			kept = append(kept, item)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Scores.Total > kept[j].Scores.Total
	})

	perSource := map[string]int{}
	selected := make([]domain.ScoredItem, 0, len(kept))
	for _, item := range kept {
		if cfg.MaxArticles > 0 && len(selected) >= cfg.MaxArticles {
			break
		}
		if perSource[item.Source]+1 > maxPerSource {
			continue
		}
		perSource[item.Source]++
		selected = append(selected, item)
	}

	return selected
}
