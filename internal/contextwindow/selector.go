package contextwindow

import (
	"math"
	"sort"
	"time"
)

// recencyTimeConstant is the e-folding time of the recency score: an item
// one day old scores ~0.37, one three days old ~0.05. Empirically chosen, a
// tunable default rather than a contract.
const recencyTimeConstant = 24 * time.Hour

// Weights blends importance against recency in the composite score.
// Callers are expected — not required — to make the two sum to 1.
type Weights struct {
	Importance float64
	Recency    float64
}

// DefaultWeights favors importance slightly over recency.
var DefaultWeights = Weights{Importance: 0.6, Recency: 0.4}

// Selection is the outcome of one per-category selection pass.
type Selection struct {
	Items       []ContextItem // accepted, in score-descending order
	TotalTokens int
	Excluded    int // candidates rejected solely for not fitting the budget
}

// RecencyScore maps an item's age to (0, 1]: just-created items score near
// 1, older items decay exponentially toward 0.
func RecencyScore(timestamp, now time.Time) float64 {
	age := now.Sub(timestamp)
	if age < 0 {
		age = 0
	}
	return math.Exp(-float64(age) / float64(recencyTimeConstant))
}

// SelectItems picks the best-scoring subset of items that fits tokenBudget.
//
// Candidates are ranked by importanceWeight×importance +
// recencyWeight×recency, ties broken more-recent-first (then by smaller
// token count, then text) so the order is a reproducible total order. The
// ranked list is then consumed greedily: an item that would overflow the
// running total is skipped, but later — possibly smaller — items are still
// considered. This can miss the knapsack-optimal packing.
func SelectItems(items []ContextItem, tokenBudget int, w Weights) Selection {
	now := time.Now().UTC()
	return selectItemsAt(items, tokenBudget, w, now)
}

// selectItemsAt is the clock-injected core, used directly by tests.
func selectItemsAt(items []ContextItem, tokenBudget int, w Weights, now time.Time) Selection {
	type scored struct {
		item  ContextItem
		score float64
	}

	ranked := make([]scored, len(items))
	for i, it := range items {
		ranked[i] = scored{
			item:  it,
			score: w.Importance*it.Importance + w.Recency*RecencyScore(it.Timestamp, now),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if !ranked[i].item.Timestamp.Equal(ranked[j].item.Timestamp) {
			return ranked[i].item.Timestamp.After(ranked[j].item.Timestamp)
		}
		if ranked[i].item.TokenCount != ranked[j].item.TokenCount {
			return ranked[i].item.TokenCount < ranked[j].item.TokenCount
		}
		return ranked[i].item.Text < ranked[j].item.Text
	})

	sel := Selection{}
	for _, r := range ranked {
		if sel.TotalTokens+r.item.TokenCount > tokenBudget {
			sel.Excluded++
			continue
		}
		sel.Items = append(sel.Items, r.item)
		sel.TotalTokens += r.item.TokenCount
	}
	return sel
}
