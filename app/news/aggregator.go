package news

import (
	"sort"
)

type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Run orders scored items by publish date descending, breaking ties by market
// impact descending and then id ascending, and truncates to maxItems. A
// non-positive maxItems yields an empty result.
func (a *Aggregator) Run(items []Item, maxItems int) []Item {
	if maxItems <= 0 {
		return []Item{}
	}

	ordered := make([]Item, len(items))
	copy(ordered, items)

	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].PublishedAt.Equal(ordered[j].PublishedAt) {
			return ordered[i].PublishedAt.After(ordered[j].PublishedAt)
		}
		if ordered[i].MarketImpact != ordered[j].MarketImpact {
			return ordered[i].MarketImpact > ordered[j].MarketImpact
		}
		return ordered[i].ID < ordered[j].ID
	})

	if len(ordered) > maxItems {
		ordered = ordered[:maxItems]
	}

	return ordered
}
