package news

import (
	"sort"
)

type Deduplicator struct{}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Run merges near-duplicate candidates into one item per story. The merge key
// is the normalized URL when present, otherwise the title signature combined
// with the publish day so identical headlines from different dates stay
// separate. Candidates are ordered by originating row before merging, which
// makes the output independent of fetch completion order: the first non-empty
// category and the surviving ID are decided by keyword-row supply order.
func (d *Deduplicator) Run(items []Item) []Item {
	ordered := make([]Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].rowIndex != ordered[j].rowIndex {
			return ordered[i].rowIndex < ordered[j].rowIndex
		}
		return ordered[i].ID < ordered[j].ID
	})

	index := make(map[string]int, len(ordered))
	merged := make([]Item, 0, len(ordered))

	for _, item := range ordered {
		key := mergeKey(item)
		at, ok := index[key]
		if !ok {
			index[key] = len(merged)
			merged = append(merged, item)
			continue
		}
		merged[at] = merge(merged[at], item)
	}

	for i := range merged {
		sort.Strings(merged[i].KeywordMatches)
		sort.Strings(merged[i].CompanyMatches)
	}

	return merged
}

func mergeKey(item Item) string {
	if item.URL != "" {
		return "url|" + item.URL
	}
	return "title|" + TitleSignature(item.Title) + "|" + item.PublishedAt.UTC().Format("2006-01-02")
}

// merge folds src into dst. dst precedes src in row order, so its ID,
// categories and date win whenever both are set.
func merge(dst, src Item) Item {
	dst.KeywordMatches = union(dst.KeywordMatches, src.KeywordMatches)
	dst.CompanyMatches = union(dst.CompanyMatches, src.CompanyMatches)

	if len(src.Summary) > len(dst.Summary) {
		dst.Summary = src.Summary
	}
	if dst.SopCategory == "" {
		dst.SopCategory = src.SopCategory
	}
	if dst.BusinessCategory == "" {
		dst.BusinessCategory = src.BusinessCategory
	}
	if dst.Source == "" {
		dst.Source = src.Source
	}
	if dst.Title == "" {
		dst.Title = src.Title
	}

	return dst
}

func union(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, values := range [][]string{a, b} {
		for _, v := range values {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
