package news

import (
	"testing"
	"time"
)

func TestDedupMergesByURL(t *testing.T) {
	published := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	items := []Item{
		{
			ID:             "aaa",
			Title:          "FDA approves biosimilar",
			URL:            "https://example.com/story",
			PublishedAt:    published,
			Summary:        "short",
			KeywordMatches: []string{"biosimilar approval"},
			SopCategory:    "regulatory",
			rowIndex:       0,
		},
		{
			ID:             "bbb",
			Title:          "FDA approves biosimilar",
			URL:            "https://example.com/story",
			PublishedAt:    published,
			Summary:        "a considerably longer summary of the story",
			CompanyMatches: []string{"Sandoz"},
			rowIndex:       3,
		},
	}

	merged := NewDeduplicator().Run(items)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 merged item, got %d", len(merged))
	}

	item := merged[0]
	if item.ID != "aaa" {
		t.Errorf("Expected lowest-row item id to survive, got '%s'", item.ID)
	}
	if len(item.KeywordMatches) != 1 || item.KeywordMatches[0] != "biosimilar approval" {
		t.Errorf("Expected keyword matches unioned, got %v", item.KeywordMatches)
	}
	if len(item.CompanyMatches) != 1 || item.CompanyMatches[0] != "Sandoz" {
		t.Errorf("Expected company matches unioned, got %v", item.CompanyMatches)
	}
	if item.Summary != "a considerably longer summary of the story" {
		t.Errorf("Expected longer summary to win, got '%s'", item.Summary)
	}
	if item.SopCategory != "regulatory" {
		t.Errorf("Expected first non-empty category to win, got '%s'", item.SopCategory)
	}
}

func TestDedupMergesByTitleAndDay(t *testing.T) {
	day := time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC)

	items := []Item{
		{ID: "aaa", Title: "Biosimilar Pricing Pressure Grows!", PublishedAt: day},
		{ID: "bbb", Title: "biosimilar pricing pressure grows", PublishedAt: day.Add(6 * time.Hour)},
	}

	merged := NewDeduplicator().Run(items)
	if len(merged) != 1 {
		t.Errorf("Expected same-day near-duplicate titles to merge, got %d items", len(merged))
	}
}

func TestDedupKeepsDifferentDaysSeparate(t *testing.T) {
	items := []Item{
		{ID: "aaa", Title: "Weekly biosimilar roundup", PublishedAt: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)},
		{ID: "bbb", Title: "Weekly biosimilar roundup", PublishedAt: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)},
	}

	merged := NewDeduplicator().Run(items)
	if len(merged) != 2 {
		t.Errorf("Expected identical titles on different days to stay separate, got %d items", len(merged))
	}
}

func TestDedupOrderIndependent(t *testing.T) {
	published := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	a := Item{
		ID:             "aaa",
		Title:          "Story",
		URL:            "https://example.com/story",
		PublishedAt:    published,
		KeywordMatches: []string{"keyword one"},
		SopCategory:    "regulatory",
		rowIndex:       0,
	}
	b := Item{
		ID:             "bbb",
		Title:          "Story",
		URL:            "https://example.com/story",
		PublishedAt:    published,
		KeywordMatches: []string{"keyword two"},
		SopCategory:    "safety",
		rowIndex:       1,
	}

	dedup := NewDeduplicator()
	forward := dedup.Run([]Item{a, b})
	reverse := dedup.Run([]Item{b, a})

	if len(forward) != 1 || len(reverse) != 1 {
		t.Fatalf("Expected 1 merged item in both orders, got %d and %d", len(forward), len(reverse))
	}
	if forward[0].ID != reverse[0].ID {
		t.Errorf("Expected surviving id independent of input order, got '%s' and '%s'", forward[0].ID, reverse[0].ID)
	}
	if forward[0].SopCategory != reverse[0].SopCategory {
		t.Errorf("Expected category independent of input order, got '%s' and '%s'", forward[0].SopCategory, reverse[0].SopCategory)
	}
	if forward[0].SopCategory != "regulatory" {
		t.Errorf("Expected lowest-row category to win, got '%s'", forward[0].SopCategory)
	}

	for i := range forward[0].KeywordMatches {
		if forward[0].KeywordMatches[i] != reverse[0].KeywordMatches[i] {
			t.Errorf("Expected sorted keyword matches independent of order, got %v and %v",
				forward[0].KeywordMatches, reverse[0].KeywordMatches)
			break
		}
	}
}

func TestDedupMatchSetsSorted(t *testing.T) {
	published := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	items := []Item{
		{ID: "aaa", URL: "https://example.com/story", PublishedAt: published, KeywordMatches: []string{"zeta"}},
		{ID: "bbb", URL: "https://example.com/story", PublishedAt: published, KeywordMatches: []string{"alpha"}},
	}

	merged := NewDeduplicator().Run(items)
	if len(merged) != 1 {
		t.Fatalf("Expected 1 merged item, got %d", len(merged))
	}
	got := merged[0].KeywordMatches
	if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Errorf("Expected sorted match set [alpha zeta], got %v", got)
	}
}

func TestDedupIdempotent(t *testing.T) {
	published := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	items := []Item{
		{ID: "aaa", URL: "https://example.com/story", PublishedAt: published, KeywordMatches: []string{"biosimilar"}},
		{ID: "bbb", URL: "https://example.com/story", PublishedAt: published, KeywordMatches: []string{"biosimilar"}},
	}

	dedup := NewDeduplicator()
	once := dedup.Run(items)
	twice := dedup.Run(once)

	if len(once) != 1 || len(twice) != 1 {
		t.Fatalf("Expected stable single item, got %d then %d", len(once), len(twice))
	}
	if len(twice[0].KeywordMatches) != 1 {
		t.Errorf("Expected match set unchanged on re-run, got %v", twice[0].KeywordMatches)
	}
}
