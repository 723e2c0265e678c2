package news

import (
	"testing"
	"time"
)

func testWindow() (time.Time, time.Time) {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
}

func TestNormalizerKeepsValidRecord(t *testing.T) {
	from, to := testWindow()
	published := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)

	candidates := []Candidate{{
		Record: RawRecord{
			Title:       "FDA approves biosimilar",
			URL:         "https://www.fda.gov/news/release?utm_source=rss",
			Source:      "FDA",
			PublishedAt: published,
			Summary:     "Approval announcement.",
		},
		Query: Query{
			RowIndex:         2,
			Keywords:         []string{"biosimilar approval"},
			SopCategory:      "regulatory",
			BusinessCategory: "market",
		},
	}}

	items := NewNormalizer().Run(candidates, from, to)
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.URL != "https://www.fda.gov/news/release" {
		t.Errorf("Expected normalized URL without tracking params, got '%s'", item.URL)
	}
	if item.ID == "" {
		t.Error("Expected non-empty item id")
	}
	if !item.PublishedAt.Equal(published) {
		t.Errorf("Expected published at %v, got %v", published, item.PublishedAt)
	}
	if len(item.KeywordMatches) != 1 || item.KeywordMatches[0] != "biosimilar approval" {
		t.Errorf("Expected keyword provenance, got %v", item.KeywordMatches)
	}
	if item.SopCategory != "regulatory" || item.BusinessCategory != "market" {
		t.Errorf("Expected categories carried from query, got '%s'/'%s'", item.SopCategory, item.BusinessCategory)
	}
	if item.rowIndex != 2 {
		t.Errorf("Expected row index 2, got %d", item.rowIndex)
	}
}

func TestNormalizerParsesDateStrings(t *testing.T) {
	from, to := testWindow()

	candidates := []Candidate{{
		Record: RawRecord{
			Title:     "Biosimilar launch",
			URL:       "https://example.com/story",
			Published: "Thu, 05 Mar 2026 10:00:00 GMT",
		},
	}}

	items := NewNormalizer().Run(candidates, from, to)
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].PublishedAt.IsZero() {
		t.Error("Expected published date parsed from string")
	}
}

func TestNormalizerDropsInvalidRecords(t *testing.T) {
	from, to := testWindow()
	inWindow := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		record RawRecord
	}{
		{"no title or URL", RawRecord{PublishedAt: inWindow}},
		{"no date", RawRecord{Title: "Headline", URL: "https://example.com/a"}},
		{"unparseable date", RawRecord{Title: "Headline", URL: "https://example.com/a", Published: "sometime soon"}},
		{"before window", RawRecord{Title: "Headline", URL: "https://example.com/a", PublishedAt: from.Add(-time.Hour)}},
		{"after window", RawRecord{Title: "Headline", URL: "https://example.com/a", PublishedAt: to.Add(time.Hour)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := NewNormalizer().Run([]Candidate{{Record: tt.record}}, from, to)
			if len(items) != 0 {
				t.Errorf("Expected record to be dropped, got %d items", len(items))
			}
		})
	}
}

func TestNormalizerSourceFallsBackToDomain(t *testing.T) {
	from, to := testWindow()

	candidates := []Candidate{{
		Record: RawRecord{
			Title:       "Headline",
			URL:         "https://www.reuters.com/article",
			PublishedAt: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		},
	}}

	items := NewNormalizer().Run(candidates, from, to)
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Source != "reuters.com" {
		t.Errorf("Expected source to fall back to domain 'reuters.com', got '%s'", items[0].Source)
	}
}

func TestNormalizerDeterministicIDs(t *testing.T) {
	from, to := testWindow()
	published := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	a := Candidate{Record: RawRecord{
		Title:       "Headline",
		URL:         "https://example.com/story?utm_source=feed",
		PublishedAt: published,
	}}
	b := Candidate{Record: RawRecord{
		Title:       "Headline",
		URL:         "https://example.com/story",
		PublishedAt: published,
	}}

	normalizer := NewNormalizer()
	itemsA := normalizer.Run([]Candidate{a}, from, to)
	itemsB := normalizer.Run([]Candidate{b}, from, to)

	if itemsA[0].ID != itemsB[0].ID {
		t.Errorf("Expected equivalent URLs to yield the same id, got '%s' and '%s'", itemsA[0].ID, itemsB[0].ID)
	}
}

func TestNormalizerIDWithoutURL(t *testing.T) {
	from, to := testWindow()
	published := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	candidates := []Candidate{{Record: RawRecord{
		Title:       "Headline without link",
		PublishedAt: published,
		Summary:     "Body",
	}}}

	items := NewNormalizer().Run(candidates, from, to)
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].ID == "" {
		t.Error("Expected content-derived id for URL-less record")
	}
}
