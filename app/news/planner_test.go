package news

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type stubExpander struct {
	phrases map[string][]string
	err     error
	calls   int
}

func (s *stubExpander) Expand(_ context.Context, keyword string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.phrases[keyword], nil
}

func TestPlannerLiteralQueries(t *testing.T) {
	planner := NewPlanner(nil, 3)

	req := Request{
		Keywords: []KeywordRow{
			{Keyword: "biosimilar approval", SopCategory: "regulatory", BusinessCategory: "market"},
			{Keyword: "patent dispute"},
		},
		MaxItems: 50,
	}

	queries := planner.Run(context.Background(), req)

	if len(queries) != 2 {
		t.Fatalf("Expected 2 queries, got %d", len(queries))
	}

	first := queries[0]
	if first.Text != "biosimilar approval" {
		t.Errorf("Expected query text 'biosimilar approval', got '%s'", first.Text)
	}
	if first.Kind != SourceWebSearch {
		t.Errorf("Expected kind %s, got %s", SourceWebSearch, first.Kind)
	}
	if first.RowIndex != 0 {
		t.Errorf("Expected row index 0, got %d", first.RowIndex)
	}
	if first.SopCategory != "regulatory" || first.BusinessCategory != "market" {
		t.Errorf("Expected categories carried into the query, got '%s'/'%s'", first.SopCategory, first.BusinessCategory)
	}
	if len(first.Keywords) != 1 || first.Keywords[0] != "biosimilar approval" {
		t.Errorf("Expected keyword provenance, got %v", first.Keywords)
	}
}

func TestPlannerCompanyQueries(t *testing.T) {
	planner := NewPlanner(nil, 3)

	req := Request{
		Keywords: []KeywordRow{{Keyword: "biosimilar"}},
		CompanyTargets: []CompanyTarget{
			{ID: "sandoz", Label: "Sandoz", URL: "https://www.sandoz.com/news"},
			{ID: "celltrion", URL: "https://www.celltrion.com/en-us/news"},
		},
		MaxItems: 50,
	}

	queries := planner.Run(context.Background(), req)

	if len(queries) != 3 {
		t.Fatalf("Expected 3 queries, got %d", len(queries))
	}

	company := queries[1]
	if company.Kind != SourceCompany {
		t.Errorf("Expected kind %s, got %s", SourceCompany, company.Kind)
	}
	if company.RowIndex != 1 {
		t.Errorf("Expected company row index to follow keyword rows, got %d", company.RowIndex)
	}
	if company.TargetURL != "https://www.sandoz.com/news" {
		t.Errorf("Expected target URL to be carried, got '%s'", company.TargetURL)
	}
	if len(company.Companies) != 1 || company.Companies[0] != "Sandoz" {
		t.Errorf("Expected company provenance 'Sandoz', got %v", company.Companies)
	}

	// Label falls back to ID when unset.
	if queries[2].Text != "celltrion" {
		t.Errorf("Expected label fallback to id 'celltrion', got '%s'", queries[2].Text)
	}
}

func TestPlannerExpansions(t *testing.T) {
	expander := &stubExpander{phrases: map[string][]string{
		"biosimilar": {"biosimilar approval", "follow-on biologic", "Biosimilar", ""},
	}}
	planner := NewPlanner(expander, 3)

	req := Request{
		Keywords: []KeywordRow{{Keyword: "biosimilar", SopCategory: "regulatory"}},
		MaxItems: 50,
	}

	queries := planner.Run(context.Background(), req)

	// 1 literal + 2 expansions; the case-insensitive echo and the blank are skipped.
	if len(queries) != 3 {
		t.Fatalf("Expected 3 queries, got %d", len(queries))
	}

	for _, q := range queries[1:] {
		if q.Kind != SourceAISearch {
			t.Errorf("Expected expansion kind %s, got %s", SourceAISearch, q.Kind)
		}
		if q.RowIndex != 0 {
			t.Errorf("Expected expansion to inherit row index 0, got %d", q.RowIndex)
		}
		if q.SopCategory != "regulatory" {
			t.Errorf("Expected expansion to inherit categories, got '%s'", q.SopCategory)
		}
		if len(q.Keywords) != 1 || q.Keywords[0] != "biosimilar" {
			t.Errorf("Expected expansion provenance to name the source keyword, got %v", q.Keywords)
		}
	}
}

func TestPlannerExpansionFailureDegrades(t *testing.T) {
	expander := &stubExpander{err: errors.New("api unavailable")}
	planner := NewPlanner(expander, 3)

	req := Request{
		Keywords: []KeywordRow{{Keyword: "biosimilar"}, {Keyword: "patent"}},
		MaxItems: 50,
	}

	queries := planner.Run(context.Background(), req)

	if len(queries) != 2 {
		t.Fatalf("Expected literal queries to survive expansion failure, got %d queries", len(queries))
	}
	for _, q := range queries {
		if q.Kind != SourceWebSearch {
			t.Errorf("Expected only literal queries, got kind %s", q.Kind)
		}
	}
}

func TestPlannerBudget(t *testing.T) {
	var rows []KeywordRow
	for i := 0; i < 100; i++ {
		rows = append(rows, KeywordRow{Keyword: fmt.Sprintf("keyword %d", i)})
	}

	planner := NewPlanner(nil, 3)
	queries := planner.Run(context.Background(), Request{Keywords: rows, MaxItems: 1000})

	if len(queries) != 64 {
		t.Errorf("Expected query budget cap of 64, got %d", len(queries))
	}
}

func TestPlannerBudgetSkipsExpansionsWhenFull(t *testing.T) {
	expander := &stubExpander{phrases: map[string][]string{}}

	var rows []KeywordRow
	for i := 0; i < 64; i++ {
		rows = append(rows, KeywordRow{Keyword: fmt.Sprintf("keyword %d", i)})
	}

	planner := NewPlanner(expander, 3)
	planner.Run(context.Background(), Request{Keywords: rows, MaxItems: 1000})

	if expander.calls != 0 {
		t.Errorf("Expected no expansion calls once budget is exhausted, got %d", expander.calls)
	}
}

func TestQueryBudget(t *testing.T) {
	tests := []struct {
		maxItems int
		expected int
	}{
		{-5, 8},
		{0, 8},
		{4, 8},
		{20, 20},
		{64, 64},
		{500, 64},
	}

	for _, tt := range tests {
		if got := queryBudget(tt.maxItems); got != tt.expected {
			t.Errorf("queryBudget(%d): expected %d, got %d", tt.maxItems, tt.expected, got)
		}
	}
}
