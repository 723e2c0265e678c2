package news

import (
	"context"
	"log/slog"
	"strings"
)

// Expander produces a bounded set of semantically related phrases for a
// keyword. Implementations may fail or time out; the planner degrades to the
// literal keyword in that case.
type Expander interface {
	Expand(ctx context.Context, keyword string) ([]string, error)
}

type Planner struct {
	expander      Expander
	maxExpansions int
}

// NewPlanner creates a query planner. expander may be nil, in which case only
// literal keyword and company queries are produced.
func NewPlanner(expander Expander, maxExpansions int) *Planner {
	if maxExpansions <= 0 {
		maxExpansions = 3
	}
	return &Planner{
		expander:      expander,
		maxExpansions: maxExpansions,
	}
}

// Run expands a normalized request into concrete source queries. Literal
// keyword queries and company queries take priority over AI expansions; the
// total count is capped proportionally to the result cap to bound fan-out.
func (p *Planner) Run(ctx context.Context, req Request) []Query {
	budget := queryBudget(req.MaxItems)

	queries := make([]Query, 0, len(req.Keywords)+len(req.CompanyTargets))

	for i, row := range req.Keywords {
		queries = append(queries, Query{
			Text:             row.Keyword,
			Kind:             SourceWebSearch,
			RowIndex:         i,
			Keywords:         []string{row.Keyword},
			Companies:        nil,
			SopCategory:      row.SopCategory,
			BusinessCategory: row.BusinessCategory,
		})
	}

	for j, target := range req.CompanyTargets {
		label := target.Label
		if label == "" {
			label = target.ID
		}
		queries = append(queries, Query{
			Text:      label,
			Kind:      SourceCompany,
			RowIndex:  len(req.Keywords) + j,
			Companies: []string{label},
			TargetURL: target.URL,
		})
	}

	if p.expander != nil {
		for i, row := range req.Keywords {
			if len(queries) >= budget {
				break
			}

			phrases, err := p.expander.Expand(ctx, row.Keyword)
			if err != nil {
				slog.Warn("Keyword expansion failed, using literal keyword only", "keyword", row.Keyword, "error", err)
				continue
			}

			added := 0
			for _, phrase := range phrases {
				phrase = strings.TrimSpace(phrase)
				if phrase == "" || strings.EqualFold(phrase, row.Keyword) {
					continue
				}
				if added >= p.maxExpansions || len(queries) >= budget {
					break
				}
				queries = append(queries, Query{
					Text:             phrase,
					Kind:             SourceAISearch,
					RowIndex:         i,
					Keywords:         []string{row.Keyword},
					SopCategory:      row.SopCategory,
					BusinessCategory: row.BusinessCategory,
				})
				added++
			}
		}
	}

	if len(queries) > budget {
		queries = queries[:budget]
	}

	return queries
}

// queryBudget bounds total fan-out proportionally to the requested result
// count.
func queryBudget(maxItems int) int {
	switch {
	case maxItems <= 0:
		return 8
	case maxItems < 8:
		return 8
	case maxItems > 64:
		return 64
	default:
		return maxItems
	}
}
