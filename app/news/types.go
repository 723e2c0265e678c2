package news

import (
	"strings"
	"time"
)

// Domain types for a single gathering run. All values are created per run and
// never mutated after the aggregator returns them.

type KeywordRow struct {
	Keyword          string   `json:"keyword" yaml:"keyword"`
	SopCategory      string   `json:"sopCategory,omitempty" yaml:"sop_category,omitempty"`
	BusinessCategory string   `json:"businessCategory,omitempty" yaml:"business_category,omitempty"`
	Companies        []string `json:"companies,omitempty" yaml:"companies,omitempty"`
}

type CompanyTarget struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// SourceKind identifies the class of fetcher a query is routed to.
type SourceKind string

const (
	SourceWebSearch SourceKind = "web_search"
	SourceAISearch  SourceKind = "ai_search"
	SourceCompany   SourceKind = "company"
)

// Query is one concrete source query produced by the planner. RowIndex
// references the keyword row (or, offset past the keyword rows, the company
// target) that originated it; the index is the deterministic tie-break order
// used during deduplication.
type Query struct {
	Text     string
	Kind     SourceKind
	RowIndex int

	Keywords  []string // keyword row texts that produced this query
	Companies []string // company target labels this query is scoped to
	TargetURL string   // seed URL for company queries

	SopCategory      string
	BusinessCategory string
}

// RawRecord is a single result returned by a source fetcher before
// normalization. PublishedAt may be zero and Published may hold an unparsed
// date string; the normalizer resolves both.
type RawRecord struct {
	Title       string
	URL         string
	Source      string
	Published   string
	PublishedAt time.Time
	Summary     string
}

// Candidate pairs a raw record with the query that produced it.
type Candidate struct {
	Record RawRecord
	Query  Query
}

// Item is one consolidated, deduplicated, scored news record.
type Item struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Source           string    `json:"source"`
	URL              string    `json:"url"`
	PublishedAt      time.Time `json:"publishedAt"`
	Summary          string    `json:"summary,omitempty"`
	AuthenticScore   int       `json:"authenticScore"`
	MarketImpact     int       `json:"marketImpactScore"`
	KeywordMatches   []string  `json:"keywordMatches"`
	CompanyMatches   []string  `json:"companyMatches"`
	SopCategory      string    `json:"sopCategory,omitempty"`
	BusinessCategory string    `json:"businessCategory,omitempty"`

	rowIndex int // originating row order, used for deterministic merges
}

// Request is the external contract of the gathering pipeline.
type Request struct {
	Keywords       []KeywordRow    `json:"keywords"`
	CompanyTargets []CompanyTarget `json:"companyTargets"`
	TimeRange      TimeRange       `json:"timeRange"`
	MaxItems       int             `json:"maxItems"`
}

const DefaultMaxItems = 100

// Normalize removes blank keyword rows and blank-URL targets and applies the
// default result cap. Callers are expected to do the same; this is enforced
// again here so the pipeline never fans out on unusable input.
func (r Request) Normalize() Request {
	keywords := make([]KeywordRow, 0, len(r.Keywords))
	for _, row := range r.Keywords {
		if trimmed := strings.TrimSpace(row.Keyword); trimmed != "" {
			row.Keyword = trimmed
			keywords = append(keywords, row)
		}
	}

	targets := make([]CompanyTarget, 0, len(r.CompanyTargets))
	for _, target := range r.CompanyTargets {
		if strings.TrimSpace(target.URL) == "" {
			continue
		}
		targets = append(targets, target)
	}

	maxItems := r.MaxItems
	if maxItems == 0 {
		maxItems = DefaultMaxItems
	}

	return Request{
		Keywords:       keywords,
		CompanyTargets: targets,
		TimeRange:      r.TimeRange,
		MaxItems:       maxItems,
	}
}

// Validate reports client-visible input errors. Fan-out never starts on a
// request that fails validation.
func (r Request) Validate() error {
	if len(r.Keywords) == 0 && len(r.CompanyTargets) == 0 {
		return ErrEmptyRequest
	}
	if _, _, err := r.TimeRange.Resolve(time.Now().UTC()); err != nil {
		return err
	}
	return nil
}
