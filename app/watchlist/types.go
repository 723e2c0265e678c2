package watchlist

import (
	"github.com/biopulse/bioradar/app/news"
)

// Watchlist is one named monitoring configuration: the keyword taxonomy rows
// and company watch targets a gathering run is built from.
type Watchlist struct {
	Name     string          `yaml:"name" json:"name"`
	Keywords []KeywordEntry  `yaml:"keywords" json:"keywords"`
	Targets  []CompanyTarget `yaml:"companies" json:"companies"`
}

type KeywordEntry struct {
	Keyword          string   `yaml:"keyword" json:"keyword"`
	SopCategory      string   `yaml:"sop_category,omitempty" json:"sopCategory,omitempty"`
	BusinessCategory string   `yaml:"business_category,omitempty" json:"businessCategory,omitempty"`
	Companies        []string `yaml:"companies,omitempty" json:"companies,omitempty"`
}

type CompanyTarget struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

// KeywordRows converts the taxonomy entries into pipeline keyword rows.
func (w *Watchlist) KeywordRows() []news.KeywordRow {
	rows := make([]news.KeywordRow, 0, len(w.Keywords))
	for _, entry := range w.Keywords {
		rows = append(rows, news.KeywordRow{
			Keyword:          entry.Keyword,
			SopCategory:      entry.SopCategory,
			BusinessCategory: entry.BusinessCategory,
			Companies:        entry.Companies,
		})
	}
	return rows
}

// CompanyTargets converts the watch targets into pipeline company targets.
func (w *Watchlist) CompanyTargets() []news.CompanyTarget {
	targets := make([]news.CompanyTarget, 0, len(w.Targets))
	for _, target := range w.Targets {
		targets = append(targets, news.CompanyTarget{
			ID:    target.ID,
			Label: target.Label,
			URL:   target.URL,
		})
	}
	return targets
}
