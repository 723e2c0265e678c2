package news

import (
	"strings"
)

// Scorer computes the two 0-100 heuristic scores per consolidated item. Both
// heuristics are pure functions of the item: no clock, no randomness, so
// identical input always yields identical scores. Missing signals leave the
// score near its neutral base instead of failing the item.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Domains whose stories are treated as primary or high-credibility sources.
var regulatoryDomains = []string{
	"fda.gov",
	"ema.europa.eu",
	"ec.europa.eu",
	"who.int",
	"nih.gov",
	"pmda.go.jp",
	"gov.uk",
}

var tradePressDomains = []string{
	"reuters.com",
	"bloomberg.com",
	"statnews.com",
	"fiercepharma.com",
	"biopharmadive.com",
	"endpts.com",
	"biospace.com",
	"pharmaphorum.com",
	"pharmafile.com",
}

// Textual signals of regulatory or financial materiality, checked against the
// folded title and summary.
var impactTerms = []string{
	"approval",
	"approved",
	"authorization",
	"launch",
	"patent",
	"litigation",
	"lawsuit",
	"acquisition",
	"merger",
	"earnings",
	"revenue",
	"recall",
	"phase 3",
	"phase iii",
	"submission",
	"interchangeable",
	"market entry",
	"pricing",
	"settlement",
}

func (s *Scorer) Run(items []Item) []Item {
	scored := make([]Item, len(items))
	for i, item := range items {
		item.AuthenticScore = clampScore(s.authenticity(item))
		item.MarketImpact = clampScore(s.marketImpact(item))
		scored[i] = item
	}
	return scored
}

// authenticity estimates source credibility and content genuineness.
func (s *Scorer) authenticity(item Item) int {
	score := 50

	domain := Domain(item.URL)
	switch {
	case matchesDomain(domain, regulatoryDomains):
		score += 25
	case matchesDomain(domain, tradePressDomains):
		score += 15
	case companyOwnDomain(domain, item.CompanyMatches):
		score += 10
	case domain == "":
		score -= 10
	}

	if !item.PublishedAt.IsZero() {
		score += 5
	}

	switch {
	case len(item.Summary) >= 200:
		score += 10
	case len(item.Summary) >= 80:
		score += 5
	}

	if strings.ContainsAny(item.Title, "0123456789") {
		score += 5
	}

	return score
}

// marketImpact estimates business significance.
func (s *Scorer) marketImpact(item Item) int {
	score := 40

	companies := len(item.CompanyMatches) * 10
	if companies > 20 {
		companies = 20
	}
	score += companies

	if item.BusinessCategory != "" {
		score += 10
	}

	keywords := len(item.KeywordMatches) * 3
	if keywords > 9 {
		keywords = 9
	}
	score += keywords

	text := strings.ToLower(item.Title + " " + item.Summary)
	signals := 0
	for _, term := range impactTerms {
		if strings.Contains(text, term) {
			signals += 6
		}
	}
	if signals > 30 {
		signals = 30
	}
	score += signals

	return score
}

func matchesDomain(domain string, known []string) bool {
	if domain == "" {
		return false
	}
	for _, k := range known {
		if domain == k || strings.HasSuffix(domain, "."+k) {
			return true
		}
	}
	return false
}

// companyOwnDomain reports whether the story is hosted on a matched company's
// own domain, e.g. an investor-relations page.
func companyOwnDomain(domain string, companies []string) bool {
	if domain == "" {
		return false
	}
	for _, company := range companies {
		token := strings.ToLower(strings.ReplaceAll(company, " ", ""))
		if token != "" && strings.Contains(domain, token) {
			return true
		}
	}
	return false
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
