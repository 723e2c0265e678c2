package news

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/araddon/dateparse"
)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Run maps raw candidates into consolidated item candidates. This is the
// authoritative time filter: records whose publish date cannot be parsed or
// falls outside the window are dropped, as are records carrying neither a
// title nor a URL.
func (n *Normalizer) Run(candidates []Candidate, from, to time.Time) []Item {
	items := make([]Item, 0, len(candidates))
	dropped := 0

	for _, candidate := range candidates {
		item, ok := n.normalize(candidate, from, to)
		if !ok {
			dropped++
			continue
		}
		items = append(items, item)
	}

	if dropped > 0 {
		slog.Debug("Dropped candidates during normalization", "dropped", dropped, "kept", len(items))
	}

	return items
}

func (n *Normalizer) normalize(candidate Candidate, from, to time.Time) (Item, bool) {
	record := candidate.Record
	if record.Title == "" && record.URL == "" {
		return Item{}, false
	}

	publishedAt := record.PublishedAt
	if publishedAt.IsZero() && record.Published != "" {
		if parsed, err := dateparse.ParseAny(record.Published); err == nil {
			publishedAt = parsed.UTC()
		}
	}
	if publishedAt.IsZero() || !Contains(from, to, publishedAt) {
		return Item{}, false
	}

	normalizedURL := NormalizeURL(record.URL)

	source := record.Source
	if source == "" {
		source = Domain(normalizedURL)
	}

	query := candidate.Query
	item := Item{
		ID:               itemID(normalizedURL, record.Title, record.Summary),
		Title:            record.Title,
		Source:           source,
		URL:              normalizedURL,
		PublishedAt:      publishedAt.UTC(),
		Summary:          record.Summary,
		KeywordMatches:   append([]string(nil), query.Keywords...),
		CompanyMatches:   append([]string(nil), query.Companies...),
		SopCategory:      query.SopCategory,
		BusinessCategory: query.BusinessCategory,
		rowIndex:         query.RowIndex,
	}

	return item, true
}

// itemID derives a deterministic identifier from the normalized URL, falling
// back to a content hash when the record has no URL.
func itemID(normalizedURL, title, summary string) string {
	content := normalizedURL
	if content == "" {
		content = fmt.Sprintf("%s|%s", TitleSignature(title), summary)
	}

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
