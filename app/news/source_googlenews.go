package news

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const googleNewsBaseURL = "https://news.google.com/rss/search"

// GoogleNewsSource serves web-search and AI-expanded queries through the
// Google News RSS search endpoint.
type GoogleNewsSource struct {
	client       *http.Client
	gofeedParser *gofeed.Parser
	userAgent    string
	kind         SourceKind
}

func NewGoogleNewsSource(client *http.Client, userAgent string, kind SourceKind) *GoogleNewsSource {
	return &GoogleNewsSource{
		client:       client,
		gofeedParser: gofeed.NewParser(),
		userAgent:    userAgent,
		kind:         kind,
	}
}

func (s *GoogleNewsSource) Kind() SourceKind {
	return s.kind
}

func (s *GoogleNewsSource) Fetch(ctx context.Context, query Query, from, to time.Time, limit int) ([]RawRecord, error) {
	searchURL := s.buildURL(query.Text, from, to)

	data, err := fetchBody(ctx, s.client, s.userAgent, searchURL)
	if err != nil {
		return nil, err
	}

	feed, err := s.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search feed: %w", err)
	}

	records := make([]RawRecord, 0, limit)
	for _, item := range feed.Items {
		if len(records) >= limit {
			break
		}
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}

		record := RawRecord{
			Title:     item.Title,
			URL:       item.Link,
			Published: item.Published,
			Summary:   item.Description,
		}
		if item.PublishedParsed != nil {
			record.PublishedAt = item.PublishedParsed.UTC()
		}
		record.Title, record.Source = splitPublisher(item.Title)
		if record.Source == "" {
			record.Source = Domain(item.Link)
		}

		records = append(records, record)
	}

	return records, nil
}

// buildURL scopes the query with after:/before: operators so the upstream
// applies the time window itself.
func (s *GoogleNewsSource) buildURL(text string, from, to time.Time) string {
	q := fmt.Sprintf("%s after:%s before:%s",
		text,
		from.UTC().Format("2006-01-02"),
		to.UTC().AddDate(0, 0, 1).Format("2006-01-02"))

	params := url.Values{}
	params.Set("q", q)
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	return googleNewsBaseURL + "?" + params.Encode()
}

// splitPublisher separates the " - Publisher" suffix Google News appends to
// item titles. Returns the bare title and the publisher name, which may be
// empty.
func splitPublisher(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 || idx >= len(title)-3 {
		return strings.TrimSpace(title), ""
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}
