package news

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
)

// CompanySource gathers records from a company watch target's seed URL. The
// URL is treated as an RSS/Atom feed when it parses as one; otherwise the
// page is scraped for a linked feed, then for headline anchors, and as a last
// resort read as a single article.
type CompanySource struct {
	client       *http.Client
	gofeedParser *gofeed.Parser
	userAgent    string
}

func NewCompanySource(client *http.Client, userAgent string) *CompanySource {
	return &CompanySource{
		client:       client,
		gofeedParser: gofeed.NewParser(),
		userAgent:    userAgent,
	}
}

func (s *CompanySource) Kind() SourceKind {
	return SourceCompany
}

func (s *CompanySource) Fetch(ctx context.Context, query Query, from, to time.Time, limit int) ([]RawRecord, error) {
	if query.TargetURL == "" {
		return nil, fmt.Errorf("company query %q has no target URL", query.Text)
	}

	data, err := fetchBody(ctx, s.client, s.userAgent, query.TargetURL)
	if err != nil {
		return nil, err
	}

	sourceName := query.Text
	if sourceName == "" {
		sourceName = Domain(query.TargetURL)
	}

	if feed, err := s.gofeedParser.Parse(bytes.NewReader(data)); err == nil {
		return s.recordsFromFeed(feed, sourceName, limit), nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse company page: %w", err)
	}

	if feedURL := discoverFeedURL(doc, query.TargetURL); feedURL != "" {
		if feedData, err := fetchBody(ctx, s.client, s.userAgent, feedURL); err == nil {
			if feed, err := s.gofeedParser.Parse(bytes.NewReader(feedData)); err == nil {
				return s.recordsFromFeed(feed, sourceName, limit), nil
			}
		}
	}

	records := scrapeHeadlines(doc, query.TargetURL, sourceName, limit)
	if len(records) >= 2 {
		return records, nil
	}

	// Too few headline links: the target is likely a single article page.
	if record, ok := extractArticle(data, query.TargetURL, sourceName); ok {
		return []RawRecord{record}, nil
	}

	return records, nil
}

func (s *CompanySource) recordsFromFeed(feed *gofeed.Feed, sourceName string, limit int) []RawRecord {
	if feed.Title != "" {
		sourceName = feed.Title
	}

	records := make([]RawRecord, 0, limit)
	for _, item := range feed.Items {
		if len(records) >= limit {
			break
		}
		if item == nil || (item.Title == "" && item.Link == "") {
			continue
		}

		record := RawRecord{
			Title:     item.Title,
			URL:       item.Link,
			Source:    sourceName,
			Published: item.Published,
			Summary:   item.Description,
		}
		if record.Summary == "" {
			record.Summary = item.Content
		}
		if item.PublishedParsed != nil {
			record.PublishedAt = item.PublishedParsed.UTC()
		}

		records = append(records, record)
	}

	return records
}

// discoverFeedURL returns the first RSS/Atom alternate link advertised by the
// page, resolved against the page URL.
func discoverFeedURL(doc *goquery.Document, pageURL string) string {
	var feedURL string
	doc.Find(`link[rel="alternate"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		linkType, _ := sel.Attr("type")
		if linkType != "application/rss+xml" && linkType != "application/atom+xml" {
			return true
		}
		if href, ok := sel.Attr("href"); ok {
			feedURL = resolveURL(pageURL, href)
			return false
		}
		return true
	})
	return feedURL
}

// scrapeHeadlines pulls headline anchors from a newsroom-style listing page.
// Publish dates are taken from sibling <time> elements when present; records
// without one are left dateless for the normalizer to judge.
func scrapeHeadlines(doc *goquery.Document, pageURL, sourceName string, limit int) []RawRecord {
	seen := make(map[string]bool)
	records := make([]RawRecord, 0, limit)

	doc.Find("article a[href], h1 a[href], h2 a[href], h3 a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(records) >= limit {
			return false
		}

		title := strings.TrimSpace(sel.Text())
		href, _ := sel.Attr("href")
		if title == "" || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return true
		}

		link := resolveURL(pageURL, href)
		if link == "" || seen[link] {
			return true
		}
		seen[link] = true

		record := RawRecord{
			Title:  title,
			URL:    link,
			Source: sourceName,
		}
		if published, ok := sel.Closest("article, li").Find("time").First().Attr("datetime"); ok {
			record.Published = published
		} else if text := strings.TrimSpace(sel.Closest("article, li").Find("time").First().Text()); text != "" {
			record.Published = text
		}

		records = append(records, record)
		return true
	})

	return records
}

// extractArticle reads a page as a single article via readability.
func extractArticle(data []byte, pageURL, sourceName string) (RawRecord, bool) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return RawRecord{}, false
	}

	article, err := readability.FromReader(bytes.NewReader(data), parsed)
	if err != nil || article.Title == "" {
		return RawRecord{}, false
	}

	record := RawRecord{
		Title:   article.Title,
		URL:     pageURL,
		Source:  sourceName,
		Summary: article.Excerpt,
	}
	if record.Summary == "" {
		record.Summary = truncate(article.TextContent, 500)
	}
	if article.SiteName != "" {
		record.Source = article.SiteName
	}
	if article.PublishedTime != nil {
		record.PublishedAt = article.PublishedTime.UTC()
	}

	return record, true
}

func resolveURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
