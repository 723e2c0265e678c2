package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Source fetches raw records for one planned query. Implementations apply the
// time-range filter when the upstream supports it and otherwise leave it to
// the normalizer. A Source returns an error only for its own query; the
// gatherer absorbs it.
type Source interface {
	Kind() SourceKind
	Fetch(ctx context.Context, query Query, from, to time.Time, limit int) ([]RawRecord, error)
}

// fetchBody downloads a URL with the shared client and user agent, bounded by
// the request context.
func fetchBody(ctx context.Context, client *http.Client, userAgent, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/html;q=0.8, */*;q=0.1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

const maxResponseBytes = 4 << 20
