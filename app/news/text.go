package news

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespace  = regexp.MustCompile(`\s+`)

	caseFolder = cases.Fold()
	deaccenter = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// NormalizeURL canonicalizes a URL for identity and merge keys: lowercased
// scheme and host, tracking parameters and fragments removed, trailing slash
// trimmed. Unparseable input is returned trimmed as-is.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if params := u.Query(); len(params) > 0 {
		for key := range params {
			if strings.HasPrefix(key, "utm_") || key == "fbclid" || key == "gclid" || key == "ref" {
				params.Del(key)
			}
		}
		u.RawQuery = params.Encode()
	}

	normalized := u.String()
	return strings.TrimSuffix(normalized, "/")
}

// TitleSignature reduces a title to a near-duplicate signature: case-folded,
// diacritics and punctuation stripped, whitespace collapsed.
func TitleSignature(title string) string {
	folded := caseFolder.String(title)
	if stripped, _, err := transform.String(deaccenter, folded); err == nil {
		folded = stripped
	}
	folded = punctuation.ReplaceAllString(folded, " ")
	folded = whitespace.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// Domain extracts the lowercased registrable host of a URL, without the www
// prefix. Returns "" when the URL cannot be parsed.
func Domain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	if idx := strings.IndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	return strings.TrimPrefix(host, "www.")
}
