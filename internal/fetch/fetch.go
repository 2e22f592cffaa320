// Package fetch pulls readable article text for report enrichment.
package fetch

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const maxExcerptLen = 300

// ExcerptFetcher fetches an article and extracts a short plain-text excerpt
// via readability. Used to enrich the top story per symbol in the daily
// report; any failure just means no excerpt.
type ExcerptFetcher struct {
	client *http.Client
}

// NewExcerptFetcher creates a fetcher with the given per-request timeout.
func NewExcerptFetcher(timeout time.Duration) *ExcerptFetcher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &ExcerptFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Excerpt returns the first sentences of the article at articleURL, or ""
// if the page cannot be fetched or yields no extractable text.
func (f *ExcerptFetcher) Excerpt(articleURL string) string {
	req, err := http.NewRequest("GET", articleURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "tickerherald/1.0 (news bot)")

	resp, err := f.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}

	parsedURL, _ := url.Parse(articleURL)
	article, err := readability.FromReader(strings.NewReader(string(body)), parsedURL)
	if err != nil {
		return ""
	}

	return Truncate(strings.TrimSpace(article.TextContent), maxExcerptLen)
}

// Truncate shortens text to at most limit runes, cutting at a word
// boundary and appending an ellipsis.
func Truncate(text string, limit int) string {
	fields := strings.Fields(text)
	text = strings.Join(fields, " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
