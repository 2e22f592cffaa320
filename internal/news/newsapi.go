package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// APIProvider fetches symbol headlines from NewsAPI. A missing API key, a
// non-2xx status, or malformed JSON all surface as errors for the fetcher
// to log; none of them abort the symbol.
type APIProvider struct {
	apiKey   string
	language string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewAPIProvider creates a NewsAPI provider reading its key from the given
// environment variable.
func NewAPIProvider(apiKeyEnv, language string) *APIProvider {
	if language == "" {
		language = "en"
	}
	return &APIProvider{
		apiKey:   os.Getenv(apiKeyEnv),
		language: language,
		client:   &http.Client{Timeout: 30 * time.Second},
		// NewsAPI free tier allows bursts but throttles sustained traffic.
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// Name implements Provider.
func (p *APIProvider) Name() string { return "NewsAPI" }

// IsConfigured returns whether the API key is available.
func (p *APIProvider) IsConfigured() bool { return p.apiKey != "" }

// Fetch implements Provider. Queries articles mentioning the symbol
// published on asOf.
func (p *APIProvider) Fetch(ctx context.Context, symbol, asOf string) ([]Item, error) {
	if p.apiKey == "" {
		return nil, errNotConfigured
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"q":        {symbol},
		"from":     {asOf},
		"to":       {asOf},
		"language": {p.language},
		"pageSize": {"20"},
		"sortBy":   {"publishedAt"},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", newsAPIBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httpError{status: resp.StatusCode}
	}

	var result struct {
		Status   string `json:"status"`
		Articles []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if result.Status != "ok" {
		return nil, &apiError{status: result.Status}
	}

	var items []Item
	for _, a := range result.Articles {
		if a.URL == "" || a.Title == "" {
			continue
		}
		if a.Title == "[Removed]" || a.URL == "https://removed.com" {
			continue
		}

		var pubDate string
		if a.PublishedAt != "" {
			if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
				pubDate = t.UTC().Format("2006-01-02")
			}
		}

		source := "NewsAPI"
		if a.Source.Name != "" {
			source = a.Source.Name
		}

		items = append(items, Item{
			Title:         strings.TrimSpace(a.Title),
			URL:           a.URL,
			Source:        source,
			PublishedDate: pubDate,
		})
	}

	return items, nil
}

var errNotConfigured = &configError{}

type configError struct{}

func (e *configError) Error() string { return "NewsAPI key not configured" }

type httpError struct {
	status int
}

func (e *httpError) Error() string {
	return "NewsAPI HTTP " + http.StatusText(e.status)
}

type apiError struct {
	status string
}

func (e *apiError) Error() string { return "NewsAPI status " + e.status }
