package news

import (
	"context"
	"strings"

	"github.com/mmcdole/gofeed"
)

const maxPerFeed = 20

// FeedProvider fetches symbol headlines from an RSS/Atom feed whose URL
// contains a {symbol} placeholder, e.g. the per-ticker Yahoo Finance feed.
type FeedProvider struct {
	urlTemplate string
	name        string
	parser      *gofeed.Parser
}

// NewFeedProvider creates a feed provider from a URL template.
func NewFeedProvider(urlTemplate, name string) *FeedProvider {
	if name == "" {
		name = "RSS"
	}
	return &FeedProvider{
		urlTemplate: urlTemplate,
		name:        name,
		parser:      gofeed.NewParser(),
	}
}

// Name implements Provider.
func (p *FeedProvider) Name() string { return p.name }

// FeedURL returns the concrete feed URL for a symbol.
func (p *FeedProvider) FeedURL(symbol string) string {
	return strings.ReplaceAll(p.urlTemplate, "{symbol}", symbol)
}

// Fetch implements Provider. Date filtering against asOf happens in the
// fetcher; the provider only normalizes.
func (p *FeedProvider) Fetch(ctx context.Context, symbol, asOf string) ([]Item, error) {
	feed, err := p.parser.ParseURLWithContext(p.FeedURL(symbol), ctx)
	if err != nil {
		return nil, err
	}

	var items []Item
	for _, entry := range feed.Items {
		if len(items) >= maxPerFeed {
			break
		}
		item := parseEntry(entry, p.name)
		if item == nil {
			continue
		}
		items = append(items, *item)
	}
	return items, nil
}

func parseEntry(entry *gofeed.Item, source string) *Item {
	link := entry.Link
	if link == "" {
		link = entry.GUID
	}
	if link == "" {
		return nil
	}

	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return nil
	}

	var publishedDate string
	if entry.PublishedParsed != nil {
		publishedDate = entry.PublishedParsed.UTC().Format("2006-01-02")
	} else if entry.UpdatedParsed != nil {
		publishedDate = entry.UpdatedParsed.UTC().Format("2006-01-02")
	}

	return &Item{
		Title:         title,
		URL:           link,
		Source:        source,
		PublishedDate: publishedDate,
	}
}
