package news

import (
	"context"
	"fmt"
	"log"

	"github.com/tickerherald/tickerherald/internal/database"
	"github.com/tickerherald/tickerherald/internal/state"
)

// Notifier receives operator-facing error reports. The Discord webhook
// logger implements it; a nil Notifier is allowed.
type Notifier interface {
	Log(msg string)
}

// Fetcher queries all providers for a symbol and returns only items not
// seen before, marking them seen as it goes.
type Fetcher struct {
	seen      *state.SeenStore
	providers []Provider
	archive   *database.DB
	notifier  Notifier
}

// NewFetcher creates a fetcher. archive and notifier may be nil.
func NewFetcher(seen *state.SeenStore, providers []Provider, archive *database.DB, notifier Notifier) *Fetcher {
	return &Fetcher{
		seen:      seen,
		providers: providers,
		archive:   archive,
		notifier:  notifier,
	}
}

// FetchSymbolNews fetches same-day news for one symbol, deduplicated
// against the seen store. The updated store is persisted before returning,
// so a crash mid-sweep loses at most the in-progress symbol's marks.
// Provider failures are reported and skipped; they never abort the symbol.
// Returns the surviving items as formatted message lines.
func (f *Fetcher) FetchSymbolNews(ctx context.Context, symbol, asOf string) []string {
	seen := f.seen.Load()

	var lines []string
	dirty := false
	for _, provider := range f.providers {
		items, err := provider.Fetch(ctx, symbol, asOf)
		if err != nil {
			log.Printf("%s fetch failed for %s: %v", provider.Name(), symbol, err)
			f.notify(fmt.Sprintf("❌ Failed to fetch %s news for `%s`: %v", provider.Name(), symbol, err))
			continue
		}

		for _, item := range items {
			if item.Title == "" || item.URL == "" || item.PublishedDate == "" {
				continue
			}
			// Same-day news only.
			if item.PublishedDate != asOf {
				continue
			}

			fp := Fingerprint(item.Title, item.URL)
			if seen[fp] {
				continue
			}
			seen[fp] = true
			dirty = true

			lines = append(lines, FormatLine(item))
			f.record(symbol, fp, item, asOf)
		}
	}

	if dirty {
		if err := f.seen.Save(seen); err != nil {
			log.Printf("Failed to persist seen store after %s: %v", symbol, err)
			f.notify(fmt.Sprintf("⚠️ Failed to persist seen store after `%s`: %v", symbol, err))
		}
	}

	return lines
}

func (f *Fetcher) record(symbol, fingerprint string, item Item, asOf string) {
	if f.archive == nil {
		return
	}
	source := item.Source
	pubDate := item.PublishedDate
	if _, err := f.archive.InsertDelivery(symbol, fingerprint, item.Title, item.URL, &source, &pubDate, asOf); err != nil {
		log.Printf("Failed to archive %s item: %v", symbol, err)
	}
}

func (f *Fetcher) notify(msg string) {
	if f.notifier != nil {
		f.notifier.Log(msg)
	}
}
