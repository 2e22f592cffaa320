// Package news fetches per-symbol headlines from the configured providers
// and filters them against the seen-fingerprint store.
package news

import (
	"context"
	"fmt"
	"hash/fnv"
)

// Item is one normalized news article. Transient: items are formatted and
// delivered, never stored as-is.
type Item struct {
	Title         string
	URL           string
	Source        string
	PublishedDate string // YYYY-MM-DD
}

// Provider is a single news source queried per symbol. Implementations
// return an error for transport or decode failures; the fetcher logs it and
// continues with the remaining providers.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, symbol, asOf string) ([]Item, error)
}

// Fingerprint returns the deduplication key for an item: an FNV-64a digest
// of title+URL, hex encoded. Deterministic across restarts. Short and not
// adversarially collision-resistant, which is fine for public headline data.
func Fingerprint(title, url string) string {
	h := fnv.New64a()
	h.Write([]byte(title))
	h.Write([]byte(url))
	return fmt.Sprintf("%016x", h.Sum64())
}

// FormatLine renders an item as the one-line message form posted to the
// channel.
func FormatLine(it Item) string {
	return fmt.Sprintf("📰 [%s](%s) (%s)", it.Title, it.URL, it.Source)
}
