// Package pipeline assembles fetched news into channel messages and runs
// the three scheduled jobs: sweep, digest, and the daily report boundary.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tickerherald/tickerherald/internal/database"
	"github.com/tickerherald/tickerherald/internal/gateway"
	"github.com/tickerherald/tickerherald/internal/market"
	"github.com/tickerherald/tickerherald/internal/news"
	"github.com/tickerherald/tickerherald/internal/report"
	"github.com/tickerherald/tickerherald/internal/state"
)

// Pipeline wires the fetcher, stores, report generator, and gateway into
// the scheduled jobs. Constructed once at startup and passed to the
// scheduler; there is no package-level state.
type Pipeline struct {
	gw        gateway.Gateway
	notifier  news.Notifier
	fetcher   *news.Fetcher
	symbols   *state.SymbolStore
	seen      *state.SeenStore
	archive   *database.DB
	reports   *report.Generator
	hours     market.Hours
	channelID string
	chunkSize int

	// now is a seam for tests; defaults to time.Now.
	now func() time.Time
}

// Options configures a Pipeline.
type Options struct {
	Gateway   gateway.Gateway
	Notifier  news.Notifier
	Fetcher   *news.Fetcher
	Symbols   *state.SymbolStore
	Seen      *state.SeenStore
	Archive   *database.DB
	Reports   *report.Generator
	Hours     market.Hours
	ChannelID string
	ChunkSize int
}

// New creates a pipeline.
func New(opts Options) *Pipeline {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 1900
	}
	return &Pipeline{
		gw:        opts.Gateway,
		notifier:  opts.Notifier,
		fetcher:   opts.Fetcher,
		symbols:   opts.Symbols,
		seen:      opts.Seen,
		archive:   opts.Archive,
		reports:   opts.Reports,
		hours:     opts.Hours,
		channelID: opts.ChannelID,
		chunkSize: chunkSize,
		now:       time.Now,
	}
}

// Sweep runs the short-interval fetch-and-post cycle. Outside market hours
// it is a silent no-op. A sweep that finds nothing new stays silent;
// manual invocations get the sentinel instead, because the invoking user
// is waiting for a reply.
func (p *Pipeline) Sweep(ctx context.Context, manual bool) error {
	if !manual && !p.hours.Open(p.now()) {
		log.Println("Sweep skipped: market closed")
		return nil
	}

	blocks := p.fetchAll(ctx)
	combined := Join(blocks)

	if combined == NoNewsSentinel && !manual {
		log.Println("Sweep found no new items")
		return nil
	}

	if err := p.sendChunked("📰 **Stock News Sweep**", combined); err != nil {
		return fmt.Errorf("sweep delivery: %w", err)
	}
	p.notify(fmt.Sprintf("✅ Sweep posted for %d symbol(s).", len(p.symbols.List())))
	return nil
}

// Digest runs the long-interval consolidated cycle. It deduplicates
// against the same store as the sweep, so it typically adds little when
// sweeps already ran; unlike the sweep it always posts, using the no-news
// sentinel when empty.
func (p *Pipeline) Digest(ctx context.Context, manual bool) error {
	if !manual && !p.hours.Open(p.now()) {
		log.Println("Digest skipped: market closed")
		return nil
	}

	combined := Join(p.fetchAll(ctx))
	if err := p.sendChunked("📰 **Daily Stock News**", combined); err != nil {
		return fmt.Errorf("digest delivery: %w", err)
	}
	p.notify(fmt.Sprintf("✅ Digest posted for %d symbol(s).", len(p.symbols.List())))
	return nil
}

// Report runs the daily report boundary: generate the artifact, deliver
// it, purge channel history, and reset the dedup state. Deliberately not
// gated on market hours; the report hour may sit at or after close.
func (p *Pipeline) Report(ctx context.Context) error {
	date := database.DateString(p.now())

	artifact, err := p.reports.Generate(ctx, date)
	if err != nil {
		p.notify(fmt.Sprintf("❌ Report generation failed for %s: %v", date, err))
		return fmt.Errorf("report generation: %w", err)
	}

	reportID, err := p.deliverArtifact(artifact)
	if err != nil {
		p.notify(fmt.Sprintf("❌ Report delivery failed for %s: %v", date, err))
		return fmt.Errorf("report delivery: %w", err)
	}

	// Purge covers the old day's traffic only; the report message this
	// run just delivered must survive it.
	keep := func(m gateway.Message) bool { return m.ID == reportID }
	if purged, err := p.gw.Purge(p.channelID, keep); err != nil {
		// History cleanup is best effort; the day boundary must still land.
		log.Printf("Channel purge failed: %v", err)
	} else {
		log.Printf("Purged %d old messages", purged)
	}

	if err := p.seen.Reset(); err != nil {
		return fmt.Errorf("resetting seen store: %w", err)
	}
	if _, err := p.archive.PurgeThrough(date); err != nil {
		log.Printf("Archive purge failed: %v", err)
	}
	if err := p.reports.Clear(date); err != nil {
		log.Printf("Artifact cleanup failed: %v", err)
	}

	p.notify(fmt.Sprintf("✅ Daily report delivered for %s, dedup state reset.", date))
	return nil
}

// fetchAll fetches news for every tracked symbol in stored order and
// returns one block per symbol with fresh items.
func (p *Pipeline) fetchAll(ctx context.Context) []string {
	asOf := database.DateString(p.now())

	var blocks []string
	for _, sym := range p.symbols.List() {
		lines := p.fetcher.FetchSymbolNews(ctx, sym.Symbol, asOf)
		if len(lines) == 0 {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("**%s**:\n%s", sym.Symbol, strings.Join(lines, "\n")))
	}
	return blocks
}

// sendChunked emits a header message followed by the text split into
// gateway-sized chunks, preserving order.
func (p *Pipeline) sendChunked(header, text string) error {
	if err := p.gw.Send(p.channelID, header); err != nil {
		return err
	}
	for _, chunk := range Chunk(text, p.chunkSize) {
		if err := p.gw.Send(p.channelID, chunk); err != nil {
			return err
		}
	}
	return nil
}

// deliverArtifact posts the report file and returns the delivered
// message ID so the purge can spare it.
func (p *Pipeline) deliverArtifact(artifact *report.Artifact) (string, error) {
	path := artifact.PDFPath
	if path == "" {
		path = artifact.HTMLPath
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	caption := fmt.Sprintf("📊 **Daily Report %s**", artifact.Date)
	return p.gw.SendFile(p.channelID, caption, filepath.Base(path), f)
}

func (p *Pipeline) notify(msg string) {
	if p.notifier != nil {
		p.notifier.Log(msg)
	}
}

// SetNow overrides the pipeline clock. Tests only.
func (p *Pipeline) SetNow(now func() time.Time) { p.now = now }
