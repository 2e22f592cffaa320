// Package report composes the end-of-day report artifact from the day's
// archived deliveries and quote snapshots.
package report

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tickerherald/tickerherald/internal/database"
	"github.com/tickerherald/tickerherald/internal/market"
	"github.com/tickerherald/tickerherald/internal/state"
)

// Excerpter supplies a short article excerpt for a URL, or "".
type Excerpter interface {
	Excerpt(url string) string
}

// Artifact is a generated report for one calendar date.
type Artifact struct {
	Date         string
	Dir          string
	MarkdownPath string
	HTMLPath     string
	PDFPath      string // empty when PDF rendering is disabled
}

// Generator builds report artifacts.
type Generator struct {
	db           *database.DB
	symbols      *state.SymbolStore
	quoter       market.Quoter
	quoteTimeout time.Duration
	excerpter    Excerpter
	baseDir      string
	pdf          bool
}

// NewGenerator creates a report generator. excerpter may be nil to skip
// story enrichment.
func NewGenerator(db *database.DB, symbols *state.SymbolStore, quoter market.Quoter, quoteTimeout time.Duration, excerpter Excerpter, baseDir string, pdf bool) *Generator {
	return &Generator{
		db:           db,
		symbols:      symbols,
		quoter:       quoter,
		quoteTimeout: quoteTimeout,
		excerpter:    excerpter,
		baseDir:      baseDir,
		pdf:          pdf,
	}
}

// Generate composes and writes the report artifact for a date:
// report.md, report.html, and optionally report.pdf under baseDir/date/.
func (g *Generator) Generate(ctx context.Context, date string) (*Artifact, error) {
	deliveries, err := g.db.GetDeliveriesForDate(date)
	if err != nil {
		return nil, fmt.Errorf("reading deliveries: %w", err)
	}

	tracked := g.symbols.List()
	quoteLines := make([]string, 0, len(tracked))
	for _, sym := range tracked {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		quoteLines = append(quoteLines, market.SnapshotLine(g.quoter, sym.Symbol, g.quoteTimeout))
	}

	markdown := composeMarkdown(date, tracked, quoteLines, deliveries, g.excerpter)

	dir := filepath.Join(g.baseDir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}

	artifact := &Artifact{Date: date, Dir: dir}

	artifact.MarkdownPath = filepath.Join(dir, "report.md")
	if err := os.WriteFile(artifact.MarkdownPath, []byte(markdown), 0o644); err != nil {
		return nil, fmt.Errorf("writing report markdown: %w", err)
	}

	html, err := renderHTML(markdown, "Daily Market Report "+date)
	if err != nil {
		return nil, fmt.Errorf("rendering report HTML: %w", err)
	}
	artifact.HTMLPath = filepath.Join(dir, "report.html")
	if err := os.WriteFile(artifact.HTMLPath, html, 0o644); err != nil {
		return nil, fmt.Errorf("writing report HTML: %w", err)
	}

	if g.pdf {
		pdf, err := renderPDF(markdown, "Daily Market Report "+date)
		if err != nil {
			// The markdown/HTML artifact is still usable without the PDF.
			log.Printf("PDF rendering failed for %s: %v", date, err)
		} else {
			artifact.PDFPath = filepath.Join(dir, "report.pdf")
			if err := os.WriteFile(artifact.PDFPath, pdf, 0o644); err != nil {
				return nil, fmt.Errorf("writing report PDF: %w", err)
			}
		}
	}

	log.Printf("Report generated for %s: %d deliveries, %d symbols", date, len(deliveries), len(tracked))
	return artifact, nil
}

// Clear removes the artifact directory for a date after delivery.
func (g *Generator) Clear(date string) error {
	return os.RemoveAll(filepath.Join(g.baseDir, date))
}

func composeMarkdown(date string, tracked []state.TrackedSymbol, quoteLines []string, deliveries []database.Delivery, excerpter Excerpter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Market Report - %s\n\n", date)

	if len(quoteLines) > 0 {
		b.WriteString("## Quotes\n\n")
		for _, line := range quoteLines {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	b.WriteString("## News\n\n")
	if len(deliveries) == 0 {
		b.WriteString("No news delivered today.\n")
		return b.String()
	}

	bySymbol := map[string][]database.Delivery{}
	var order []string
	for _, d := range deliveries {
		if _, ok := bySymbol[d.Symbol]; !ok {
			order = append(order, d.Symbol)
		}
		bySymbol[d.Symbol] = append(bySymbol[d.Symbol], d)
	}

	for _, symbol := range order {
		items := bySymbol[symbol]
		fmt.Fprintf(&b, "### %s\n\n", symbolHeading(symbol, tracked))
		for i, d := range items {
			source := ""
			if d.Source != nil && *d.Source != "" {
				source = " (" + *d.Source + ")"
			}
			fmt.Fprintf(&b, "- [%s](%s)%s\n", d.Title, d.URL, source)

			// Enrich only the top story per symbol; the rest stay headlines.
			if i == 0 && excerpter != nil {
				if excerpt := excerpter.Excerpt(d.URL); excerpt != "" {
					fmt.Fprintf(&b, "  > %s\n", excerpt)
				}
			}
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func symbolHeading(symbol string, tracked []state.TrackedSymbol) string {
	for _, t := range tracked {
		if t.Symbol == symbol && t.Type != "" && t.Type != state.TypeUnknown {
			return symbol + " (" + t.Type + ")"
		}
	}
	return symbol
}
