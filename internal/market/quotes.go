package market

import (
	"fmt"
	"log"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"

	"github.com/tickerherald/tickerherald/internal/state"
)

// Snapshot is a point-in-time price view of one symbol.
type Snapshot struct {
	Symbol    string
	Name      string
	Price     float64
	ChangePct float64
}

// Quoter looks up price snapshots and type classifications for symbols.
type Quoter interface {
	Snapshot(symbol string) (*Snapshot, error)
	Classify(symbol string) string
}

// YahooQuoter implements Quoter on top of the Yahoo Finance quote API.
type YahooQuoter struct{}

// NewYahooQuoter creates the default quoter.
func NewYahooQuoter() *YahooQuoter {
	return &YahooQuoter{}
}

// Snapshot fetches the current market quote for a symbol.
func (q *YahooQuoter) Snapshot(symbol string) (*Snapshot, error) {
	res, err := quote.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("quote for %s: %w", symbol, err)
	}
	if res == nil {
		return nil, fmt.Errorf("no quote for %s", symbol)
	}
	return &Snapshot{
		Symbol:    symbol,
		Name:      res.ShortName,
		Price:     res.RegularMarketPrice,
		ChangePct: res.RegularMarketChangePercent,
	}, nil
}

// Classify maps a symbol to its tracked-symbol type tag. Lookup failures
// classify as Unknown; the add command path treats that as non-fatal.
func (q *YahooQuoter) Classify(symbol string) string {
	res, err := quote.Get(symbol)
	if err != nil || res == nil {
		return state.TypeUnknown
	}
	switch res.QuoteType {
	case finance.QuoteTypeEquity:
		return state.TypeStock
	case finance.QuoteTypeETF:
		return state.TypeETF
	default:
		return state.TypeUnknown
	}
}

// SnapshotLine formats one symbol's quote as a report line, racing the
// lookup against the timeout. A slow or failing lookup yields a sentinel
// line so one symbol can never stall the whole report.
func SnapshotLine(q Quoter, symbol string, timeout time.Duration) string {
	type result struct {
		snap *Snapshot
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		snap, err := q.Snapshot(symbol)
		ch <- result{snap, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			log.Printf("Quote lookup failed for %s: %v", symbol, r.err)
			return fmt.Sprintf("%s: quote unavailable", symbol)
		}
		return FormatSnapshot(r.snap)
	case <-time.After(timeout):
		log.Printf("Quote lookup timed out for %s after %s", symbol, timeout)
		return fmt.Sprintf("%s: quote timed out", symbol)
	}
}

// FormatSnapshot renders a snapshot as "AAPL 182.52 (+1.34%) - Apple Inc.".
func FormatSnapshot(s *Snapshot) string {
	line := fmt.Sprintf("%s %.2f (%+.2f%%)", s.Symbol, s.Price, s.ChangePct)
	if s.Name != "" {
		line += " - " + s.Name
	}
	return line
}
