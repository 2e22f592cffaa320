package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tickerherald/tickerherald/internal/database"
	"github.com/tickerherald/tickerherald/internal/market"
	"github.com/tickerherald/tickerherald/internal/state"
)

type fakeQuoter struct {
	delay time.Duration
}

func (f *fakeQuoter) Snapshot(symbol string) (*market.Snapshot, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return &market.Snapshot{Symbol: symbol, Name: symbol + " Inc.", Price: 100, ChangePct: 0.5}, nil
}

func (f *fakeQuoter) Classify(symbol string) string { return state.TypeStock }

type fakeExcerpter struct {
	text string
}

func (f *fakeExcerpter) Excerpt(url string) string { return f.text }

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testSymbols(t *testing.T, symbols ...string) *state.SymbolStore {
	t.Helper()
	s := state.NewSymbolStore(filepath.Join(t.TempDir(), "symbols.json"))
	for _, sym := range symbols {
		s.Add(sym, state.TypeStock)
	}
	return s
}

func ptr(s string) *string { return &s }

const date = "2026-08-25"

func TestGenerateWritesArtifacts(t *testing.T) {
	db := openTestDB(t)
	db.InsertDelivery("AAPL", "fp1", "Apple ships thing", "https://a.com/1", ptr("Reuters"), ptr(date), date)
	db.InsertDelivery("AAPL", "fp2", "Second story", "https://a.com/2", ptr("Bloomberg"), ptr(date), date)
	db.InsertDelivery("MSFT", "fp3", "Windows news", "https://m.com/1", nil, ptr(date), date)

	g := NewGenerator(db, testSymbols(t, "AAPL", "MSFT"), &fakeQuoter{}, time.Second,
		&fakeExcerpter{text: "Cupertino announced a thing."}, t.TempDir(), true)

	artifact, err := g.Generate(context.Background(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mdBytes, err := os.ReadFile(artifact.MarkdownPath)
	if err != nil {
		t.Fatalf("failed to read markdown: %v", err)
	}
	markdown := string(mdBytes)
	for _, want := range []string{
		"# Daily Market Report - " + date,
		"AAPL 100.00 (+0.50%)",
		"### AAPL (Stock)",
		"[Apple ships thing](https://a.com/1) (Reuters)",
		"> Cupertino announced a thing.",
		"### MSFT (Stock)",
	} {
		if !strings.Contains(markdown, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	html, err := os.ReadFile(artifact.HTMLPath)
	if err != nil {
		t.Fatalf("failed to read HTML: %v", err)
	}
	if !strings.Contains(string(html), "<h1") {
		t.Error("expected rendered heading in HTML")
	}
	if !strings.Contains(string(html), `href="https://a.com/1"`) {
		t.Error("expected rendered link in HTML")
	}

	pdfBytes, err := os.ReadFile(artifact.PDFPath)
	if err != nil {
		t.Fatalf("failed to read PDF: %v", err)
	}
	if !strings.HasPrefix(string(pdfBytes), "%PDF") {
		t.Error("expected PDF magic header")
	}
}

func TestGenerateEmptyDay(t *testing.T) {
	db := openTestDB(t)
	g := NewGenerator(db, testSymbols(t), &fakeQuoter{}, time.Second, nil, t.TempDir(), false)

	artifact, err := g.Generate(context.Background(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	markdown, _ := os.ReadFile(artifact.MarkdownPath)
	if !strings.Contains(string(markdown), "No news delivered today.") {
		t.Error("expected empty-day sentinel in markdown")
	}
	if artifact.PDFPath != "" {
		t.Error("expected no PDF path when PDF rendering disabled")
	}
}

func TestGenerateSlowQuoteYieldsSentinel(t *testing.T) {
	db := openTestDB(t)
	g := NewGenerator(db, testSymbols(t, "AAPL"), &fakeQuoter{delay: 100 * time.Millisecond},
		10*time.Millisecond, nil, t.TempDir(), false)

	artifact, err := g.Generate(context.Background(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	markdown, _ := os.ReadFile(artifact.MarkdownPath)
	if !strings.Contains(string(markdown), "AAPL: quote timed out") {
		t.Error("expected quote timeout sentinel in markdown")
	}
}

func TestClear(t *testing.T) {
	db := openTestDB(t)
	base := t.TempDir()
	g := NewGenerator(db, testSymbols(t), &fakeQuoter{}, time.Second, nil, base, false)

	artifact, err := g.Generate(context.Background(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Clear(date); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(artifact.Dir); !os.IsNotExist(err) {
		t.Error("expected artifact directory removed after Clear")
	}
}
