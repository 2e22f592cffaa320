package fetch

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("short text", 300); got != "short text" {
		t.Errorf("expected unmodified text, got %q", got)
	}

	long := strings.Repeat("word ", 100)
	got := Truncate(long, 50)
	if len([]rune(got)) > 54 {
		t.Errorf("expected truncation near 50 runes, got %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestTruncateNormalizesWhitespace(t *testing.T) {
	if got := Truncate("a\n\n  b\tc", 100); got != "a b c" {
		t.Errorf("expected normalized whitespace, got %q", got)
	}
}

func TestExcerptFromServer(t *testing.T) {
	page := `<html><head><title>T</title></head><body><article><p>` +
		strings.Repeat("Quarterly results beat expectations. ", 20) +
		`</p></article></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	f := NewExcerptFetcher(5 * time.Second)
	excerpt := f.Excerpt(srv.URL)
	if excerpt == "" {
		t.Fatal("expected non-empty excerpt")
	}
	if !strings.Contains(excerpt, "Quarterly results") {
		t.Errorf("unexpected excerpt: %q", excerpt)
	}
}

func TestExcerptHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewExcerptFetcher(5 * time.Second)
	if got := f.Excerpt(srv.URL); got != "" {
		t.Errorf("expected empty excerpt on HTTP error, got %q", got)
	}
}
