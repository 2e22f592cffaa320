package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhookLoggerPostsEmbed(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	NewWebhookLogger(srv.URL).Log("✅ Daily news posted for 3 stock(s).")

	var payload struct {
		Embeds []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"embeds"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to decode webhook payload: %v", err)
	}
	if len(payload.Embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(payload.Embeds))
	}
	if !strings.Contains(payload.Embeds[0].Description, "Daily news posted") {
		t.Errorf("unexpected description: %q", payload.Embeds[0].Description)
	}
}

func TestWebhookLoggerEmptyURL(t *testing.T) {
	// Must not panic or attempt network I/O.
	NewWebhookLogger("").Log("local only")
}
