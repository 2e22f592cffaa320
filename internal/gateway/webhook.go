package gateway

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// WebhookLogger mirrors operator-facing events to a Discord webhook
// channel. Failures are logged locally and otherwise ignored; losing a log
// line must never affect the pipeline.
type WebhookLogger struct {
	url    string
	client *http.Client
}

// NewWebhookLogger creates a logger for the given webhook URL. An empty URL
// yields a logger that only writes to the local log.
func NewWebhookLogger(url string) *WebhookLogger {
	return &WebhookLogger{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Log posts a message as a log embed.
func (w *WebhookLogger) Log(msg string) {
	log.Println(msg)
	if w.url == "" {
		return
	}

	payload := map[string]any{
		"embeds": []map[string]any{
			{
				"title":       "📋 Bot Log",
				"description": msg,
				"color":       0x3498db,
				"timestamp":   time.Now().UTC().Format(time.RFC3339),
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("Webhook logging error: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		log.Printf("Webhook logging failed with status %d", resp.StatusCode)
	}
}
