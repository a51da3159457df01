package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// WebhookPayload is the JSON body POSTed to the webhook after each run.
type WebhookPayload struct {
	Event  string `json:"event"`
	Run    *Run   `json:"run"`
	Failed int    `json:"failed"`
}

// WebhookNotifier delivers run summaries to an external HTTP endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
	log    *slog.Logger
}

// NewWebhookNotifier creates a notifier for url. If url is empty Notify is a
// no-op.
func NewWebhookNotifier(url string, log *slog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Notify POSTs the run summary. Non-2xx responses are logged, not returned.
func (w *WebhookNotifier) Notify(ctx context.Context, run *Run) error {
	if w.url == "" {
		return nil
	}

	event := "run.completed"
	if run.Failed() > 0 {
		event = "run.partial"
	}
	body, err := json.Marshal(WebhookPayload{Event: event, Run: run, Failed: run.Failed()})
	if err != nil {
		return fmt.Errorf("webhook marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.log.Error("webhook delivery failed", "error", err, "run_id", run.ID)
		return fmt.Errorf("webhook POST: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		w.log.Info("webhook delivered", "status", resp.StatusCode, "run_id", run.ID)
	} else {
		w.log.Warn("webhook non-2xx response", "status", resp.StatusCode, "run_id", run.ID)
	}
	return nil
}
