// Package slack posts messages to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no webhook URL is set.
var ErrNotConfigured = errors.New("slack webhook url not configured")

type Webhook struct {
	url  string
	http *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:  strings.TrimSpace(url),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a webhook URL is configured.
func (w *Webhook) Enabled() bool {
	return w != nil && w.url != ""
}

// SendMessage posts {"text": text} to the webhook. A non-2xx reply is an error.
func (w *Webhook) SendMessage(ctx context.Context, text string) error {
	if !w.Enabled() {
		return ErrNotConfigured
	}
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("slack webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack webhook status %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}
