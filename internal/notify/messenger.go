package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Messenger delivers outbound client notifications through a third-party
// messaging webhook. Failures are logged and never retried.
type Messenger interface {
	Send(ctx context.Context, to string, body string)
}

type WebhookMessenger struct {
	url   string
	token string
	http  *http.Client
}

func NewWebhookMessenger(url, token string) *WebhookMessenger {
	return &WebhookMessenger{
		url:   strings.TrimSpace(url),
		token: strings.TrimSpace(token),
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (m *WebhookMessenger) Send(ctx context.Context, to string, body string) {
	if err := m.send(ctx, to, body); err != nil {
		log.Warn().Err(err).Str("to", to).Msg("notification send failed")
	}
}

func (m *WebhookMessenger) send(ctx context.Context, to string, body string) error {
	if m.url == "" {
		return errors.New("messaging webhook url not configured")
	}

	payload := map[string]string{
		"to":   to,
		"body": body,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New("messaging webhook returned non-2xx")
	}
	return nil
}

// NoopMessenger is used when no webhook is configured.
type NoopMessenger struct{}

func (NoopMessenger) Send(context.Context, string, string) {}
