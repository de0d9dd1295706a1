package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/openherald/herald/pkg/domain"
)

// WebhookConfig holds settings for the generic webhook channel.
type WebhookConfig struct {
	URL    string `yaml:"url" env:"HERALD_WEBHOOK_URL"`
	Secret string `yaml:"secret" env:"HERALD_WEBHOOK_SECRET"`
}

// WebhookNotifier POSTs the JSON-encoded message to a configured endpoint.
// The message recipient is carried in the payload; the endpoint decides
// final routing. Any 2xx response counts as delivered.
type WebhookNotifier struct {
	cfg    WebhookConfig
	client *http.Client
}

// NewWebhookNotifier creates a webhook notifier with a default HTTP client.
func NewWebhookNotifier(cfg WebhookConfig) *WebhookNotifier {
	return &WebhookNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Name returns the channel discriminator.
func (n *WebhookNotifier) Name() string { return domain.ChannelWebhook.String() }

// Send POSTs the message to the configured URL.
func (n *WebhookNotifier) Send(ctx context.Context, msg Message) error {
	if n.cfg.URL == "" {
		return ErrMissingCredentials
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return sendError(n.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return sendError(n.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "herald-webhook")
	if n.cfg.Secret != "" {
		req.Header.Set("X-Herald-Secret", n.cfg.Secret)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return sendError(n.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return sendError(n.Name(), fmt.Errorf("endpoint returned %s", resp.Status))
	}
	return nil
}

// Compile-time verification
var _ Notifier = (*WebhookNotifier)(nil)
