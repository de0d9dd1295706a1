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

// SMSConfig holds settings for an HTTP SMS gateway (Twilio-style REST API).
type SMSConfig struct {
	GatewayURL string `yaml:"gateway_url" env:"HERALD_SMS_GATEWAY_URL"`
	APIKey     string `yaml:"api_key" env:"HERALD_SMS_API_KEY"`
	Sender     string `yaml:"sender" env:"HERALD_SMS_SENDER"`
}

// smsRequest is the gateway wire format.
type smsRequest struct {
	To      string `json:"to"`
	From    string `json:"from,omitempty"`
	Message string `json:"message"`
}

// SMSNotifier delivers messages through an HTTP SMS gateway.
type SMSNotifier struct {
	cfg    SMSConfig
	client *http.Client
}

// NewSMSNotifier creates an SMS notifier with a default HTTP client.
func NewSMSNotifier(cfg SMSConfig) *SMSNotifier {
	return &SMSNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Name returns the channel discriminator.
func (n *SMSNotifier) Name() string { return domain.ChannelSMS.String() }

// Send POSTs the message to the gateway. The subject is dropped: SMS has
// no subject line, only the body is transmitted.
func (n *SMSNotifier) Send(ctx context.Context, msg Message) error {
	if n.cfg.GatewayURL == "" || n.cfg.APIKey == "" {
		return ErrMissingCredentials
	}

	body, err := json.Marshal(smsRequest{
		To:      msg.Recipient,
		From:    n.cfg.Sender,
		Message: msg.Body,
	})
	if err != nil {
		return sendError(n.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return sendError(n.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return sendError(n.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return sendError(n.Name(), fmt.Errorf("gateway returned %s", resp.Status))
	}
	return nil
}

// Compile-time verification
var _ Notifier = (*SMSNotifier)(nil)
