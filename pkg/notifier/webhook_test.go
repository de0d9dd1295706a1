package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openherald/herald/pkg/domain"
)

func TestWebhookNotifierSend(t *testing.T) {
	var received Message
	var gotSecret, gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-Herald-Secret")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(WebhookConfig{URL: srv.URL, Secret: "s3cret"})
	msg := NewMessage(domain.ChannelWebhook, "deploy-hook", "release", "v1.4.2 rolled out")

	if err := n.Send(context.Background(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}

	if received.Body != "v1.4.2 rolled out" {
		t.Errorf("endpoint received wrong body: %q", received.Body)
	}
	if received.ID != msg.ID {
		t.Errorf("endpoint received wrong ID: %s", received.ID)
	}
	if gotSecret != "s3cret" {
		t.Errorf("expected secret header, got %q", gotSecret)
	}
	if gotContentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", gotContentType)
	}
}

func TestWebhookNotifierNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(WebhookConfig{URL: srv.URL})
	msg := NewMessage(domain.ChannelWebhook, "hook", "", "hello")

	err := n.Send(context.Background(), msg)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("expected 403 failure, got %v", err)
	}
}

func TestWebhookNotifierMissingURL(t *testing.T) {
	n := NewWebhookNotifier(WebhookConfig{})
	msg := NewMessage(domain.ChannelWebhook, "hook", "", "hello")

	if err := n.Send(context.Background(), msg); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestSMSNotifierSend(t *testing.T) {
	var got smsRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSMSNotifier(SMSConfig{GatewayURL: srv.URL, APIKey: "key-123", Sender: "HERALD"})
	msg := NewMessage(domain.ChannelSMS, "+15551234567", "ignored subject", "your code is 4242")

	if err := n.Send(context.Background(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}

	if got.To != "+15551234567" {
		t.Errorf("expected recipient +15551234567, got %q", got.To)
	}
	if got.From != "HERALD" {
		t.Errorf("expected sender HERALD, got %q", got.From)
	}
	if got.Message != "your code is 4242" {
		t.Errorf("expected body only, got %q", got.Message)
	}
	if gotAuth != "Bearer key-123" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
}

func TestSMSNotifierMissingCredentials(t *testing.T) {
	n := NewSMSNotifier(SMSConfig{GatewayURL: "http://gateway.example.com"})
	msg := NewMessage(domain.ChannelSMS, "+15551234567", "", "hello")

	if err := n.Send(context.Background(), msg); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}
