package notifier

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/openherald/herald/pkg/domain"
)

func TestEmailNotifierSend(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotPayload []byte

	n := NewEmailNotifier(EmailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "herald",
		Password: "secret",
		From:     "herald@example.com",
	})
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotPayload = addr, from, to, msg
		return nil
	}

	msg := NewMessage(domain.ChannelEmail, "ops@example.com", "disk full", "volume /data at 97%")
	if err := n.Send(context.Background(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Errorf("expected addr smtp.example.com:587, got %s", gotAddr)
	}
	if gotFrom != "herald@example.com" {
		t.Errorf("expected from herald@example.com, got %s", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "ops@example.com" {
		t.Errorf("expected recipient ops@example.com, got %v", gotTo)
	}

	payload := string(gotPayload)
	for _, want := range []string{
		"Subject: disk full\r\n",
		"To: ops@example.com\r\n",
		"volume /data at 97%",
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q", want)
		}
	}
}

func TestEmailNotifierMissingConfig(t *testing.T) {
	n := NewEmailNotifier(EmailConfig{})
	msg := NewMessage(domain.ChannelEmail, "ops@example.com", "", "hello")

	if err := n.Send(context.Background(), msg); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestEmailNotifierTransportError(t *testing.T) {
	n := NewEmailNotifier(EmailConfig{Host: "smtp.example.com", From: "herald@example.com"})
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	msg := NewMessage(domain.ChannelEmail, "ops@example.com", "", "hello")
	err := n.Send(context.Background(), msg)
	if err == nil || !strings.Contains(err.Error(), "email send failed") {
		t.Errorf("expected wrapped send failure, got %v", err)
	}
}
