// Package notifier defines the delivery capability contract and its
// concrete channel variants (console, email, sms, webhook, slack,
// discord, telegram, websocket).
//
// Each variant implements the narrow Notifier interface independently;
// there is no shared concrete base. Which variant handles a message is
// decided by the strategy registry owned by the composition root.
package notifier

import (
	"context"
	"fmt"

	"github.com/openherald/herald/pkg/domain"
)

// ---------------------------------------------------------------------------
// Capability contract
// ---------------------------------------------------------------------------

// Notifier delivers a single message through one channel.
// Implementations must be safe for concurrent Send calls.
type Notifier interface {
	// Name returns the channel discriminator this notifier serves.
	Name() string
	// Send delivers the message, blocking until delivered or failed.
	Send(ctx context.Context, msg Message) error
}

// ---------------------------------------------------------------------------
// Message value object — immutable once created
// ---------------------------------------------------------------------------

// Message is a single notification to be delivered.
type Message struct {
	ID        domain.EntityID    `json:"id"`
	Channel   domain.ChannelType `json:"channel"`
	Recipient string             `json:"recipient"`
	Subject   string             `json:"subject,omitempty"`
	Body      string             `json:"body"`
	Priority  domain.Priority    `json:"priority"`
	Metadata  domain.Metadata    `json:"metadata,omitempty"`
	CreatedAt domain.Timestamp   `json:"created_at"`
}

// NewMessage creates a notification message with a generated ID.
func NewMessage(channel domain.ChannelType, recipient, subject, body string) Message {
	return Message{
		ID:        domain.NewID(),
		Channel:   channel,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Priority:  domain.PriorityNormal,
		Metadata:  make(domain.Metadata),
		CreatedAt: domain.Now(),
	}
}

// WithPriority returns a copy of the message with the given priority.
func (m Message) WithPriority(p domain.Priority) Message {
	m.Priority = p
	return m
}

// Validate checks the message invariants before queueing.
func (m Message) Validate() error {
	if !m.Channel.Valid() {
		return ErrInvalidChannel
	}
	if m.Recipient == "" {
		return ErrEmptyRecipient
	}
	if m.Body == "" {
		return ErrEmptyBody
	}
	return nil
}

// ---------------------------------------------------------------------------
// Domain errors
// ---------------------------------------------------------------------------

// Error is a typed error for the notifier domain.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidChannel     Error = "notifier: invalid channel type"
	ErrEmptyRecipient     Error = "notifier: recipient cannot be empty"
	ErrEmptyBody          Error = "notifier: body cannot be empty"
	ErrMissingCredentials Error = "notifier: missing channel credentials"
)

// sendError wraps a transport failure with channel context.
func sendError(channel string, err error) error {
	return fmt.Errorf("notifier: %s send failed: %w", channel, err)
}
