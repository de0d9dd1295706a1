package notifier

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/openherald/herald/pkg/domain"
)

// EmailConfig holds SMTP credentials for the email channel.
type EmailConfig struct {
	Host     string `yaml:"host" env:"HERALD_EMAIL_HOST"`
	Port     int    `yaml:"port" env:"HERALD_EMAIL_PORT"`
	Username string `yaml:"username" env:"HERALD_EMAIL_USERNAME"`
	Password string `yaml:"password" env:"HERALD_EMAIL_PASSWORD"`
	From     string `yaml:"from" env:"HERALD_EMAIL_FROM"`
}

// EmailNotifier delivers messages over SMTP.
type EmailNotifier struct {
	cfg EmailConfig
	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailNotifier creates an SMTP-backed email notifier.
func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, send: smtp.SendMail}
}

// Name returns the channel discriminator.
func (n *EmailNotifier) Name() string { return domain.ChannelEmail.String() }

// Send delivers the message to the recipient address.
func (n *EmailNotifier) Send(ctx context.Context, msg Message) error {
	if n.cfg.Host == "" || n.cfg.From == "" {
		return ErrMissingCredentials
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	addr := net.JoinHostPort(n.cfg.Host, fmt.Sprintf("%d", n.cfg.Port))
	payload := n.buildPayload(msg)

	if err := n.send(addr, auth, n.cfg.From, []string{msg.Recipient}, payload); err != nil {
		return sendError(n.Name(), err)
	}
	return nil
}

// buildPayload renders minimal RFC 5322 headers plus the body.
func (n *EmailNotifier) buildPayload(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// Compile-time verification
var _ Notifier = (*EmailNotifier)(nil)
