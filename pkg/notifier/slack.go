package notifier

import (
	"context"

	"github.com/slack-go/slack"

	"github.com/openherald/herald/pkg/domain"
)

// SlackConfig holds credentials for the Slack channel.
type SlackConfig struct {
	Token string `yaml:"token" env:"HERALD_SLACK_TOKEN"`
}

// slackClient is the subset of the Slack API used here; narrowed for tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier delivers messages to a Slack channel or user via the Web API.
// The message recipient is the Slack channel ID (or user ID for DMs).
type SlackNotifier struct {
	cfg    SlackConfig
	client slackClient
}

// NewSlackNotifier creates a Slack notifier from a bot token.
func NewSlackNotifier(cfg SlackConfig) *SlackNotifier {
	n := &SlackNotifier{cfg: cfg}
	if cfg.Token != "" {
		n.client = slack.New(cfg.Token)
	}
	return n
}

// Name returns the channel discriminator.
func (n *SlackNotifier) Name() string { return domain.ChannelSlack.String() }

// Send posts the message text. A non-empty subject becomes a bold first line.
func (n *SlackNotifier) Send(ctx context.Context, msg Message) error {
	if n.client == nil {
		return ErrMissingCredentials
	}

	text := msg.Body
	if msg.Subject != "" {
		text = "*" + msg.Subject + "*\n" + msg.Body
	}

	_, _, err := n.client.PostMessageContext(ctx, msg.Recipient,
		slack.MsgOptionText(text, false))
	if err != nil {
		return sendError(n.Name(), err)
	}
	return nil
}

// Compile-time verification
var _ Notifier = (*SlackNotifier)(nil)
