package notifier

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/openherald/herald/pkg/domain"
)

// DiscordConfig holds credentials for the Discord channel.
type DiscordConfig struct {
	Token string `yaml:"token" env:"HERALD_DISCORD_TOKEN"`
}

// discordSession is the subset of discordgo used here; narrowed for tests.
type discordSession interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier delivers messages to a Discord channel via the REST API.
// The message recipient is the Discord channel ID. No gateway connection
// is opened; plain REST is enough for outbound-only delivery.
type DiscordNotifier struct {
	cfg     DiscordConfig
	session discordSession
}

// NewDiscordNotifier creates a Discord notifier from a bot token.
func NewDiscordNotifier(cfg DiscordConfig) *DiscordNotifier {
	n := &DiscordNotifier{cfg: cfg}
	if cfg.Token != "" {
		// discordgo.New only fails on a malformed variadic arg set; with a
		// single token argument the error is always nil.
		s, err := discordgo.New("Bot " + cfg.Token)
		if err == nil {
			n.session = s
		}
	}
	return n
}

// Name returns the channel discriminator.
func (n *DiscordNotifier) Name() string { return domain.ChannelDiscord.String() }

// Send posts the message content. A non-empty subject becomes a bold first line.
func (n *DiscordNotifier) Send(ctx context.Context, msg Message) error {
	if n.session == nil {
		return ErrMissingCredentials
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	content := msg.Body
	if msg.Subject != "" {
		content = "**" + msg.Subject + "**\n" + msg.Body
	}

	if _, err := n.session.ChannelMessageSend(msg.Recipient, content); err != nil {
		return sendError(n.Name(), err)
	}
	return nil
}

// Compile-time verification
var _ Notifier = (*DiscordNotifier)(nil)
