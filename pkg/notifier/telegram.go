package notifier

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"

	"github.com/openherald/herald/pkg/domain"
)

// TelegramConfig holds credentials for the Telegram channel.
type TelegramConfig struct {
	Token string `yaml:"token" env:"HERALD_TELEGRAM_TOKEN"`
}

// telegramAPI is the subset of telego used here; narrowed for tests.
type telegramAPI interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramNotifier delivers messages via the Telegram Bot API.
// The message recipient is either a numeric chat ID or a public
// "@channelname" handle.
type TelegramNotifier struct {
	cfg TelegramConfig
	bot telegramAPI
}

// NewTelegramNotifier creates a Telegram notifier from a bot token.
func NewTelegramNotifier(cfg TelegramConfig) *TelegramNotifier {
	n := &TelegramNotifier{cfg: cfg}
	if cfg.Token != "" {
		bot, err := telego.NewBot(cfg.Token, telego.WithDiscardLogger())
		if err == nil {
			n.bot = bot
		}
	}
	return n
}

// Name returns the channel discriminator.
func (n *TelegramNotifier) Name() string { return domain.ChannelTelegram.String() }

// Send posts the message text to the recipient chat.
func (n *TelegramNotifier) Send(ctx context.Context, msg Message) error {
	if n.bot == nil {
		return ErrMissingCredentials
	}

	chatID, err := parseChatID(msg.Recipient)
	if err != nil {
		return sendError(n.Name(), err)
	}

	text := msg.Body
	if msg.Subject != "" {
		text = msg.Subject + "\n\n" + msg.Body
	}

	_, err = n.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return sendError(n.Name(), err)
	}
	return nil
}

// parseChatID accepts "@channelname" or a numeric chat ID.
func parseChatID(recipient string) (telego.ChatID, error) {
	if strings.HasPrefix(recipient, "@") {
		return telego.ChatID{Username: recipient}, nil
	}
	id, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		return telego.ChatID{}, fmt.Errorf("recipient %q is neither @handle nor chat ID", recipient)
	}
	return telego.ChatID{ID: id}, nil
}

// Compile-time verification
var _ Notifier = (*TelegramNotifier)(nil)
