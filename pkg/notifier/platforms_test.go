package notifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"
	"github.com/mymmrac/telego"
	"github.com/slack-go/slack"

	"github.com/openherald/herald/pkg/domain"
)

// --- Slack ---

type fakeSlack struct {
	channelID string
	text      string
	err       error
}

func (f *fakeSlack) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.channelID = channelID
	return "C123", "161803.398", f.err
}

func TestSlackNotifierSend(t *testing.T) {
	fake := &fakeSlack{}
	n := &SlackNotifier{cfg: SlackConfig{Token: "xoxb-test"}, client: fake}

	msg := NewMessage(domain.ChannelSlack, "C042ABC", "deploy", "v1.4.2 live")
	if err := n.Send(context.Background(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}
	if fake.channelID != "C042ABC" {
		t.Errorf("expected channel C042ABC, got %s", fake.channelID)
	}
}

func TestSlackNotifierFailure(t *testing.T) {
	fake := &fakeSlack{err: errors.New("channel_not_found")}
	n := &SlackNotifier{cfg: SlackConfig{Token: "xoxb-test"}, client: fake}

	msg := NewMessage(domain.ChannelSlack, "C042ABC", "", "hello")
	err := n.Send(context.Background(), msg)
	if err == nil || !strings.Contains(err.Error(), "slack send failed") {
		t.Errorf("expected wrapped slack failure, got %v", err)
	}
}

func TestSlackNotifierMissingToken(t *testing.T) {
	n := NewSlackNotifier(SlackConfig{})
	msg := NewMessage(domain.ChannelSlack, "C042ABC", "", "hello")

	if err := n.Send(context.Background(), msg); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

// --- Discord ---

type fakeDiscord struct {
	channelID string
	content   string
	err       error
}

func (f *fakeDiscord) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channelID = channelID
	f.content = content
	return &discordgo.Message{}, f.err
}

func TestDiscordNotifierSend(t *testing.T) {
	fake := &fakeDiscord{}
	n := &DiscordNotifier{cfg: DiscordConfig{Token: "token"}, session: fake}

	msg := NewMessage(domain.ChannelDiscord, "896001", "alert", "cpu at 99%")
	if err := n.Send(context.Background(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}
	if fake.channelID != "896001" {
		t.Errorf("expected channel 896001, got %s", fake.channelID)
	}
	if !strings.HasPrefix(fake.content, "**alert**\n") {
		t.Errorf("expected bold subject prefix, got %q", fake.content)
	}
}

func TestDiscordNotifierMissingToken(t *testing.T) {
	n := NewDiscordNotifier(DiscordConfig{})
	msg := NewMessage(domain.ChannelDiscord, "896001", "", "hello")

	if err := n.Send(context.Background(), msg); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

// --- Telegram ---

type fakeTelegram struct {
	params *telego.SendMessageParams
	err    error
}

func (f *fakeTelegram) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	f.params = params
	return &telego.Message{}, f.err
}

func TestTelegramNotifierSend(t *testing.T) {
	fake := &fakeTelegram{}
	n := &TelegramNotifier{cfg: TelegramConfig{Token: "token"}, bot: fake}

	msg := NewMessage(domain.ChannelTelegram, "-1001234567890", "", "backup done")
	if err := n.Send(context.Background(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}
	if fake.params.ChatID.ID != -1001234567890 {
		t.Errorf("expected numeric chat ID, got %+v", fake.params.ChatID)
	}
}

func TestParseChatID(t *testing.T) {
	tests := []struct {
		recipient string
		wantUser  string
		wantID    int64
		wantErr   bool
	}{
		{recipient: "@heraldops", wantUser: "@heraldops"},
		{recipient: "42", wantID: 42},
		{recipient: "-100999", wantID: -100999},
		{recipient: "not-a-chat", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.recipient, func(t *testing.T) {
			got, err := parseChatID(tt.recipient)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got.Username != tt.wantUser || got.ID != tt.wantID {
				t.Errorf("expected {%s %d}, got %+v", tt.wantUser, tt.wantID, got)
			}
		})
	}
}

// --- WebSocket ---

func TestWebSocketNotifierSend(t *testing.T) {
	upgrader := websocket.Upgrader{}
	received := make(chan Message, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Errorf("read: %v", err)
			return
		}
		received <- msg
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	n := NewWebSocketNotifier(WebSocketConfig{URL: wsURL})

	msg := NewMessage(domain.ChannelWebSocket, "dashboard", "live", "queue drained")
	if err := n.Send(context.Background(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}

	got := <-received
	if got.Body != "queue drained" {
		t.Errorf("expected pushed body, got %q", got.Body)
	}
}

func TestWebSocketNotifierMissingURL(t *testing.T) {
	n := NewWebSocketNotifier(WebSocketConfig{})
	msg := NewMessage(domain.ChannelWebSocket, "dashboard", "", "hello")

	if err := n.Send(context.Background(), msg); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}
