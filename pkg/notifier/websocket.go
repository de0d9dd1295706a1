package notifier

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/openherald/herald/pkg/domain"
)

// WebSocketConfig holds settings for the websocket push channel.
type WebSocketConfig struct {
	URL string `yaml:"url" env:"HERALD_WEBSOCKET_URL"`
}

// WebSocketNotifier pushes the JSON-encoded message to a websocket
// endpoint. A fresh connection is dialed per send: notification volume is
// low and a per-send dial avoids keeping idle connections healthy.
type WebSocketNotifier struct {
	cfg    WebSocketConfig
	dialer *websocket.Dialer
}

// NewWebSocketNotifier creates a websocket notifier with the default dialer.
func NewWebSocketNotifier(cfg WebSocketConfig) *WebSocketNotifier {
	return &WebSocketNotifier{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Name returns the channel discriminator.
func (n *WebSocketNotifier) Name() string { return domain.ChannelWebSocket.String() }

// Send dials the endpoint, writes the message as JSON, and closes cleanly.
func (n *WebSocketNotifier) Send(ctx context.Context, msg Message) error {
	if n.cfg.URL == "" {
		return ErrMissingCredentials
	}

	conn, _, err := n.dialer.DialContext(ctx, n.cfg.URL, nil)
	if err != nil {
		return sendError(n.Name(), err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
	}

	if err := conn.WriteJSON(msg); err != nil {
		return sendError(n.Name(), err)
	}

	// Best-effort close handshake; the payload is already flushed.
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return nil
}

// Compile-time verification
var _ Notifier = (*WebSocketNotifier)(nil)
