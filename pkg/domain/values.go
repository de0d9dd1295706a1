package domain

// ---------------------------------------------------------------------------
// Shared value objects — used across bounded contexts
// ---------------------------------------------------------------------------

// ChannelType represents the kind of delivery channel.
type ChannelType string

const (
	ChannelEmail     ChannelType = "email"
	ChannelSMS       ChannelType = "sms"
	ChannelSlack     ChannelType = "slack"
	ChannelDiscord   ChannelType = "discord"
	ChannelTelegram  ChannelType = "telegram"
	ChannelWebhook   ChannelType = "webhook"
	ChannelWebSocket ChannelType = "websocket"
	ChannelConsole   ChannelType = "console"
)

// AllChannelTypes returns all known channel types.
func AllChannelTypes() []ChannelType {
	return []ChannelType{
		ChannelEmail, ChannelSMS, ChannelSlack, ChannelDiscord,
		ChannelTelegram, ChannelWebhook, ChannelWebSocket, ChannelConsole,
	}
}

// String implements fmt.Stringer.
func (ct ChannelType) String() string { return string(ct) }

// Valid returns true if the channel type is recognized.
func (ct ChannelType) Valid() bool {
	for _, t := range AllChannelTypes() {
		if t == ct {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------

// DeliveryStatus represents the lifecycle state of a notification attempt.
type DeliveryStatus string

const (
	StatusPending DeliveryStatus = "pending"
	StatusSent    DeliveryStatus = "sent"
	StatusFailed  DeliveryStatus = "failed"
)

func (ds DeliveryStatus) String() string { return string(ds) }

// ---------------------------------------------------------------------------

// Priority orders notifications when a channel is congested.
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityNormal Priority = 1
	PriorityHigh   Priority = 2
	PriorityUrgent Priority = 3
)

// String implements fmt.Stringer.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return "normal"
	}
}

// ---------------------------------------------------------------------------

// Metadata is a generic key-value map for extensible properties.
type Metadata map[string]string

// Get returns a metadata value, or empty string if not present.
func (m Metadata) Get(key string) string {
	if m == nil {
		return ""
	}
	return m[key]
}

// Set writes a metadata key-value pair. Initializes the map if nil.
func (m *Metadata) Set(key, value string) {
	if *m == nil {
		*m = make(Metadata)
	}
	(*m)[key] = value
}
