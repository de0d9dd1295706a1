package bus

import "github.com/openherald/herald/pkg/notifier"

// Envelope wraps a queued message with its delivery origin, so taps and
// diagnostics can tell scheduled traffic from ad-hoc sends.
type Envelope struct {
	Message notifier.Message `json:"message"`
	Origin  string           `json:"origin"` // e.g. "cli", "scheduler", "api"
}
