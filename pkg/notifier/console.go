package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/openherald/herald/pkg/domain"
)

// ConsoleNotifier writes notifications to a local writer. Used for
// development and as the fallback channel in tests.
type ConsoleNotifier struct {
	out io.Writer
	mu  sync.Mutex
}

// NewConsoleNotifier creates a console notifier writing to stdout.
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{out: os.Stdout}
}

// NewConsoleNotifierTo creates a console notifier writing to w.
func NewConsoleNotifierTo(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: w}
}

// Name returns the channel discriminator.
func (n *ConsoleNotifier) Name() string { return domain.ChannelConsole.String() }

// Send writes the message to the configured writer.
func (n *ConsoleNotifier) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	subject := msg.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	_, err := fmt.Fprintf(n.out, "[%s] to=%s subject=%s\n%s\n",
		msg.Priority, msg.Recipient, subject, msg.Body)
	if err != nil {
		return sendError(n.Name(), err)
	}
	return nil
}

// Compile-time verification
var _ Notifier = (*ConsoleNotifier)(nil)
