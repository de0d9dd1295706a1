// Package schedule turns cron expressions into queued notifications.
// Each entry carries a cron spec and a message template; the scheduler
// checks due-ness once per tick and publishes matches to the queue.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/openherald/herald/pkg/bus"
	"github.com/openherald/herald/pkg/domain"
	"github.com/openherald/herald/pkg/logger"
	"github.com/openherald/herald/pkg/notifier"
)

// Entry is one scheduled notification.
type Entry struct {
	Name      string             `yaml:"name"`
	Spec      string             `yaml:"spec"` // standard 5-field cron expression
	Channel   domain.ChannelType `yaml:"channel"`
	Recipient string             `yaml:"recipient"`
	Subject   string             `yaml:"subject"`
	Body      string             `yaml:"body"`
}

// Validate checks the entry's cron spec and message fields.
func (e Entry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("schedule: entry without a name")
	}
	if !gronx.New().IsValid(e.Spec) {
		return fmt.Errorf("schedule: entry %q has invalid cron spec %q", e.Name, e.Spec)
	}
	if !e.Channel.Valid() {
		return fmt.Errorf("schedule: entry %q has unknown channel %q", e.Name, e.Channel)
	}
	if e.Recipient == "" || e.Body == "" {
		return fmt.Errorf("schedule: entry %q missing recipient or body", e.Name)
	}
	return nil
}

// Scheduler checks entries against the clock and queues due notifications.
type Scheduler struct {
	entries  []Entry
	queue    *bus.Queue
	events   domain.EventBus
	gron     *gronx.Gronx
	interval time.Duration
}

// New creates a scheduler over validated entries. Invalid entries are
// rejected up front so a typo'd cron spec fails at startup, not at 3am.
func New(entries []Entry, queue *bus.Queue, events domain.EventBus) (*Scheduler, error) {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}
	return &Scheduler{
		entries:  entries,
		queue:    queue,
		events:   events,
		gron:     gronx.New(),
		interval: time.Minute,
	}, nil
}

// Len returns the number of scheduled entries.
func (s *Scheduler) Len() int { return len(s.entries) }

// Run ticks until the context ends. Cron resolution is one minute, so the
// tick interval must never exceed a minute or entries would be skipped.
func (s *Scheduler) Run(ctx context.Context) {
	if len(s.entries) == 0 {
		logger.InfoCF("schedule", "No scheduled entries, scheduler idle", nil)
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.InfoCF("schedule", "Scheduler started", map[string]interface{}{
		"entries": len(s.entries),
	})

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

// tick queues every entry due at the given instant.
func (s *Scheduler) tick(now time.Time) {
	for _, e := range s.entries {
		due, err := s.gron.IsDue(e.Spec, now)
		if err != nil {
			logger.ErrorCF("schedule", "Due check failed", map[string]interface{}{
				"entry": e.Name,
				"error": err.Error(),
			})
			continue
		}
		if !due {
			continue
		}

		msg := notifier.NewMessage(e.Channel, e.Recipient, e.Subject, e.Body)
		s.queue.Publish(bus.Envelope{Message: msg, Origin: "scheduler"})
		s.events.Publish(domain.NewEvent(domain.EventScheduleFired, msg.ID, map[string]string{
			"entry":   e.Name,
			"channel": e.Channel.String(),
		}))
		logger.InfoCF("schedule", "Entry fired", map[string]interface{}{
			"entry":   e.Name,
			"channel": e.Channel.String(),
		})
	}
}
