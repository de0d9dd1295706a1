// Package dispatch consumes queued notifications and delivers them.
// The channel variant for each message is resolved through the strategy
// registry; an unknown channel is recorded as a failed attempt and never
// crashes the loop.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/openherald/herald/pkg/bus"
	"github.com/openherald/herald/pkg/domain"
	"github.com/openherald/herald/pkg/history"
	"github.com/openherald/herald/pkg/logger"
	"github.com/openherald/herald/pkg/notifier"
	"github.com/openherald/herald/pkg/registry"
)

// Senders is the registry type the dispatcher resolves against.
type Senders = registry.Registry[notifier.Notifier]

// Dispatcher pulls envelopes off the queue and sends them.
type Dispatcher struct {
	senders     *Senders
	queue       *bus.Queue
	store       *history.Store
	events      domain.EventBus
	sendTimeout time.Duration
}

// New creates a dispatcher. The registry is passed in fully populated by
// the composition root; the dispatcher never registers anything itself.
func New(senders *Senders, queue *bus.Queue, store *history.Store, events domain.EventBus, sendTimeout time.Duration) *Dispatcher {
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	return &Dispatcher{
		senders:     senders,
		queue:       queue,
		store:       store,
		events:      events,
		sendTimeout: sendTimeout,
	}
}

// Run consumes the queue until the context ends or the queue closes.
func (d *Dispatcher) Run(ctx context.Context) {
	logger.InfoCF("dispatch", "Dispatcher started", map[string]interface{}{
		"channels": d.senders.Keys(),
	})
	for {
		env, ok := d.queue.Consume(ctx)
		if !ok {
			logger.InfoCF("dispatch", "Dispatcher stopped", nil)
			return
		}
		d.Dispatch(ctx, env)
	}
}

// Dispatch delivers a single envelope and records the outcome. Exported so
// the CLI can send synchronously through the same path the daemon uses.
func (d *Dispatcher) Dispatch(ctx context.Context, env bus.Envelope) {
	msg := env.Message

	if err := msg.Validate(); err != nil {
		d.recordFailure(msg, err)
		return
	}

	sender, err := d.senders.Create(msg.Channel.String())
	if err != nil {
		// Caller-input error: the channel is not registered. Surface the
		// valid set in the log, record the failure, keep running.
		var unknown *registry.UnknownError
		if errors.As(err, &unknown) {
			logger.WarnCF("dispatch", "No sender for channel", map[string]interface{}{
				"channel": unknown.Requested,
				"valid":   unknown.Valid,
				"origin":  env.Origin,
			})
		}
		d.recordFailure(msg, err)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := sender.Send(sendCtx, msg); err != nil {
		logger.ErrorCF("dispatch", "Delivery failed", map[string]interface{}{
			"id":      msg.ID.String(),
			"channel": msg.Channel.String(),
			"error":   err.Error(),
		})
		d.recordFailure(msg, err)
		return
	}

	d.record(msg, domain.StatusSent, nil)
	d.events.Publish(domain.NewEvent(domain.EventNotificationSent, msg.ID, map[string]string{
		"channel":   msg.Channel.String(),
		"recipient": msg.Recipient,
	}))
	logger.InfoCF("dispatch", "Delivered", map[string]interface{}{
		"id":      msg.ID.String(),
		"channel": msg.Channel.String(),
	})
}

func (d *Dispatcher) recordFailure(msg notifier.Message, cause error) {
	d.record(msg, domain.StatusFailed, cause)
	d.events.Publish(domain.NewEvent(domain.EventNotificationFailed, msg.ID, map[string]string{
		"channel": msg.Channel.String(),
		"error":   cause.Error(),
	}))
}

func (d *Dispatcher) record(msg notifier.Message, status domain.DeliveryStatus, cause error) {
	if d.store == nil {
		return
	}
	if err := d.store.Record(history.AttemptFrom(msg, status, cause)); err != nil {
		logger.ErrorCF("dispatch", "History write failed", map[string]interface{}{
			"id":    msg.ID.String(),
			"error": err.Error(),
		})
	}
}
