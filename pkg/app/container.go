// Package app provides the composition root. It owns construction and
// wiring of every component — registry, queue, history, event bus,
// dispatcher, scheduler — and hands them to consumers by parameter.
// Nothing in herald reaches for ambient global state.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/openherald/herald/pkg/bus"
	"github.com/openherald/herald/pkg/config"
	"github.com/openherald/herald/pkg/dispatch"
	"github.com/openherald/herald/pkg/domain"
	"github.com/openherald/herald/pkg/history"
	"github.com/openherald/herald/pkg/infrastructure/eventbus"
	"github.com/openherald/herald/pkg/logger"
	"github.com/openherald/herald/pkg/notifier"
	"github.com/openherald/herald/pkg/registry"
	"github.com/openherald/herald/pkg/schedule"
)

// Container holds all application components, fully wired.
type Container struct {
	Config     *config.Config
	Senders    *dispatch.Senders
	Queue      *bus.Queue
	Events     domain.EventBus
	History    *history.Store
	Dispatcher *dispatch.Dispatcher
	Scheduler  *schedule.Scheduler

	wg sync.WaitGroup
}

// New builds a fully wired container from configuration.
func New(cfg *config.Config) (*Container, error) {
	events := eventbus.New()
	queue := bus.NewQueue(cfg.Daemon.QueueSize)

	store, err := history.Open(cfg.Daemon.HistoryPath)
	if err != nil {
		return nil, err
	}

	senders, err := BuildRegistry(cfg, events)
	if err != nil {
		store.Close()
		return nil, err
	}

	scheduler, err := schedule.New(cfg.Schedules, queue, events)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Container{
		Config:     cfg,
		Senders:    senders,
		Queue:      queue,
		Events:     events,
		History:    store,
		Dispatcher: dispatch.New(senders, queue, store, events, cfg.Daemon.SendTimeout),
		Scheduler:  scheduler,
	}, nil
}

// BuildRegistry registers a constructor for every channel enabled in the
// configuration, then seals the registry: setup ends here, everything
// after is lookup-only. Constructors close over their credential blocks,
// so resolution at dispatch time is a zero-argument call.
func BuildRegistry(cfg *config.Config, events domain.EventBus) (*dispatch.Senders, error) {
	reg := registry.New[notifier.Notifier]()

	ctors := map[domain.ChannelType]registry.Constructor[notifier.Notifier]{
		domain.ChannelConsole:   func() notifier.Notifier { return notifier.NewConsoleNotifier() },
		domain.ChannelEmail:     func() notifier.Notifier { return notifier.NewEmailNotifier(cfg.Channels.Email) },
		domain.ChannelSMS:       func() notifier.Notifier { return notifier.NewSMSNotifier(cfg.Channels.SMS) },
		domain.ChannelSlack:     func() notifier.Notifier { return notifier.NewSlackNotifier(cfg.Channels.Slack) },
		domain.ChannelDiscord:   func() notifier.Notifier { return notifier.NewDiscordNotifier(cfg.Channels.Discord) },
		domain.ChannelTelegram:  func() notifier.Notifier { return notifier.NewTelegramNotifier(cfg.Channels.Telegram) },
		domain.ChannelWebhook:   func() notifier.Notifier { return notifier.NewWebhookNotifier(cfg.Channels.Webhook) },
		domain.ChannelWebSocket: func() notifier.Notifier { return notifier.NewWebSocketNotifier(cfg.Channels.WebSocket) },
	}

	for _, raw := range cfg.Channels.Enabled {
		// Same normalization the registry applies, so a mixed-case config
		// entry resolves a constructor and a true duplicate is reported as
		// such rather than as an unknown channel.
		name := strings.ToLower(strings.TrimSpace(raw))
		ctor, ok := ctors[domain.ChannelType(name)]
		if !ok {
			return nil, fmt.Errorf("app: unknown channel %q in config (known: %v)", name, domain.AllChannelTypes())
		}
		if err := reg.Register(name, ctor); err != nil {
			return nil, fmt.Errorf("app: register channel %q: %w", name, err)
		}
		events.Publish(domain.NewEvent(domain.EventChannelRegistered, domain.NewID(), map[string]string{
			"channel": name,
		}))
	}

	reg.Seal()
	logger.InfoCF("app", "Channel registry built", map[string]interface{}{
		"channels": reg.Keys(),
	})
	return reg, nil
}

// Start runs the dispatcher and scheduler until the context ends.
func (c *Container) Start(ctx context.Context) {
	c.Events.Publish(domain.NewEvent(domain.EventSystemStartup, domain.NewID(), nil))

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.Dispatcher.Run(ctx)
	}()
	go func() {
		defer c.wg.Done()
		c.Scheduler.Run(ctx)
	}()
}

// Stop waits for the run loops and releases resources.
func (c *Container) Stop() {
	c.wg.Wait()
	c.Events.Publish(domain.NewEvent(domain.EventSystemShutdown, domain.NewID(), nil))
	c.Queue.Close()
	c.Events.Close()
	if err := c.History.Close(); err != nil {
		logger.ErrorCF("app", "History close failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
