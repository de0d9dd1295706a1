package eventbus

import (
	"testing"

	"github.com/openherald/herald/pkg/domain"
)

func TestPublishRoutesToTypedHandlers(t *testing.T) {
	b := New()
	defer b.Close()

	var sent, failed int
	b.Subscribe(domain.EventNotificationSent, func(domain.Event) { sent++ })
	b.Subscribe(domain.EventNotificationFailed, func(domain.Event) { failed++ })

	b.Publish(domain.NewEvent(domain.EventNotificationSent, domain.NewID(), nil))
	b.Publish(domain.NewEvent(domain.EventNotificationSent, domain.NewID(), nil))
	b.Publish(domain.NewEvent(domain.EventNotificationFailed, domain.NewID(), nil))

	if sent != 2 || failed != 1 {
		t.Errorf("expected sent=2 failed=1, got sent=%d failed=%d", sent, failed)
	}
}

func TestSubscribeAllReceivesEverything(t *testing.T) {
	b := New()
	defer b.Close()

	var all int
	b.SubscribeAll(func(domain.Event) { all++ })

	b.Publish(domain.NewEvent(domain.EventNotificationSent, domain.NewID(), nil))
	b.Publish(domain.NewEvent(domain.EventScheduleFired, domain.NewID(), nil))

	if all != 2 {
		t.Errorf("expected 2 events, got %d", all)
	}
	if b.HandlerCount() != 1 {
		t.Errorf("expected 1 handler, got %d", b.HandlerCount())
	}
}

func TestClosedBusDropsEvents(t *testing.T) {
	b := New()

	var got int
	b.SubscribeAll(func(domain.Event) { got++ })
	b.Close()

	b.Publish(domain.NewEvent(domain.EventNotificationSent, domain.NewID(), nil))
	if got != 0 {
		t.Errorf("expected no dispatch after close, got %d", got)
	}
}
