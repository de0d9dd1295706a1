// Package bus provides the in-process queue between notification
// producers (CLI, scheduler) and the dispatcher. Named taps can observe
// the stream without consuming it.
package bus

import (
	"context"
	"sync"
)

// Subscriber is a named tap on the queue. Multiple subscribers can
// independently observe published envelopes (fan-out); taps never steal
// work from the primary consumer.
type Subscriber struct {
	Name string
	ch   chan Envelope
}

// Queue is a buffered notification queue with fan-out taps and
// drop-oldest backpressure.
type Queue struct {
	out       chan Envelope
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	subs      []*Subscriber
}

// NewQueue creates a queue with the given buffer capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 100
	}
	return &Queue{out: make(chan Envelope, capacity)}
}

// SubscribeTap creates a named subscriber that receives copies of every
// published envelope. The returned channel is buffered; slow consumers drop.
func (q *Queue) SubscribeTap(name string) <-chan Envelope {
	q.mu.Lock()
	defer q.mu.Unlock()
	sub := &Subscriber{Name: name, ch: make(chan Envelope, 64)}
	q.subs = append(q.subs, sub)
	return sub.ch
}

func (q *Queue) fanOut(env Envelope) {
	for _, sub := range q.subs {
		select {
		case sub.ch <- env:
		default: // non-blocking — drop if subscriber is slow
		}
	}
}

// Publish enqueues an envelope. When the queue is full the oldest entry
// is dropped so fresh notifications win over stale ones. The read lock is
// held across the send so Close cannot close the channel mid-publish.
func (q *Queue) Publish(env Envelope) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return
	}
	q.fanOut(env)

	select {
	case q.out <- env:
	default:
		// Queue full — drop oldest and retry
		select {
		case <-q.out:
		default:
		}
		select {
		case q.out <- env:
		default:
		}
	}
}

// Consume blocks until an envelope is available or the context ends.
func (q *Queue) Consume(ctx context.Context) (Envelope, bool) {
	select {
	case env, ok := <-q.out:
		return env, ok
	case <-ctx.Done():
		return Envelope{}, false
	}
}

// Len returns the number of queued envelopes.
func (q *Queue) Len() int { return len(q.out) }

// Close shuts the queue down. Further publishes are no-ops.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		for _, sub := range q.subs {
			close(sub.ch)
		}
		close(q.out)
		q.mu.Unlock()
	})
}
