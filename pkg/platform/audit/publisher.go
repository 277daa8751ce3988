package audit

import (
	"context"
	"time"

	id "zonegate/pkg/domain"
)

// Store persists audit events. Implementations must be safe for concurrent
// use; the in-memory store and the ring buffer both satisfy it.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
//
// Emission is fire-and-forget from the caller's point of view: services log
// a returned error and continue, they never fail the guarded operation.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if base.Category == "" {
		base.Category = CategorySecurity
	}
	return p.store.Append(ctx, base)
}

func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]Event, error) {
	return p.store.ListByUser(ctx, userID)
}

// BufferedPublisher decouples emission from persistence: events go into a
// bounded ring buffer and a worker drains them into a Store. Under pressure
// the oldest events are dropped, so Emit never blocks a request.
type BufferedPublisher struct {
	buffer *RingBuffer
	wake   chan struct{}
}

func NewBufferedPublisher(buffer *RingBuffer) *BufferedPublisher {
	return &BufferedPublisher{
		buffer: buffer,
		wake:   make(chan struct{}, 1),
	}
}

func (p *BufferedPublisher) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = CategorySecurity
	}
	p.buffer.Enqueue(event)
	select {
	case p.wake <- struct{}{}:
	default:
	}
	return nil
}

// Wake is the signal channel a draining worker selects on. It coalesces:
// one pending signal covers any number of buffered events.
func (p *BufferedPublisher) Wake() <-chan struct{} {
	return p.wake
}

// Dequeue pops the oldest buffered event.
func (p *BufferedPublisher) Dequeue() (Event, bool) {
	return p.buffer.Dequeue()
}
