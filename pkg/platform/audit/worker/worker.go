// Package worker drains buffered audit events into a store in the
// background, keeping emission fire-and-forget on the request path.
package worker

import (
	"context"

	audit "zonegate/pkg/platform/audit"
)

// Source is the buffered side of the pipeline, satisfied by
// audit.BufferedPublisher.
type Source interface {
	Wake() <-chan struct{}
	Dequeue() (audit.Event, bool)
}

// Worker consumes events from a Source and persists them.
type Worker struct {
	store  audit.Store
	source Source
}

func NewWorker(store audit.Store, source Source) *Worker {
	return &Worker{store: store, source: source}
}

// Run drains until the context ends. One wake signal covers any number of
// buffered events, so the inner loop empties the buffer each time.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush(ctx)
			return ctx.Err()
		case <-w.source.Wake():
			if err := w.flush(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *Worker) flush(ctx context.Context) error {
	for {
		event, ok := w.source.Dequeue()
		if !ok {
			return nil
		}
		if err := w.store.Append(ctx, event); err != nil {
			return err
		}
	}
}
