package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "zonegate/pkg/domain"
	audit "zonegate/pkg/platform/audit"
)

func TestWorker_DrainsBufferIntoStore(t *testing.T) {
	store := audit.NewInMemoryStore()
	publisher := audit.NewBufferedPublisher(audit.NewRingBuffer(16))
	w := NewWorker(store, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	userID := id.NewUserID()
	for i := 0; i < 5; i++ {
		require.NoError(t, publisher.Emit(ctx, audit.Event{
			UserID: userID,
			Action: string(audit.EventAccessGranted),
		}))
	}

	require.Eventually(t, func() bool {
		return len(store.All()) == 5
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_FlushesRemainderOnShutdown(t *testing.T) {
	store := audit.NewInMemoryStore()
	publisher := audit.NewBufferedPublisher(audit.NewRingBuffer(16))
	w := NewWorker(store, publisher)

	// Events emitted before the worker ever wakes must still land in the
	// store when Run exits.
	require.NoError(t, publisher.Emit(context.Background(), audit.Event{Action: "late"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, store.All(), 1)
}
