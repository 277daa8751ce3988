package audit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "zonegate/pkg/domain"
)

func TestRingBuffer_FIFO(t *testing.T) {
	buffer := NewRingBuffer(4)

	for i := 0; i < 3; i++ {
		buffer.Enqueue(Event{Action: fmt.Sprintf("event-%d", i)})
	}
	assert.Equal(t, 3, buffer.Len())

	for i := 0; i < 3; i++ {
		event, ok := buffer.Dequeue()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("event-%d", i), event.Action)
	}

	_, ok := buffer.Dequeue()
	assert.False(t, ok)
	assert.Zero(t, buffer.Dropped())
}

func TestRingBuffer_DropsOldestWhenFull(t *testing.T) {
	buffer := NewRingBuffer(2)

	buffer.Enqueue(Event{Action: "first"})
	buffer.Enqueue(Event{Action: "second"})
	buffer.Enqueue(Event{Action: "third"})

	assert.Equal(t, 2, buffer.Len())
	assert.Equal(t, int64(1), buffer.Dropped())

	event, ok := buffer.Dequeue()
	require.True(t, ok)
	assert.Equal(t, "second", event.Action)
}

func TestPublisher_DefaultsAndPersists(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)
	userID := id.NewUserID()

	require.NoError(t, publisher.Emit(context.Background(), Event{
		UserID: userID,
		Action: string(EventAccessDenied),
	}))

	events, err := publisher.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, CategorySecurity, events[0].Category)
	assert.False(t, events[0].Timestamp.IsZero())

	// An explicit category and timestamp survive untouched.
	stamped := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, publisher.Emit(context.Background(), Event{
		UserID:    userID,
		Action:    string(EventSessionCreated),
		Category:  CategoryOperations,
		Timestamp: stamped,
	}))

	events, err = publisher.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, CategoryOperations, events[1].Category)
	assert.Equal(t, stamped, events[1].Timestamp)
}

func TestBufferedPublisher_EnqueuesAndWakes(t *testing.T) {
	publisher := NewBufferedPublisher(NewRingBuffer(8))

	require.NoError(t, publisher.Emit(context.Background(), Event{Action: "one"}))
	require.NoError(t, publisher.Emit(context.Background(), Event{Action: "two"}))

	select {
	case <-publisher.Wake():
	default:
		t.Fatal("expected a pending wake signal")
	}

	event, ok := publisher.Dequeue()
	require.True(t, ok)
	assert.Equal(t, "one", event.Action)
	assert.Equal(t, CategorySecurity, event.Category)

	event, ok = publisher.Dequeue()
	require.True(t, ok)
	assert.Equal(t, "two", event.Action)

	_, ok = publisher.Dequeue()
	assert.False(t, ok)
}

func TestInMemoryStore_ListByUser(t *testing.T) {
	store := NewInMemoryStore()
	userID := id.NewUserID()

	require.NoError(t, store.Append(context.Background(), Event{UserID: userID, Action: "a"}))
	require.NoError(t, store.Append(context.Background(), Event{UserID: id.NewUserID(), Action: "b"}))

	events, err := store.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "a", events[0].Action)
	assert.Len(t, store.All(), 2)
}
