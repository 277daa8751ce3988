package lockout

import (
	"context"
	"sync"
	"time"

	id "zonegate/pkg/domain"
	"zonegate/pkg/requestcontext"
)

// InMemoryStore keeps attempt records in a map with atomic increments.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.UserID]*AttemptRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.UserID]*AttemptRecord)}
}

// Get returns a copy of the record, or nil when absent. Never mutates.
func (s *InMemoryStore) Get(_ context.Context, userID id.UserID) (*AttemptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[userID]
	if !ok {
		return nil, nil
	}
	out := *record
	return &out, nil
}

// RecordFailure increments the counter atomically. If the previous window
// has already elapsed the count restarts at 1, honoring the implicit reset.
func (s *InMemoryStore) RecordFailure(ctx context.Context, userID id.UserID, window time.Duration) (*AttemptRecord, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[userID]
	if !ok || record.WindowElapsed(window, now) {
		record = &AttemptRecord{UserID: userID}
		s.records[userID] = record
	}
	record.FailureCount++
	record.LastFailureAt = now

	out := *record
	return &out, nil
}

// Clear removes the record, used on a successful access.
func (s *InMemoryStore) Clear(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, userID)
	return nil
}
