package session

import (
	"context"
	"sync"

	id "zonegate/pkg/domain"
	"zonegate/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in a map guarded by a single lock. Execute
// runs its callbacks under that lock so validity checks and mutations are
// atomic with respect to concurrent requests.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*Session
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[id.SessionID]*Session)}
}

func (s *InMemoryStore) Save(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

// FindByID returns a copy of the session. Read-only: it never deletes
// expired entries as a side effect.
func (s *InMemoryStore) FindByID(_ context.Context, sessionID id.SessionID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *session
	return &out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Session
	for _, session := range s.sessions {
		if session.UserID == userID {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

// Execute atomically validates and mutates a session under the store lock.
// The validate callback may reject the mutation; the mutate callback runs
// only when validate returns nil. Returns the post-mutation state.
func (s *InMemoryStore) Execute(_ context.Context, sessionID id.SessionID, validate func(*Session) error, mutate func(*Session)) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(session); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(session)
	}
	out := *session
	return &out, nil
}
