package clearance

import (
	"context"
	"sync"

	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
	"zonegate/pkg/platform/sentinel"
)

// InMemoryStore keeps clearance records in a map. It backs tests and
// single-process deployments; production points at the Postgres store fed
// by the enrollment pipeline.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.UserID]Status
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.UserID]Status)}
}

// Put inserts or replaces a clearance record. Exposed for seeding and
// tests; the access core itself never calls it.
func (s *InMemoryStore) Put(_ context.Context, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[status.UserID] = status
	return nil
}

func (s *InMemoryStore) FindByUser(_ context.Context, userID id.UserID) (*Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.records[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	// Copy slices so callers observe a consistent snapshot.
	out := status
	out.ActiveCredentials = append([]zone.CredentialType(nil), status.ActiveCredentials...)
	out.RevokedCredentials = append([]zone.CredentialType(nil), status.RevokedCredentials...)
	out.TrustScoreHistory = append([]TrustSample(nil), status.TrustScoreHistory...)
	return &out, nil
}
