package clearance

import (
	"context"
	"time"

	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
)

// SeedDevClearances loads a small set of users covering every tier so a
// fresh in-memory deployment is immediately exercisable. Returns the seeded
// user IDs in ascending clearance order.
func SeedDevClearances(store *InMemoryStore) []id.UserID {
	now := time.Now()
	users := []Status{
		{
			UserID:            id.NewUserID(),
			ClearanceLevel:    0,
			ActiveCredentials: []zone.CredentialType{zone.CredentialBasicID},
			LastVerified:      now,
		},
		{
			UserID:         id.NewUserID(),
			ClearanceLevel: 1,
			ActiveCredentials: []zone.CredentialType{
				zone.CredentialBasicID, zone.CredentialNDA,
			},
			LastVerified: now,
		},
		{
			UserID:         id.NewUserID(),
			ClearanceLevel: 2,
			ActiveCredentials: []zone.CredentialType{
				zone.CredentialBasicID, zone.CredentialNDA,
				zone.CredentialGovernmentClearance, zone.CredentialBiometric,
			},
			LastVerified: now,
		},
		{
			UserID:         id.NewUserID(),
			ClearanceLevel: 3,
			ActiveCredentials: []zone.CredentialType{
				zone.CredentialBasicID, zone.CredentialNDA,
				zone.CredentialGovernmentClearance, zone.CredentialMilitaryClearance,
				zone.CredentialQuantumClearance, zone.CredentialBiometric,
				zone.CredentialHardwareToken,
			},
			LastVerified: now,
		},
	}

	ids := make([]id.UserID, 0, len(users))
	for _, u := range users {
		_ = store.Put(context.Background(), u)
		ids = append(ids, u.UserID)
	}
	return ids
}
