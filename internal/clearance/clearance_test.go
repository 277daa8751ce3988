package clearance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
	"zonegate/pkg/platform/sentinel"
)

func TestStatus_HasActiveCredential(t *testing.T) {
	status := Status{
		ActiveCredentials:  []zone.CredentialType{zone.CredentialBasicID, zone.CredentialNDA},
		RevokedCredentials: []zone.CredentialType{zone.CredentialNDA},
	}

	assert.True(t, status.HasActiveCredential(zone.CredentialBasicID))
	// Revocation wins even when the type is still listed active.
	assert.False(t, status.HasActiveCredential(zone.CredentialNDA))
	assert.False(t, status.HasActiveCredential(zone.CredentialHardwareToken))
}

func TestStatus_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	expiring := Status{ExpirationDate: now.Add(time.Hour)}
	assert.False(t, expiring.IsExpired(now))
	assert.False(t, expiring.IsExpired(now.Add(time.Hour)))
	assert.True(t, expiring.IsExpired(now.Add(time.Hour+time.Second)))

	// Zero expiration means no recorded expiry.
	open := Status{}
	assert.False(t, open.IsExpired(now.Add(100*365*24*time.Hour)))
}

func TestInMemoryStore_PutAndFind(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	userID := id.NewUserID()

	require.NoError(t, store.Put(ctx, Status{
		UserID:            userID,
		ClearanceLevel:    2,
		ActiveCredentials: []zone.CredentialType{zone.CredentialBasicID},
	}))

	status, err := store.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, status.ClearanceLevel)

	_, err = store.FindByUser(ctx, id.NewUserID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStore_FindReturnsSnapshot(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	userID := id.NewUserID()

	require.NoError(t, store.Put(ctx, Status{
		UserID:            userID,
		ActiveCredentials: []zone.CredentialType{zone.CredentialBasicID},
	}))

	status, err := store.FindByUser(ctx, userID)
	require.NoError(t, err)
	status.ActiveCredentials[0] = zone.CredentialHardwareToken

	fresh, err := store.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, zone.CredentialBasicID, fresh.ActiveCredentials[0])
}

func TestSeedDevClearances(t *testing.T) {
	store := NewInMemoryStore()
	ids := SeedDevClearances(store)
	require.Len(t, ids, 4)

	for level, userID := range ids {
		status, err := store.FindByUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, level, status.ClearanceLevel)
		assert.True(t, status.HasActiveCredential(zone.CredentialBasicID))
	}

	// The top-tier user can satisfy every credential requirement.
	top, err := store.FindByUser(context.Background(), ids[3])
	require.NoError(t, err)
	for _, c := range []zone.CredentialType{
		zone.CredentialGovernmentClearance, zone.CredentialMilitaryClearance,
		zone.CredentialQuantumClearance, zone.CredentialHardwareToken,
	} {
		assert.True(t, top.HasActiveCredential(c), c.String())
	}
}
