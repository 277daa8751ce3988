// Package token seals and opens session token payloads. The byte layout of
// a sealed token is owned here; the access core treats it as opaque.
package token

import (
	"context"
	"time"

	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
)

// Payload is the plaintext sealed into a session token.
type Payload struct {
	UserID   id.UserID         `json:"user_id"`
	Zone     zone.SecurityZone `json:"zone"`
	IssuedAt time.Time         `json:"issued_at"`
	Nonce    string            `json:"nonce"`
}

// Sealer is the cryptographic collaborator contract: an encrypt-then-sign /
// verify-then-decrypt pair. Implementations are chosen once at startup
// configuration time, never per call.
type Sealer interface {
	SealToken(ctx context.Context, payload Payload) ([]byte, error)
	OpenToken(ctx context.Context, sealed []byte) (Payload, error)
}

// HealthChecker is implemented by sealers that can report on their key
// material, surfaced through the service health endpoint.
type HealthChecker interface {
	Health(ctx context.Context) error
}
