package access

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

import (
	"context"

	"zonegate/internal/clearance"
	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
)

// BiometricSample is a captured sample submitted with an access request.
// The matching itself is external; the core only forwards the sample.
type BiometricSample struct {
	Kind string // e.g. "fingerprint", "iris"
	Data []byte
}

// CredentialVerifier performs the credential-specific validity check for a
// submitted proof. A false return or an error both fail the gate closed.
type CredentialVerifier interface {
	VerifyCredential(ctx context.Context, userID id.UserID, proof zone.CredentialProof) (bool, error)
}

// BiometricVerifier matches a sample against the user's enrolled template
// and returns a confidence in [0,1].
type BiometricVerifier interface {
	VerifyBiometric(ctx context.Context, userID id.UserID, sample BiometricSample) (float64, error)
}

// TrustScorer returns a risk score in [0,1], consumed both at admission
// and during continuous monitoring.
type TrustScorer interface {
	ComputeTrustScore(ctx context.Context, userID id.UserID) (float64, error)
}

// ClearanceReader is the read-only view of the enrollment registry.
type ClearanceReader interface {
	FindByUser(ctx context.Context, userID id.UserID) (*clearance.Status, error)
}
