// Package clearance models a user's standing with the enrollment registry.
// The access core only reads this data; enrollment and revocation are owned
// by an external process.
package clearance

import (
	"time"

	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
)

// TrustSample is one historical trust-score observation for a user.
type TrustSample struct {
	Score      float64
	ObservedAt time.Time
}

// Status is a user's current clearance standing: numeric level plus the
// credential types currently valid (or revoked) for them.
type Status struct {
	UserID             id.UserID
	ClearanceLevel     int
	ActiveCredentials  []zone.CredentialType
	RevokedCredentials []zone.CredentialType
	LastVerified       time.Time
	ExpirationDate     time.Time
	// TrustScoreHistory is optional enrichment recorded by the scoring
	// side; the core never writes it.
	TrustScoreHistory []TrustSample
}

// HasActiveCredential reports whether t currently satisfies a requirement.
// Revocation wins: a type present in RevokedCredentials never satisfies,
// even if it is also (erroneously) listed active.
func (s *Status) HasActiveCredential(t zone.CredentialType) bool {
	for _, c := range s.RevokedCredentials {
		if c == t {
			return false
		}
	}
	for _, c := range s.ActiveCredentials {
		if c == t {
			return true
		}
	}
	return false
}

// IsExpired reports whether the clearance itself has lapsed at the given
// time. A zero ExpirationDate means no expiry is recorded.
func (s *Status) IsExpired(now time.Time) bool {
	return !s.ExpirationDate.IsZero() && now.After(s.ExpirationDate)
}
