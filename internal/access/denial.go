// Package access orchestrates the zone-access decision: cooldown, clearance
// and credential checks, biometric confidence, AI trust, then session
// minting and monitor registration.
package access

import "time"

// DenialReason is the typed outcome of a failed gate. Denials are values,
// never errors: expected business-rule failures cross the public API as a
// denial, not a thrown error.
type DenialReason string

const (
	DenialCooldownActive        DenialReason = "cooldown_active"
	DenialInsufficientClearance DenialReason = "insufficient_clearance"
	DenialMissingCredential     DenialReason = "missing_credential"
	DenialInvalidCredential     DenialReason = "invalid_credential"
	DenialBiometricRequired     DenialReason = "biometric_required"
	DenialBiometricFailed       DenialReason = "biometric_failed"
	DenialAITrustFailed         DenialReason = "ai_trust_failed"
	DenialSessionNotFound       DenialReason = "session_not_found"
	DenialSessionExpired        DenialReason = "session_expired"
)

func (r DenialReason) String() string { return string(r) }

// Denial describes why access was refused.
type Denial struct {
	Reason  DenialReason
	Message string
	// RetryAfter is set only for cooldown denials: how long until the
	// window clears.
	RetryAfter time.Duration
}
