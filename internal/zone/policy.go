package zone

import (
	"fmt"
	"time"
)

// Requirements captures the static access policy for one zone. The cooldown
// and attempt thresholds here are authoritative: the lockout tracker reads
// them per zone instead of any global constant.
type Requirements struct {
	MinClearanceLevel      int
	RequiredCredentials    []CredentialType
	MFARequired            bool
	BiometricRequired      bool
	AIVerificationRequired bool
	ContinuousMonitoring   bool
	SessionTimeout         time.Duration
	MaxFailedAttempts      int
	CooldownPeriod         time.Duration
}

// RequiresCredential reports whether t is in the required set.
func (r Requirements) RequiresCredential(t CredentialType) bool {
	for _, c := range r.RequiredCredentials {
		if c == t {
			return true
		}
	}
	return false
}

// PolicyTable is the immutable zone → requirements mapping. Construct it
// once at startup and pass it by reference; Requirements returns copies so
// callers cannot mutate the table.
type PolicyTable struct {
	requirements map[SecurityZone]Requirements
}

// DefaultPolicyTable builds the standard four-tier ladder.
func DefaultPolicyTable() *PolicyTable {
	table := &PolicyTable{
		requirements: map[SecurityZone]Requirements{
			Public: {
				MinClearanceLevel:   0,
				RequiredCredentials: []CredentialType{CredentialBasicID},
				SessionTimeout:      time.Hour,
				MaxFailedAttempts:   5,
				CooldownPeriod:      5 * time.Minute,
			},
			Restricted: {
				MinClearanceLevel:   1,
				RequiredCredentials: []CredentialType{CredentialBasicID, CredentialNDA},
				MFARequired:         true,
				SessionTimeout:      30 * time.Minute,
				MaxFailedAttempts:   3,
				CooldownPeriod:      5 * time.Minute,
			},
			Classified: {
				MinClearanceLevel: 2,
				RequiredCredentials: []CredentialType{
					CredentialBasicID, CredentialNDA, CredentialGovernmentClearance,
				},
				MFARequired:          true,
				BiometricRequired:    true,
				ContinuousMonitoring: true,
				SessionTimeout:       15 * time.Minute,
				MaxFailedAttempts:    3,
				CooldownPeriod:       10 * time.Minute,
			},
			UltraClassified: {
				MinClearanceLevel: 3,
				RequiredCredentials: []CredentialType{
					CredentialBasicID, CredentialNDA, CredentialGovernmentClearance,
					CredentialMilitaryClearance, CredentialQuantumClearance,
					CredentialHardwareToken,
				},
				MFARequired:            true,
				BiometricRequired:      true,
				AIVerificationRequired: true,
				ContinuousMonitoring:   true,
				SessionTimeout:         5 * time.Minute,
				MaxFailedAttempts:      2,
				CooldownPeriod:         15 * time.Minute,
			},
		},
	}
	return table
}

// Requirements returns the policy for a zone. The second return is false
// for zones outside the ladder.
func (t *PolicyTable) Requirements(z SecurityZone) (Requirements, bool) {
	req, ok := t.requirements[z]
	if !ok {
		return Requirements{}, false
	}
	// Copy the credential slice so callers cannot mutate table state.
	creds := make([]CredentialType, len(req.RequiredCredentials))
	copy(creds, req.RequiredCredentials)
	req.RequiredCredentials = creds
	return req, true
}

// Validate checks the monotonic policy ladder: a stricter zone never
// relaxes any field relative to a less strict one.
func (t *PolicyTable) Validate() error {
	zones := Zones()
	for i := 1; i < len(zones); i++ {
		lower, ok := t.requirements[zones[i-1]]
		if !ok {
			return fmt.Errorf("policy table missing zone %s", zones[i-1])
		}
		higher, ok := t.requirements[zones[i]]
		if !ok {
			return fmt.Errorf("policy table missing zone %s", zones[i])
		}
		if higher.MinClearanceLevel < lower.MinClearanceLevel {
			return fmt.Errorf("zone %s relaxes min clearance level below %s", zones[i], zones[i-1])
		}
		for _, c := range lower.RequiredCredentials {
			if !higher.RequiresCredential(c) {
				return fmt.Errorf("zone %s drops credential %s required by %s", zones[i], c, zones[i-1])
			}
		}
		if higher.SessionTimeout > lower.SessionTimeout {
			return fmt.Errorf("zone %s extends session timeout beyond %s", zones[i], zones[i-1])
		}
		if higher.MaxFailedAttempts > lower.MaxFailedAttempts {
			return fmt.Errorf("zone %s allows more failed attempts than %s", zones[i], zones[i-1])
		}
		if higher.CooldownPeriod < lower.CooldownPeriod {
			return fmt.Errorf("zone %s shortens cooldown below %s", zones[i], zones[i-1])
		}
		if lower.MFARequired && !higher.MFARequired {
			return fmt.Errorf("zone %s relaxes MFA required by %s", zones[i], zones[i-1])
		}
		if lower.BiometricRequired && !higher.BiometricRequired {
			return fmt.Errorf("zone %s relaxes biometrics required by %s", zones[i], zones[i-1])
		}
		if lower.AIVerificationRequired && !higher.AIVerificationRequired {
			return fmt.Errorf("zone %s relaxes AI verification required by %s", zones[i], zones[i-1])
		}
		if lower.ContinuousMonitoring && !higher.ContinuousMonitoring {
			return fmt.Errorf("zone %s relaxes monitoring required by %s", zones[i], zones[i-1])
		}
	}
	return nil
}
