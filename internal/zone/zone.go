// Package zone defines the security-zone ladder, credential types, and the
// static per-zone access policy table.
package zone

import (
	dErrors "zonegate/pkg/domain-errors"
)

// SecurityZone is one tier of the four-level access ladder. Zones are
// ordered: a higher value always demands at least as much as a lower one.
type SecurityZone int

const (
	Public SecurityZone = iota
	Restricted
	Classified
	UltraClassified
)

// Level returns the clearance level a zone sits at (0..3).
func (z SecurityZone) Level() int { return int(z) }

// IsValid checks the zone is one of the four defined tiers.
func (z SecurityZone) IsValid() bool {
	return z >= Public && z <= UltraClassified
}

// StricterThan reports whether z demands more than other.
func (z SecurityZone) StricterThan(other SecurityZone) bool {
	return z > other
}

func (z SecurityZone) String() string {
	switch z {
	case Public:
		return "public"
	case Restricted:
		return "restricted"
	case Classified:
		return "classified"
	case UltraClassified:
		return "ultra_classified"
	default:
		return "unknown"
	}
}

// MarshalText renders the zone by its wire name.
func (z SecurityZone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

func (z *SecurityZone) UnmarshalText(b []byte) error {
	parsed, err := ParseZone(string(b))
	if err != nil {
		return err
	}
	*z = parsed
	return nil
}

// ParseZone creates a SecurityZone from its wire name, validating it.
func ParseZone(s string) (SecurityZone, error) {
	switch s {
	case "public":
		return Public, nil
	case "restricted":
		return Restricted, nil
	case "classified":
		return Classified, nil
	case "ultra_classified":
		return UltraClassified, nil
	}
	return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid zone: must be one of public, restricted, classified, ultra_classified")
}

// Zones lists every zone in ascending strictness order.
func Zones() []SecurityZone {
	return []SecurityZone{Public, Restricted, Classified, UltraClassified}
}

// CredentialType is a typed proof of eligibility required by one or more
// zones.
type CredentialType string

const (
	CredentialBasicID             CredentialType = "basic_id"
	CredentialNDA                 CredentialType = "nda"
	CredentialGovernmentClearance CredentialType = "government_clearance"
	CredentialMilitaryClearance   CredentialType = "military_clearance"
	CredentialQuantumClearance    CredentialType = "quantum_clearance"
	CredentialBiometric           CredentialType = "biometric"
	CredentialHardwareToken       CredentialType = "hardware_token"
)

// IsValid checks if the credential type is one of the supported enum values.
func (t CredentialType) IsValid() bool {
	switch t {
	case CredentialBasicID, CredentialNDA, CredentialGovernmentClearance,
		CredentialMilitaryClearance, CredentialQuantumClearance,
		CredentialBiometric, CredentialHardwareToken:
		return true
	}
	return false
}

// String returns the string representation.
func (t CredentialType) String() string {
	return string(t)
}

// ParseCredentialType creates a CredentialType from a string, validating it.
func ParseCredentialType(s string) (CredentialType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "credential type cannot be empty")
	}
	t := CredentialType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid credential type: "+s)
	}
	return t, nil
}
