package zone

import "time"

// CredentialProof is a tagged proof variant. Each credential type carries
// its own proof schema instead of an untyped blob; the external verifier
// decides whether a given proof is actually valid.
type CredentialProof interface {
	Type() CredentialType
}

// BasicIDProof backs the lowest tier: a government-issued document number.
type BasicIDProof struct {
	DocumentNumber string
}

func (BasicIDProof) Type() CredentialType { return CredentialBasicID }

// NDAProof references a signed non-disclosure agreement.
type NDAProof struct {
	AgreementID string
	SignedAt    time.Time
}

func (NDAProof) Type() CredentialType { return CredentialNDA }

// GovernmentClearanceProof references an adjudicated clearance case.
type GovernmentClearanceProof struct {
	CaseNumber string
	Agency     string
}

func (GovernmentClearanceProof) Type() CredentialType { return CredentialGovernmentClearance }

// MilitaryClearanceProof references a service-issued clearance.
type MilitaryClearanceProof struct {
	ServiceNumber string
	Branch        string
}

func (MilitaryClearanceProof) Type() CredentialType { return CredentialMilitaryClearance }

// QuantumClearanceProof references a post-quantum readiness certificate.
type QuantumClearanceProof struct {
	CertificateID string
}

func (QuantumClearanceProof) Type() CredentialType { return CredentialQuantumClearance }

// BiometricProof references an enrolled biometric template.
type BiometricProof struct {
	TemplateID string
}

func (BiometricProof) Type() CredentialType { return CredentialBiometric }

// HardwareTokenProof carries a token serial plus its current one-time code.
type HardwareTokenProof struct {
	TokenSerial string
	OTP         string
}

func (HardwareTokenProof) Type() CredentialType { return CredentialHardwareToken }

// CredentialSet maps credential types to the proof submitted for each.
type CredentialSet map[CredentialType]CredentialProof

// NewCredentialSet builds a set from proofs, keeping the last proof per
// type when duplicates are submitted.
func NewCredentialSet(proofs ...CredentialProof) CredentialSet {
	set := make(CredentialSet, len(proofs))
	for _, p := range proofs {
		if p == nil {
			continue
		}
		set[p.Type()] = p
	}
	return set
}

// Has reports whether the set contains a proof for the given type.
func (s CredentialSet) Has(t CredentialType) bool {
	_, ok := s[t]
	return ok
}
