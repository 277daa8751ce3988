// Package collaborators provides development stand-ins for the external
// verification systems. Real deployments swap these for clients of the
// actual credential, biometric, and risk-scoring services; the access core
// only ever sees the interfaces.
package collaborators

import (
	"context"
	"sync"

	"zonegate/internal/access"
	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
)

// SimulatedCredentialVerifier accepts any structurally complete proof.
type SimulatedCredentialVerifier struct{}

func NewSimulatedCredentialVerifier() *SimulatedCredentialVerifier {
	return &SimulatedCredentialVerifier{}
}

func (v *SimulatedCredentialVerifier) VerifyCredential(_ context.Context, _ id.UserID, proof zone.CredentialProof) (bool, error) {
	switch p := proof.(type) {
	case zone.BasicIDProof:
		return p.DocumentNumber != "", nil
	case zone.NDAProof:
		return p.AgreementID != "", nil
	case zone.GovernmentClearanceProof:
		return p.CaseNumber != "" && p.Agency != "", nil
	case zone.MilitaryClearanceProof:
		return p.ServiceNumber != "", nil
	case zone.QuantumClearanceProof:
		return p.CertificateID != "", nil
	case zone.BiometricProof:
		return p.TemplateID != "", nil
	case zone.HardwareTokenProof:
		return p.TokenSerial != "" && p.OTP != "", nil
	default:
		return false, nil
	}
}

// SimulatedBiometricVerifier returns a fixed confidence for any non-empty
// sample.
type SimulatedBiometricVerifier struct {
	Confidence float64
}

func NewSimulatedBiometricVerifier() *SimulatedBiometricVerifier {
	return &SimulatedBiometricVerifier{Confidence: 0.99}
}

func (v *SimulatedBiometricVerifier) VerifyBiometric(_ context.Context, _ id.UserID, sample access.BiometricSample) (float64, error) {
	if len(sample.Data) == 0 {
		return 0, nil
	}
	return v.Confidence, nil
}

// StaticTrustScorer returns a configurable score, overridable per user.
// Useful for demos that trip the continuous monitor.
type StaticTrustScorer struct {
	mu      sync.RWMutex
	def     float64
	peruser map[id.UserID]float64
}

func NewStaticTrustScorer(score float64) *StaticTrustScorer {
	return &StaticTrustScorer{def: score, peruser: make(map[id.UserID]float64)}
}

func (s *StaticTrustScorer) ComputeTrustScore(_ context.Context, userID id.UserID) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if score, ok := s.peruser[userID]; ok {
		return score, nil
	}
	return s.def, nil
}

// SetScore overrides the score for one user.
func (s *StaticTrustScorer) SetScore(userID id.UserID, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peruser[userID] = score
}
