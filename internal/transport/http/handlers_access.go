// Package httptransport is the thin HTTP layer over the access coordinator.
package httptransport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"zonegate/internal/access"
	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
	dErrors "zonegate/pkg/domain-errors"
	"zonegate/pkg/platform/audit"
	pkgstrings "zonegate/pkg/platform/strings"
)

// HealthChecker reports readiness of one backing dependency.
type HealthChecker func(ctx context.Context) error

// Handler carries the coordinator plus named health checks.
type Handler struct {
	coordinator *access.Coordinator
	auditLog    *audit.Publisher
	logger      *slog.Logger
	health      map[string]HealthChecker
}

func NewHandler(coordinator *access.Coordinator, logger *slog.Logger, health map[string]HealthChecker) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{coordinator: coordinator, logger: logger, health: health}
}

// WithAuditLog exposes the audit trail through the query endpoint.
func (h *Handler) WithAuditLog(p *audit.Publisher) *Handler {
	h.auditLog = p
	return h
}

type credentialPayload struct {
	Type  string          `json:"type"`
	Proof json.RawMessage `json:"proof"`
}

type biometricPayload struct {
	Kind string `json:"kind"`
	Data string `json:"data"` // base64
}

type accessRequestPayload struct {
	UserID      string              `json:"user_id"`
	Zone        string              `json:"zone"`
	Credentials []credentialPayload `json:"credentials"`
	Biometric   *biometricPayload   `json:"biometric,omitempty"`
}

type sessionResponse struct {
	SessionID           string    `json:"session_id"`
	UserID              string    `json:"user_id"`
	Zone                string    `json:"zone"`
	StartTime           time.Time `json:"start_time"`
	ExpirationTime      time.Time `json:"expiration_time"`
	BiometricConfidence float64   `json:"biometric_confidence"`
	AITrustScore        float64   `json:"ai_trust_score"`
	ActiveMonitoring    bool      `json:"active_monitoring"`
	SealedToken         string    `json:"sealed_token,omitempty"`
}

type denialResponse struct {
	Denied            bool   `json:"denied"`
	Reason            string `json:"reason"`
	Message           string `json:"message,omitempty"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

func (h *Handler) handleRequestAccess(w http.ResponseWriter, r *http.Request) {
	var payload accessRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	req, err := decodeAccessRequest(payload)
	if err != nil {
		writeError(w, err)
		return
	}

	sess, denial, err := h.coordinator.RequestZoneAccess(r.Context(), *req)
	if err != nil {
		writeError(w, err)
		return
	}
	if denial != nil {
		writeDenial(w, denial)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID:           sess.ID.String(),
		UserID:              sess.UserID.String(),
		Zone:                sess.Zone.String(),
		StartTime:           sess.StartTime,
		ExpirationTime:      sess.ExpirationTime,
		BiometricConfidence: sess.BiometricConfidence,
		AITrustScore:        sess.AITrustScore,
		ActiveMonitoring:    sess.ActiveMonitoring,
		SealedToken:         string(sess.SealedToken),
	})
}

func decodeAccessRequest(payload accessRequestPayload) (*access.Request, error) {
	userID, err := id.ParseUserID(payload.UserID)
	if err != nil {
		return nil, err
	}
	z, err := zone.ParseZone(payload.Zone)
	if err != nil {
		return nil, err
	}

	// Normalize submitted type names before decoding proofs; duplicates
	// keep the last submitted proof.
	names := make([]string, 0, len(payload.Credentials))
	for _, c := range payload.Credentials {
		names = append(names, c.Type)
	}
	names = pkgstrings.DedupeAndTrimLower(names)
	byName := make(map[string]credentialPayload, len(payload.Credentials))
	for _, c := range payload.Credentials {
		byName[normalizeType(c.Type)] = c
	}

	creds := make(zone.CredentialSet, len(names))
	for _, name := range names {
		c := byName[name]
		credType, err := zone.ParseCredentialType(name)
		if err != nil {
			return nil, err
		}
		proof, err := decodeProof(credType, c.Proof)
		if err != nil {
			return nil, err
		}
		creds[credType] = proof
	}

	req := &access.Request{
		UserID:      userID,
		Zone:        z,
		Credentials: creds,
	}
	if payload.Biometric != nil {
		data, err := base64.StdEncoding.DecodeString(payload.Biometric.Data)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "biometric data must be base64")
		}
		req.Biometric = &access.BiometricSample{Kind: payload.Biometric.Kind, Data: data}
	}
	return req, nil
}

func normalizeType(s string) string {
	out := pkgstrings.DedupeAndTrimLower([]string{s})
	if len(out) == 0 {
		return ""
	}
	return out[0]
}

// decodeProof maps a wire credential onto its tagged proof variant.
func decodeProof(t zone.CredentialType, raw json.RawMessage) (zone.CredentialProof, error) {
	if len(raw) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credential proof is required for "+t.String())
	}
	var (
		proof zone.CredentialProof
		err   error
	)
	switch t {
	case zone.CredentialBasicID:
		var p zone.BasicIDProof
		err = json.Unmarshal(raw, &p)
		proof = p
	case zone.CredentialNDA:
		var p zone.NDAProof
		err = json.Unmarshal(raw, &p)
		proof = p
	case zone.CredentialGovernmentClearance:
		var p zone.GovernmentClearanceProof
		err = json.Unmarshal(raw, &p)
		proof = p
	case zone.CredentialMilitaryClearance:
		var p zone.MilitaryClearanceProof
		err = json.Unmarshal(raw, &p)
		proof = p
	case zone.CredentialQuantumClearance:
		var p zone.QuantumClearanceProof
		err = json.Unmarshal(raw, &p)
		proof = p
	case zone.CredentialBiometric:
		var p zone.BiometricProof
		err = json.Unmarshal(raw, &p)
		proof = p
	case zone.CredentialHardwareToken:
		var p zone.HardwareTokenProof
		err = json.Unmarshal(raw, &p)
		proof = p
	default:
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unsupported credential type: "+t.String())
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed proof for "+t.String())
	}
	return proof, nil
}

func writeDenial(w http.ResponseWriter, denial *access.Denial) {
	status := http.StatusForbidden
	if denial.Reason == access.DenialCooldownActive {
		status = http.StatusTooManyRequests
	}
	writeJSON(w, status, denialResponse{
		Denied:            true,
		Reason:            denial.Reason.String(),
		Message:           denial.Message,
		RetryAfterSeconds: int(denial.RetryAfter.Seconds()),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	result := make(map[string]string, len(h.health))
	status := http.StatusOK
	for name, check := range h.health {
		if err := check(r.Context()); err != nil {
			result[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "ok"
	}
	writeJSON(w, status, result)
}
