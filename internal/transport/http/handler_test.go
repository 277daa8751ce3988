package httptransport_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zonegate/internal/access"
	"zonegate/internal/clearance"
	"zonegate/internal/collaborators"
	"zonegate/internal/lockout"
	"zonegate/internal/session"
	"zonegate/internal/token"
	httptransport "zonegate/internal/transport/http"
	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
	"zonegate/pkg/testutil"
)

type fixture struct {
	router     http.Handler
	clearances *clearance.InMemoryStore
	userID     id.UserID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clearances := clearance.NewInMemoryStore()
	userID := id.NewUserID()
	require.NoError(t, clearances.Put(context.Background(), clearance.Status{
		UserID:         userID,
		ClearanceLevel: 3,
		ActiveCredentials: []zone.CredentialType{
			zone.CredentialBasicID, zone.CredentialNDA,
			zone.CredentialGovernmentClearance, zone.CredentialMilitaryClearance,
			zone.CredentialQuantumClearance, zone.CredentialHardwareToken,
		},
		ExpirationDate: time.Now().Add(365 * 24 * time.Hour),
	}))

	sealer, err := token.NewEphemeralSealer("zonegate-test")
	require.NoError(t, err)
	registry, err := session.NewRegistry(session.NewInMemoryStore(), sealer)
	require.NoError(t, err)
	tracker, err := lockout.New(lockout.NewInMemoryStore())
	require.NoError(t, err)

	coordinator, err := access.New(
		zone.DefaultPolicyTable(),
		clearances,
		tracker,
		registry,
		collaborators.NewSimulatedCredentialVerifier(),
		collaborators.NewSimulatedBiometricVerifier(),
		collaborators.NewStaticTrustScorer(0.99),
	)
	require.NoError(t, err)

	handler := httptransport.NewHandler(coordinator, nil, map[string]httptransport.HealthChecker{
		"sealer": sealer.Health,
	})
	return &fixture{
		router:     httptransport.NewRouter(handler),
		clearances: clearances,
		userID:     userID,
	}
}

func (f *fixture) accessPayload(z string) map[string]any {
	return map[string]any{
		"user_id": f.userID.String(),
		"zone":    z,
		"credentials": []map[string]any{
			{"type": "basic_id", "proof": map[string]string{"DocumentNumber": "ID-100"}},
			{"type": "nda", "proof": map[string]string{"AgreementID": "NDA-7"}},
			{"type": "government_clearance", "proof": map[string]string{"CaseNumber": "GC-42", "Agency": "energy"}},
			{"type": "military_clearance", "proof": map[string]string{"ServiceNumber": "MS-9", "Branch": "space"}},
			{"type": "quantum_clearance", "proof": map[string]string{"CertificateID": "QC-1"}},
			{"type": "hardware_token", "proof": map[string]string{"TokenSerial": "HT-3", "OTP": "123456"}},
		},
		"biometric": map[string]string{
			"kind": "fingerprint",
			"data": base64.StdEncoding.EncodeToString([]byte{0xF1, 0x3A}),
		},
	}
}

func TestRequestAccess_Granted(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/access/request", f.accessPayload("classified")))

	testutil.AssertStatus(t, rr, http.StatusCreated)
	resp := testutil.UnmarshalResponse[map[string]any](t, rr)
	assert.Equal(t, f.userID.String(), (*resp)["user_id"])
	assert.Equal(t, "classified", (*resp)["zone"])
	assert.Equal(t, true, (*resp)["active_monitoring"])
	assert.NotEmpty(t, (*resp)["session_id"])
	assert.NotEmpty(t, (*resp)["sealed_token"])
}

func TestRequestAccess_DeniedMissingCredential(t *testing.T) {
	f := newFixture(t)

	payload := f.accessPayload("classified")
	payload["credentials"] = []map[string]any{
		{"type": "basic_id", "proof": map[string]string{"DocumentNumber": "ID-100"}},
	}

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/access/request", payload))

	testutil.AssertStatus(t, rr, http.StatusForbidden)
	testutil.AssertJSONContains(t, rr, "denied", true)
	testutil.AssertJSONContains(t, rr, "reason", "missing_credential")
}

func TestRequestAccess_CooldownIs429(t *testing.T) {
	f := newFixture(t)

	// Ultra allows 2 failures; an incomplete proof fails the verifier.
	payload := f.accessPayload("ultra_classified")
	payload["credentials"].([]map[string]any)[0]["proof"] = map[string]string{"DocumentNumber": ""}

	for i := 0; i < 2; i++ {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/access/request", payload))
		testutil.AssertStatus(t, rr, http.StatusForbidden)
		testutil.AssertJSONContains(t, rr, "reason", "invalid_credential")
	}

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/access/request", payload))
	testutil.AssertStatus(t, rr, http.StatusTooManyRequests)
	testutil.AssertJSONContains(t, rr, "reason", "cooldown_active")
	testutil.AssertJSONHasKey(t, rr, "retry_after_seconds")
}

func TestRequestAccess_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		rawBody string
	}{
		{name: "malformed json", rawBody: "{not json"},
		{name: "bad user id", mutate: func(p map[string]any) { p["user_id"] = "nope" }},
		{name: "bad zone", mutate: func(p map[string]any) { p["zone"] = "basement" }},
		{name: "unknown credential type", mutate: func(p map[string]any) {
			p["credentials"] = []map[string]any{{"type": "retina", "proof": map[string]string{}}}
		}},
		{name: "bad biometric encoding", mutate: func(p map[string]any) {
			p["biometric"] = map[string]string{"kind": "fingerprint", "data": "!!not-base64!!"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.rawBody != "" {
				req = testutil.NewRequestWithBody(t, http.MethodPost, "/access/request", tt.rawBody)
			} else {
				payload := f.accessPayload("public")
				tt.mutate(payload)
				req = testutil.NewJSONRequest(t, http.MethodPost, "/access/request", payload)
			}
			rr := testutil.DoRequest(f.router, req)
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
		})
	}
}

func TestSessionValidity(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/access/request", f.accessPayload("public")))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[map[string]any](t, rr)
	sessionID := (*created)["session_id"].(string)

	t.Run("live session", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/sessions/"+sessionID+"/valid"))
		testutil.AssertStatus(t, rr, http.StatusOK)
		testutil.AssertJSONContains(t, rr, "valid", true)
	})

	t.Run("unknown session", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/sessions/"+id.NewSessionID().String()+"/valid"))
		testutil.AssertStatus(t, rr, http.StatusOK)
		testutil.AssertJSONContains(t, rr, "valid", false)
		testutil.AssertJSONContains(t, rr, "reason", "session_not_found")
	})

	t.Run("malformed session id", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/sessions/not-a-uuid/valid"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	})
}

func TestTerminateSession(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/access/request", f.accessPayload("public")))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[map[string]any](t, rr)
	sessionID := (*created)["session_id"].(string)

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodDelete, "/sessions/"+sessionID))
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	// Terminated means gone: validity flips and a second delete is 404.
	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/sessions/"+sessionID+"/valid"))
	testutil.AssertJSONContains(t, rr, "valid", false)

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodDelete, "/sessions/"+sessionID))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestListAndTerminateAllSessions(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/access/request", f.accessPayload("public")))
		testutil.AssertStatus(t, rr, http.StatusCreated)
	}

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/sessions?user_id="+f.userID.String()))
	testutil.AssertStatus(t, rr, http.StatusOK)
	list := testutil.UnmarshalResponse[map[string][]map[string]any](t, rr)
	assert.Len(t, (*list)["sessions"], 3)

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodDelete, "/sessions?user_id="+f.userID.String()))
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertJSONContains(t, rr, "terminated", float64(3))

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/sessions?user_id="+f.userID.String()))
	list = testutil.UnmarshalResponse[map[string][]map[string]any](t, rr)
	assert.Empty(t, (*list)["sessions"])
}

func TestListSessions_RequiresUserID(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/sessions"))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
}

func TestHealth(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		f := newFixture(t)
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusOK)
		testutil.AssertJSONContains(t, rr, "sealer", "ok")
	})

	t.Run("failing dependency", func(t *testing.T) {
		handler := httptransport.NewHandler(nil, nil, map[string]httptransport.HealthChecker{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})
		router := httptransport.NewRouter(handler)

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		testutil.AssertJSONContains(t, rr, "redis", "connection refused")
	})
}

func TestMetricsEndpointMounted(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatus(t, rr, http.StatusOK)
}
