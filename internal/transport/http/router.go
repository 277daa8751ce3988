package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dErrors "zonegate/pkg/domain-errors"
	"zonegate/pkg/platform/middleware/requesttime"
)

// NewRouter wires the public endpoints. Handlers stay thin and delegate to
// the access coordinator; transport concerns remain isolated here.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requesttime.Middleware)

	r.Post("/access/request", h.handleRequestAccess)
	r.Get("/sessions/{sessionID}/valid", h.handleSessionValidity)
	r.Delete("/sessions/{sessionID}", h.handleTerminateSession)
	r.Get("/sessions", h.handleListSessions)
	r.Delete("/sessions", h.handleTerminateAllSessions)
	r.Get("/audit/events", h.handleListAuditEvents)

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// writeJSON centralizes response encoding.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates domain errors into the JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, dErrors.StatusOf(err), map[string]string{
		"error": string(dErrors.CodeOf(err)),
	})
}
