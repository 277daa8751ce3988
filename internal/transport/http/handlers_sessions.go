package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"zonegate/internal/session"
	id "zonegate/pkg/domain"
	dErrors "zonegate/pkg/domain-errors"
)

type validityResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func (h *Handler) handleSessionValidity(w http.ResponseWriter, r *http.Request) {
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	_, denial, err := h.coordinator.CheckSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	if denial != nil {
		writeJSON(w, http.StatusOK, validityResponse{Valid: false, Reason: denial.Reason.String()})
		return
	}
	writeJSON(w, http.StatusOK, validityResponse{Valid: true})
}

func (h *Handler) handleTerminateSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.coordinator.TerminateSession(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	sessions, err := h.coordinator.Sessions().ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse{
			SessionID:           s.ID.String(),
			UserID:              s.UserID.String(),
			Zone:                s.Zone.String(),
			StartTime:           s.StartTime,
			ExpirationTime:      s.ExpirationTime,
			BiometricConfidence: s.BiometricConfidence,
			AITrustScore:        s.AITrustScore,
			ActiveMonitoring:    s.ActiveMonitoring,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func (h *Handler) handleTerminateAllSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	terminated, err := h.coordinator.Sessions().TerminateAllForUser(r.Context(), userID, session.ReasonExplicit)
	if err != nil && terminated == 0 {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to terminate sessions"))
		return
	}
	// Partial failure still reports what was terminated.
	writeJSON(w, http.StatusOK, map[string]int{"terminated": terminated})
}
