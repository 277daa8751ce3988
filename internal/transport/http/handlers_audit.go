package httptransport

import (
	"net/http"
	"time"

	id "zonegate/pkg/domain"
	dErrors "zonegate/pkg/domain-errors"
)

type auditEventResponse struct {
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id,omitempty"`
	Zone      string    `json:"zone,omitempty"`
	Action    string    `json:"action"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

func (h *Handler) handleListAuditEvents(w http.ResponseWriter, r *http.Request) {
	if h.auditLog == nil {
		writeError(w, dErrors.New(dErrors.CodeUnavailable, "audit trail is not configured"))
		return
	}
	userID, err := id.ParseUserID(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	events, err := h.auditLog.List(r.Context(), userID)
	if err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit trail"))
		return
	}

	out := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, auditEventResponse{
			Category:  string(e.Category),
			Timestamp: e.Timestamp,
			UserID:    e.UserID.String(),
			SessionID: e.SessionID,
			Zone:      e.Zone,
			Action:    e.Action,
			Reason:    e.Reason,
			RequestID: e.RequestID,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}
