// Package session owns the registry of live zone sessions: minting,
// validity checks, and termination including monitor-handle cleanup.
package session

import (
	"time"

	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
)

// Session is a time-bounded authorization artifact for one user in one
// zone. ExpirationTime is always StartTime plus the zone's session timeout.
type Session struct {
	ID                  id.SessionID      `json:"id"`
	UserID              id.UserID         `json:"user_id"`
	Zone                zone.SecurityZone `json:"zone"`
	StartTime           time.Time         `json:"start_time"`
	LastActivity        time.Time         `json:"last_activity"`
	ExpirationTime      time.Time         `json:"expiration_time"`
	BiometricConfidence float64           `json:"biometric_confidence"`
	AITrustScore        float64           `json:"ai_trust_score"`
	ActiveMonitoring    bool              `json:"active_monitoring"`
	SealedToken         []byte            `json:"sealed_token"`
}

// IsValidAt reports whether the session is still live at the given time.
func (s *Session) IsValidAt(now time.Time) bool {
	return now.Before(s.ExpirationTime)
}

// Touch records activity without extending the expiration time.
func (s *Session) Touch(now time.Time) {
	s.LastActivity = now
}

// TerminationReason explains why a session ended.
type TerminationReason string

const (
	ReasonExplicit           TerminationReason = "explicit"
	ReasonExpired            TerminationReason = "expired"
	ReasonSuspiciousActivity TerminationReason = "suspicious_activity"
	ReasonMonitorFailure     TerminationReason = "monitor_failure"
	ReasonShutdown           TerminationReason = "shutdown"
)

func (r TerminationReason) String() string { return string(r) }
