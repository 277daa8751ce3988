package audit

import (
	"time"

	id "zonegate/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. This
// enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategorySecurity covers events relevant to security monitoring and
	// forensics: denials, lockouts, forced terminations.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and
	// operational visibility: session creation, routine access grants.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	SessionID string
	Zone      string
	Action    string
	Reason    string
	// RequestID is the correlation ID from the request context, when present.
	RequestID string
}

// SecurityEvent names the actions the core emits.
type SecurityEvent string

const (
	EventSessionCreated     SecurityEvent = "SESSION_CREATED"
	EventSessionTerminated  SecurityEvent = "SESSION_TERMINATED"
	EventAccessDenied       SecurityEvent = "ACCESS_DENIED"
	EventAccessGranted      SecurityEvent = "ACCESS_GRANTED"
	EventLockoutTriggered   SecurityEvent = "LOCKOUT_TRIGGERED"
	EventSuspiciousActivity SecurityEvent = "SUSPICIOUS_ACTIVITY"
)
