// Package lockout tracks failed access attempts per user and drives the
// cooldown gate. Thresholds are never global: every check reads the
// per-zone MaxFailedAttempts and CooldownPeriod from the policy table.
package lockout

import (
	"time"

	id "zonegate/pkg/domain"
)

// AttemptRecord is the per-user failure state. Created lazily on first
// failure; considered absent again once the relevant cooldown window has
// elapsed past LastFailureAt.
type AttemptRecord struct {
	UserID        id.UserID
	FailureCount  int
	LastFailureAt time.Time
}

// WindowElapsed reports whether the cooldown window has fully passed since
// the last failure, which implicitly resets the record.
func (r *AttemptRecord) WindowElapsed(window time.Duration, now time.Time) bool {
	return !now.Before(r.LastFailureAt.Add(window))
}

// AtLimit reports whether the record has reached the attempt threshold.
func (r *AttemptRecord) AtLimit(maxAttempts int) bool {
	return maxAttempts > 0 && r.FailureCount >= maxAttempts
}

// CooldownState is the outcome of a cooldown check against one zone's
// thresholds.
type CooldownState struct {
	InCooldown   bool
	FailureCount int
	// RetryAfter is how long until the window clears; zero when not in
	// cooldown.
	RetryAfter time.Duration
}
