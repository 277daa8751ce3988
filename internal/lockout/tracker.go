package lockout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
	dErrors "zonegate/pkg/domain-errors"
	"zonegate/pkg/requestcontext"
)

// Store is the persistence contract for attempt records.
type Store interface {
	Get(ctx context.Context, userID id.UserID) (*AttemptRecord, error)
	RecordFailure(ctx context.Context, userID id.UserID, window time.Duration) (*AttemptRecord, error)
	Clear(ctx context.Context, userID id.UserID) error
}

// Tracker evaluates the cooldown predicate against per-zone thresholds and
// records failures. It owns no policy of its own; everything comes from the
// zone.Requirements passed in.
type Tracker struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func New(store Store, opts ...Option) (*Tracker, error) {
	if store == nil {
		return nil, errors.New("lockout store is required")
	}
	t := &Tracker{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Check evaluates whether the user is currently locked out for a zone:
// count >= MaxFailedAttempts and the window since the last failure has not
// yet elapsed. An absent or lapsed record means no cooldown.
func (t *Tracker) Check(ctx context.Context, userID id.UserID, req zone.Requirements) (*CooldownState, error) {
	record, err := t.store.Get(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read attempt record")
	}
	if record == nil {
		return &CooldownState{}, nil
	}

	now := requestcontext.Now(ctx)
	if record.WindowElapsed(req.CooldownPeriod, now) {
		// Implicit reset: the window lapsed, the record no longer counts.
		return &CooldownState{}, nil
	}
	if !record.AtLimit(req.MaxFailedAttempts) {
		return &CooldownState{FailureCount: record.FailureCount}, nil
	}

	retryAfter := record.LastFailureAt.Add(req.CooldownPeriod).Sub(now)
	return &CooldownState{
		InCooldown:   true,
		FailureCount: record.FailureCount,
		RetryAfter:   retryAfter,
	}, nil
}

// RecordFailure increments the user's counter using the zone's cooldown
// window, and reports whether this failure crossed the lockout threshold.
func (t *Tracker) RecordFailure(ctx context.Context, userID id.UserID, req zone.Requirements) (*AttemptRecord, bool, error) {
	record, err := t.store.RecordFailure(ctx, userID, req.CooldownPeriod)
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record attempt")
	}
	crossed := record.FailureCount == req.MaxFailedAttempts
	if crossed {
		t.logger.WarnContext(ctx, "lockout threshold reached",
			"user_id", userID.String(),
			"failure_count", record.FailureCount,
			"cooldown", req.CooldownPeriod.String(),
		)
	}
	return record, crossed, nil
}

// Clear drops the user's record after a successful access.
func (t *Tracker) Clear(ctx context.Context, userID id.UserID) error {
	if err := t.store.Clear(ctx, userID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear attempt record")
	}
	return nil
}
