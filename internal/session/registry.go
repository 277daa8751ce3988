package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"zonegate/internal/platform/metrics"
	"zonegate/internal/token"
	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
	dErrors "zonegate/pkg/domain-errors"
	"zonegate/pkg/platform/audit"
	"zonegate/pkg/platform/sentinel"
	"zonegate/pkg/requestcontext"
)

// Store is the persistence contract for live sessions.
type Store interface {
	Save(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*Session, error)
	Delete(ctx context.Context, sessionID id.SessionID) error
	ListByUser(ctx context.Context, userID id.UserID) ([]*Session, error)
	Execute(ctx context.Context, sessionID id.SessionID, validate func(*Session) error, mutate func(*Session)) (*Session, error)
}

// Canceller cancels the continuous-monitoring task bound to a session.
// Cancel must be idempotent and non-blocking; termination invokes it as
// part of the same operation so no monitoring task outlives its session.
type Canceller interface {
	Cancel(sessionID id.SessionID)
}

// AuditPublisher is the event sink contract. Emission failures are logged
// and never fail the session operation.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Registry mints, validates, and terminates zone sessions.
type Registry struct {
	store     Store
	sealer    token.Sealer
	publisher AuditPublisher
	canceller Canceller
	logger    *slog.Logger
	metrics   *metrics.Metrics

	sealTimeout time.Duration
}

type RegistryOption func(*Registry)

func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) RegistryOption {
	return func(r *Registry) { r.publisher = publisher }
}

func WithMetrics(m *metrics.Metrics) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

// WithSealTimeout bounds the sealer call so a slow cryptographic
// collaborator cannot stall session creation indefinitely.
func WithSealTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.sealTimeout = d
		}
	}
}

func NewRegistry(store Store, sealer token.Sealer, opts ...RegistryOption) (*Registry, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if sealer == nil {
		return nil, errors.New("token sealer is required")
	}
	r := &Registry{
		store:       store,
		sealer:      sealer,
		logger:      slog.Default(),
		sealTimeout: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// BindCanceller attaches the monitor-cancellation hook. The monitor needs
// the registry to terminate sessions, so the hook is bound after both are
// constructed.
func (r *Registry) BindCanceller(c Canceller) {
	r.canceller = c
}

// Create mints a new session for a user who passed every gate. Expiration
// is start time plus the zone's configured session timeout; the token
// payload {user, zone, issuedAt, nonce} is sealed through the external
// encrypt-then-sign pipeline before the session is stored.
func (r *Registry) Create(ctx context.Context, userID id.UserID, z zone.SecurityZone, req zone.Requirements, biometricConfidence, aiTrustScore float64) (*Session, error) {
	now := requestcontext.Now(ctx)
	sessionID := id.NewSessionID()
	nonce := uuid.NewString()

	sealCtx, cancel := context.WithTimeout(ctx, r.sealTimeout)
	defer cancel()
	start := time.Now()
	sealed, err := r.sealer.SealToken(sealCtx, token.Payload{
		UserID:   userID,
		Zone:     z,
		IssuedAt: now,
		Nonce:    nonce,
	})
	r.metrics.ObserveCollaborator("sealer", time.Since(start))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to seal session token")
	}

	session := &Session{
		ID:                  sessionID,
		UserID:              userID,
		Zone:                z,
		StartTime:           now,
		LastActivity:        now,
		ExpirationTime:      now.Add(req.SessionTimeout),
		BiometricConfidence: biometricConfidence,
		AITrustScore:        aiTrustScore,
		ActiveMonitoring:    req.ContinuousMonitoring,
		SealedToken:         sealed,
	}
	if err := r.store.Save(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store session")
	}

	r.metrics.RecordSessionCreated()
	r.logAudit(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: now,
		UserID:    userID,
		SessionID: sessionID.String(),
		Zone:      z.String(),
		Action:    string(audit.EventSessionCreated),
	})
	return session, nil
}

// IsValid reports whether the session exists and has not yet expired. It
// is strictly read-only: expired entries are not deleted here.
func (r *Registry) IsValid(ctx context.Context, sessionID id.SessionID) (bool, error) {
	session, err := r.store.FindByID(ctx, sessionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read session")
	}
	return session.IsValidAt(requestcontext.Now(ctx)), nil
}

// Find returns the session or sentinel.ErrNotFound.
func (r *Registry) Find(ctx context.Context, sessionID id.SessionID) (*Session, error) {
	return r.store.FindByID(ctx, sessionID)
}

// ListByUser returns every stored session for a user.
func (r *Registry) ListByUser(ctx context.Context, userID id.UserID) ([]*Session, error) {
	sessions, err := r.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sessions")
	}
	return sessions, nil
}

// RecordTrustScore updates the session's live trust score atomically.
// Called by the continuous monitor on every successful poll.
func (r *Registry) RecordTrustScore(ctx context.Context, sessionID id.SessionID, score float64) error {
	now := requestcontext.Now(ctx)
	_, err := r.store.Execute(ctx, sessionID, nil, func(s *Session) {
		s.AITrustScore = score
		s.Touch(now)
	})
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "session not found")
	}
	return err
}

// Terminate removes the session, cancels its monitoring task, and emits a
// SESSION_TERMINATED event. Cancellation is part of the same operation so
// no monitor goroutine can outlive its session.
func (r *Registry) Terminate(ctx context.Context, sessionID id.SessionID, reason TerminationReason) error {
	session, err := r.store.FindByID(ctx, sessionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "session not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read session")
	}

	if err := r.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete session")
	}
	if r.canceller != nil {
		r.canceller.Cancel(sessionID)
	}

	r.metrics.RecordTermination(reason.String())
	r.logAudit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    session.UserID,
		SessionID: sessionID.String(),
		Zone:      session.Zone.String(),
		Action:    string(audit.EventSessionTerminated),
		Reason:    reason.String(),
	})
	r.logger.InfoContext(ctx, "session terminated",
		"session_id", sessionID.String(),
		"user_id", session.UserID.String(),
		"zone", session.Zone.String(),
		"reason", reason.String(),
	)
	return nil
}

// TerminateAllForUser ends every session a user holds. Continues past
// individual failures so one bad record cannot block the rest; returns the
// number terminated and the first error observed, if any.
func (r *Registry) TerminateAllForUser(ctx context.Context, userID id.UserID, reason TerminationReason) (int, error) {
	sessions, err := r.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	terminated := 0
	var firstErr error
	for _, s := range sessions {
		if err := r.Terminate(ctx, s.ID, reason); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			r.logger.ErrorContext(ctx, "failed to terminate session",
				"error", err,
				"session_id", s.ID.String(),
				"user_id", userID.String(),
			)
			continue
		}
		terminated++
	}
	return terminated, firstErr
}

func (r *Registry) logAudit(ctx context.Context, event audit.Event) {
	if r.publisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := r.publisher.Emit(ctx, event); err != nil {
		// The sink is fire-and-forget; never fail the operation over it.
		r.logger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"action", event.Action,
		)
	}
}
