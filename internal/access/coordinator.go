package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zonegate/internal/lockout"
	"zonegate/internal/platform/metrics"
	"zonegate/internal/session"
	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
	dErrors "zonegate/pkg/domain-errors"
	"zonegate/pkg/platform/audit"
	"zonegate/pkg/platform/sentinel"
	"zonegate/pkg/requestcontext"
)

// Verification thresholds. Biometric confidence and admission trust are
// fixed floors, not per-zone policy: a zone either requires the factor or
// it does not.
const (
	BiometricConfidenceThreshold = 0.95
	AdmissionTrustThreshold      = 0.98
)

// Request is one zone-access attempt.
type Request struct {
	UserID      id.UserID
	Zone        zone.SecurityZone
	Credentials zone.CredentialSet
	Biometric   *BiometricSample
}

// MonitorRegistrar starts continuous monitoring for a freshly minted
// session.
type MonitorRegistrar interface {
	Register(sess *session.Session)
}

// Coordinator owns the mutable registries (attempt tracker, session
// registry) and runs the gate chain in fixed order: cooldown, clearance
// and credentials, biometric, AI trust. Cheaper checks short-circuit
// before expensive collaborator calls.
type Coordinator struct {
	policy     *zone.PolicyTable
	clearances ClearanceReader
	tracker    *lockout.Tracker
	sessions   *session.Registry
	monitor    MonitorRegistrar

	credentials CredentialVerifier
	biometrics  BiometricVerifier
	scorer      TrustScorer

	publisher session.AuditPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics

	// callTimeout bounds every external collaborator call so a slow
	// verifier cannot stall a request.
	callTimeout time.Duration
}

type Option func(*Coordinator)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

func WithAuditPublisher(p session.AuditPublisher) Option {
	return func(c *Coordinator) { c.publisher = p }
}

func WithMonitor(m MonitorRegistrar) Option {
	return func(c *Coordinator) { c.monitor = m }
}

func WithCallTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.callTimeout = d
		}
	}
}

func New(
	policy *zone.PolicyTable,
	clearances ClearanceReader,
	tracker *lockout.Tracker,
	sessions *session.Registry,
	credentials CredentialVerifier,
	biometrics BiometricVerifier,
	scorer TrustScorer,
	opts ...Option,
) (*Coordinator, error) {
	if policy == nil {
		return nil, errors.New("policy table is required")
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy table: %w", err)
	}
	if clearances == nil {
		return nil, errors.New("clearance reader is required")
	}
	if tracker == nil {
		return nil, errors.New("attempt tracker is required")
	}
	if sessions == nil {
		return nil, errors.New("session registry is required")
	}
	if credentials == nil {
		return nil, errors.New("credential verifier is required")
	}
	if biometrics == nil {
		return nil, errors.New("biometric verifier is required")
	}
	if scorer == nil {
		return nil, errors.New("trust scorer is required")
	}
	c := &Coordinator{
		policy:      policy,
		clearances:  clearances,
		tracker:     tracker,
		sessions:    sessions,
		credentials: credentials,
		biometrics:  biometrics,
		scorer:      scorer,
		logger:      slog.Default(),
		callTimeout: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RequestZoneAccess runs the gate chain. On success it returns the minted
// session; on a business-rule failure it returns a Denial value. The error
// return is reserved for infrastructure faults in the core's own stores.
func (c *Coordinator) RequestZoneAccess(ctx context.Context, req Request) (*session.Session, *Denial, error) {
	if req.UserID.IsNil() {
		return nil, nil, dErrors.New(dErrors.CodeInvalidInput, "user ID is required")
	}
	requirements, ok := c.policy.Requirements(req.Zone)
	if !ok {
		return nil, nil, dErrors.New(dErrors.CodeInvalidInput, "unknown zone")
	}

	// Gate 1: cooldown. This gate never records a failure; it IS the
	// lockout check. Thresholds come from the zone's policy, not any
	// global constant.
	state, err := c.tracker.Check(ctx, req.UserID, requirements)
	if err != nil {
		return nil, nil, err
	}
	if state.InCooldown {
		denial := &Denial{
			Reason:     DenialCooldownActive,
			Message:    "too many failed attempts, retry later",
			RetryAfter: state.RetryAfter,
		}
		c.recordDenial(ctx, req, requirements, denial, false)
		return nil, denial, nil
	}

	// Gate 2: clearance level and credential set.
	if denial := c.clearanceGate(ctx, req, requirements); denial != nil {
		c.recordDenial(ctx, req, requirements, denial, true)
		return nil, denial, nil
	}

	// Gate 3: biometric confidence, only where the zone demands it.
	biometricConfidence := 0.0
	if requirements.BiometricRequired {
		confidence, denial := c.biometricGate(ctx, req)
		if denial != nil {
			c.recordDenial(ctx, req, requirements, denial, true)
			return nil, denial, nil
		}
		biometricConfidence = confidence
	}

	// Gate 4: AI trust score, only where the zone demands it.
	trustScore := 0.0
	if requirements.AIVerificationRequired {
		score, denial := c.trustGate(ctx, req)
		if denial != nil {
			c.recordDenial(ctx, req, requirements, denial, true)
			return nil, denial, nil
		}
		trustScore = score
	}

	sess, err := c.sessions.Create(ctx, req.UserID, req.Zone, requirements, biometricConfidence, trustScore)
	if err != nil {
		return nil, nil, err
	}

	// A successful access explicitly clears the failure record.
	if err := c.tracker.Clear(ctx, req.UserID); err != nil {
		c.logger.ErrorContext(ctx, "failed to clear attempt record after grant",
			"error", err,
			"user_id", req.UserID.String(),
		)
	}

	if requirements.ContinuousMonitoring && c.monitor != nil {
		c.monitor.Register(sess)
	}

	c.metrics.RecordDecision(req.Zone.String(), "granted")
	c.logAudit(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		UserID:    req.UserID,
		SessionID: sess.ID.String(),
		Zone:      req.Zone.String(),
		Action:    string(audit.EventAccessGranted),
	})
	return sess, nil, nil
}

// clearanceGate checks clearance level, then each required credential:
// missing, revoked, or verifier-rejected in that order. Verifier errors
// fail the gate closed.
func (c *Coordinator) clearanceGate(ctx context.Context, req Request, requirements zone.Requirements) *Denial {
	status, err := c.clearances.FindByUser(ctx, req.UserID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return &Denial{Reason: DenialInsufficientClearance, Message: "no clearance on record"}
	}
	if err != nil {
		// Fail closed: an unreadable registry grants nothing.
		c.logger.ErrorContext(ctx, "clearance lookup failed",
			"error", err,
			"user_id", req.UserID.String(),
		)
		return &Denial{Reason: DenialInsufficientClearance, Message: "clearance could not be verified"}
	}

	now := requestcontext.Now(ctx)
	if status.IsExpired(now) {
		return &Denial{Reason: DenialInsufficientClearance, Message: "clearance has expired"}
	}
	if status.ClearanceLevel < requirements.MinClearanceLevel {
		return &Denial{
			Reason:  DenialInsufficientClearance,
			Message: fmt.Sprintf("clearance level %d below required %d", status.ClearanceLevel, requirements.MinClearanceLevel),
		}
	}

	for _, required := range requirements.RequiredCredentials {
		proof, submitted := req.Credentials[required]
		if !submitted {
			return &Denial{
				Reason:  DenialMissingCredential,
				Message: "missing credential: " + required.String(),
			}
		}
		// Revocation wins before the verifier is even consulted.
		if !status.HasActiveCredential(required) {
			return &Denial{
				Reason:  DenialInvalidCredential,
				Message: "credential revoked or not held: " + required.String(),
			}
		}
		valid, err := c.verifyCredential(ctx, req.UserID, proof)
		if err != nil {
			c.logger.ErrorContext(ctx, "credential verifier failed",
				"error", err,
				"user_id", req.UserID.String(),
				"credential", required.String(),
			)
			return &Denial{
				Reason:  DenialInvalidCredential,
				Message: "credential could not be verified: " + required.String(),
			}
		}
		if !valid {
			return &Denial{
				Reason:  DenialInvalidCredential,
				Message: "credential rejected: " + required.String(),
			}
		}
	}
	return nil
}

func (c *Coordinator) biometricGate(ctx context.Context, req Request) (float64, *Denial) {
	if req.Biometric == nil {
		return 0, &Denial{Reason: DenialBiometricRequired, Message: "zone requires a biometric sample"}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	start := time.Now()
	confidence, err := c.biometrics.VerifyBiometric(callCtx, req.UserID, *req.Biometric)
	c.metrics.ObserveCollaborator("biometric_verifier", time.Since(start))
	if err != nil {
		c.logger.ErrorContext(ctx, "biometric verifier failed",
			"error", err,
			"user_id", req.UserID.String(),
		)
		return 0, &Denial{Reason: DenialBiometricFailed, Message: "biometric verification unavailable"}
	}
	if confidence < BiometricConfidenceThreshold {
		return 0, &Denial{
			Reason:  DenialBiometricFailed,
			Message: fmt.Sprintf("biometric confidence %.2f below %.2f", confidence, BiometricConfidenceThreshold),
		}
	}
	return confidence, nil
}

func (c *Coordinator) trustGate(ctx context.Context, req Request) (float64, *Denial) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	start := time.Now()
	score, err := c.scorer.ComputeTrustScore(callCtx, req.UserID)
	c.metrics.ObserveCollaborator("trust_scorer", time.Since(start))
	if err != nil {
		c.logger.ErrorContext(ctx, "trust scorer failed",
			"error", err,
			"user_id", req.UserID.String(),
		)
		return 0, &Denial{Reason: DenialAITrustFailed, Message: "trust scoring unavailable"}
	}
	if score < AdmissionTrustThreshold {
		return 0, &Denial{
			Reason:  DenialAITrustFailed,
			Message: fmt.Sprintf("trust score %.2f below %.2f", score, AdmissionTrustThreshold),
		}
	}
	return score, nil
}

func (c *Coordinator) verifyCredential(ctx context.Context, userID id.UserID, proof zone.CredentialProof) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	start := time.Now()
	valid, err := c.credentials.VerifyCredential(callCtx, userID, proof)
	c.metrics.ObserveCollaborator("credential_verifier", time.Since(start))
	return valid, err
}

// recordDenial increments the failure counter (unless the denial came from
// the cooldown gate itself), emits an audit event, and counts the metric.
func (c *Coordinator) recordDenial(ctx context.Context, req Request, requirements zone.Requirements, denial *Denial, countFailure bool) {
	if countFailure {
		_, crossed, err := c.tracker.RecordFailure(ctx, req.UserID, requirements)
		if err != nil {
			c.logger.ErrorContext(ctx, "failed to record attempt failure",
				"error", err,
				"user_id", req.UserID.String(),
			)
		} else if crossed {
			c.logAudit(ctx, audit.Event{
				UserID: req.UserID,
				Zone:   req.Zone.String(),
				Action: string(audit.EventLockoutTriggered),
				Reason: denial.Reason.String(),
			})
		}
	}

	c.metrics.RecordDecision(req.Zone.String(), denial.Reason.String())
	c.logAudit(ctx, audit.Event{
		UserID: req.UserID,
		Zone:   req.Zone.String(),
		Action: string(audit.EventAccessDenied),
		Reason: denial.Reason.String(),
	})
	c.logger.InfoContext(ctx, "access denied",
		"user_id", req.UserID.String(),
		"zone", req.Zone.String(),
		"reason", denial.Reason.String(),
	)
}

// CheckSession resolves a session's validity with a typed reason: not
// found, expired, or the live session. Read-only.
func (c *Coordinator) CheckSession(ctx context.Context, sessionID id.SessionID) (*session.Session, *Denial, error) {
	sess, err := c.sessions.Find(ctx, sessionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, &Denial{Reason: DenialSessionNotFound, Message: "session not found"}, nil
	}
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read session")
	}
	if !sess.IsValidAt(requestcontext.Now(ctx)) {
		return nil, &Denial{Reason: DenialSessionExpired, Message: "session has expired"}, nil
	}
	return sess, nil, nil
}

// TerminateSession ends a session explicitly. Monitor cancellation and the
// SESSION_TERMINATED event are part of the registry's termination path.
func (c *Coordinator) TerminateSession(ctx context.Context, sessionID id.SessionID) error {
	return c.sessions.Terminate(ctx, sessionID, session.ReasonExplicit)
}

// Sessions exposes the registry for transports that list or bulk-terminate.
func (c *Coordinator) Sessions() *session.Registry {
	return c.sessions
}

func (c *Coordinator) logAudit(ctx context.Context, event audit.Event) {
	if c.publisher == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	if err := c.publisher.Emit(ctx, event); err != nil {
		c.logger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"action", event.Action,
		)
	}
}
