// Package monitor runs the continuous re-verification loop for sessions in
// zones that require it. One cancellable task per session; termination of
// the session cancels the task and process shutdown joins them all.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"zonegate/internal/session"
	id "zonegate/pkg/domain"
)

// TrustScorer is the external risk-scoring collaborator, polled on every
// tick for monitored sessions.
type TrustScorer interface {
	ComputeTrustScore(ctx context.Context, userID id.UserID) (float64, error)
}

// SessionControl is what the monitor needs from the session registry.
type SessionControl interface {
	IsValid(ctx context.Context, sessionID id.SessionID) (bool, error)
	RecordTrustScore(ctx context.Context, sessionID id.SessionID, score float64) error
	Terminate(ctx context.Context, sessionID id.SessionID, reason session.TerminationReason) error
}

const (
	// DefaultInterval is how often each monitored session is re-verified.
	DefaultInterval = 30 * time.Second
	// DefaultTrustThreshold is the score below which a live session is
	// treated as suspicious activity.
	DefaultTrustThreshold = 0.95
)

// Monitor supervises per-session re-verification tasks.
type Monitor struct {
	scorer   TrustScorer
	sessions SessionControl
	logger   *slog.Logger

	interval       time.Duration
	trustThreshold float64
	callTimeout    time.Duration

	mu    sync.Mutex
	tasks map[id.SessionID]*task
	wg    sync.WaitGroup
	root  context.Context
	stop  context.CancelFunc
}

// task is the cancellation handle for one monitoring goroutine. Tracked by
// pointer so a replaced task's cleanup cannot evict its replacement.
type task struct {
	cancel context.CancelFunc
}

type Option func(*Monitor)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) { m.logger = logger }
}

func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

func WithTrustThreshold(threshold float64) Option {
	return func(m *Monitor) {
		if threshold > 0 && threshold <= 1 {
			m.trustThreshold = threshold
		}
	}
}

// WithCallTimeout bounds each trust-scorer call so a slow collaborator
// cannot starve the monitoring loop.
func WithCallTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.callTimeout = d
		}
	}
}

func New(scorer TrustScorer, sessions SessionControl, opts ...Option) *Monitor {
	root, stop := context.WithCancel(context.Background())
	m := &Monitor{
		scorer:         scorer,
		sessions:       sessions,
		logger:         slog.Default(),
		interval:       DefaultInterval,
		trustThreshold: DefaultTrustThreshold,
		callTimeout:    3 * time.Second,
		tasks:          make(map[id.SessionID]*task),
		root:           root,
		stop:           stop,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register starts a monitoring task for the session and stores its
// cancellation handle. Registering an already-monitored session replaces
// the previous task.
func (m *Monitor) Register(sess *session.Session) {
	ctx, cancel := context.WithCancel(m.root)
	tk := &task{cancel: cancel}

	m.mu.Lock()
	if prev, ok := m.tasks[sess.ID]; ok {
		prev.cancel()
	}
	m.tasks[sess.ID] = tk
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(ctx, tk, sess.ID, sess.UserID)
}

// Cancel stops the monitoring task for a session. Idempotent and
// non-blocking; safe to call from the task's own goroutine.
func (m *Monitor) Cancel(sessionID id.SessionID) {
	m.mu.Lock()
	tk, ok := m.tasks[sessionID]
	if ok {
		delete(m.tasks, sessionID)
	}
	m.mu.Unlock()
	if ok {
		tk.cancel()
	}
}

// release removes the task only if it is still the current one for the
// session, so a goroutine replaced by a fresh Register cannot evict its
// replacement on exit.
func (m *Monitor) release(sessionID id.SessionID, tk *task) {
	m.mu.Lock()
	if cur, ok := m.tasks[sessionID]; ok && cur == tk {
		delete(m.tasks, sessionID)
	}
	m.mu.Unlock()
	tk.cancel()
}

// Active returns the number of sessions currently under monitoring.
func (m *Monitor) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Shutdown cancels every task and waits for all goroutines to exit.
func (m *Monitor) Shutdown(ctx context.Context) error {
	m.stop()
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Monitor) run(ctx context.Context, tk *task, sessionID id.SessionID, userID id.UserID) {
	defer m.wg.Done()
	defer m.release(sessionID, tk)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if stop := m.tick(ctx, sessionID, userID); stop {
				return
			}
		}
	}
}

// tick runs one re-verification pass. Returns true when the task should
// stop. Collaborator failures are a fail-closed signal: the session is
// terminated defensively rather than the error propagating upward.
func (m *Monitor) tick(ctx context.Context, sessionID id.SessionID, userID id.UserID) (stop bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("monitor tick panicked, terminating session",
				"session_id", sessionID.String(),
				"panic", r,
			)
			m.terminate(sessionID, session.ReasonMonitorFailure)
			stop = true
		}
	}()

	valid, err := m.sessions.IsValid(ctx, sessionID)
	if err != nil {
		m.logger.ErrorContext(ctx, "monitor validity check failed, terminating session",
			"error", err,
			"session_id", sessionID.String(),
		)
		m.terminate(sessionID, session.ReasonMonitorFailure)
		return true
	}
	if !valid {
		m.terminate(sessionID, session.ReasonExpired)
		return true
	}

	scoreCtx, cancel := context.WithTimeout(ctx, m.callTimeout)
	score, err := m.scorer.ComputeTrustScore(scoreCtx, userID)
	cancel()
	if err != nil {
		m.logger.ErrorContext(ctx, "trust scorer unavailable, terminating session",
			"error", err,
			"session_id", sessionID.String(),
		)
		m.terminate(sessionID, session.ReasonMonitorFailure)
		return true
	}

	if score < m.trustThreshold {
		m.logger.WarnContext(ctx, "trust score below threshold, terminating session",
			"session_id", sessionID.String(),
			"user_id", userID.String(),
			"score", score,
			"threshold", m.trustThreshold,
		)
		m.terminate(sessionID, session.ReasonSuspiciousActivity)
		return true
	}

	if err := m.sessions.RecordTrustScore(ctx, sessionID, score); err != nil {
		// Score bookkeeping failing is not a trust signal; log and keep
		// monitoring.
		m.logger.ErrorContext(ctx, "failed to record trust score",
			"error", err,
			"session_id", sessionID.String(),
		)
	}
	return false
}

func (m *Monitor) terminate(sessionID id.SessionID, reason session.TerminationReason) {
	// Use a fresh context: the task's own context may already be
	// cancelled, and termination must still go through.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.sessions.Terminate(ctx, sessionID, reason); err != nil {
		m.logger.Error("monitor failed to terminate session",
			"error", err,
			"session_id", sessionID.String(),
			"reason", reason.String(),
		)
	}
}
