package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zonegate/internal/session"
	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
)

// fakeScorer returns a fixed score or error, swappable mid-test.
type fakeScorer struct {
	mu    sync.Mutex
	score float64
	err   error
}

func (f *fakeScorer) ComputeTrustScore(context.Context, id.UserID) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.score, f.err
}

func (f *fakeScorer) set(score float64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.score = score
	f.err = err
}

// fakeControl records terminations and answers validity checks.
type fakeControl struct {
	mu           sync.Mutex
	valid        bool
	validErr     error
	scores       []float64
	terminations map[id.SessionID]session.TerminationReason
	terminated   chan id.SessionID
}

func newFakeControl() *fakeControl {
	return &fakeControl{
		valid:        true,
		terminations: make(map[id.SessionID]session.TerminationReason),
		terminated:   make(chan id.SessionID, 8),
	}
}

func (f *fakeControl) IsValid(_ context.Context, _ id.SessionID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valid, f.validErr
}

func (f *fakeControl) RecordTrustScore(_ context.Context, _ id.SessionID, score float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores = append(f.scores, score)
	return nil
}

func (f *fakeControl) Terminate(_ context.Context, sessionID id.SessionID, reason session.TerminationReason) error {
	f.mu.Lock()
	f.terminations[sessionID] = reason
	f.mu.Unlock()
	f.terminated <- sessionID
	return nil
}

func (f *fakeControl) reasonFor(sessionID id.SessionID) (session.TerminationReason, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reason, ok := f.terminations[sessionID]
	return reason, ok
}

func (f *fakeControl) recordedScores() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]float64, len(f.scores))
	copy(out, f.scores)
	return out
}

func monitoredSession() *session.Session {
	return &session.Session{
		ID:               id.NewSessionID(),
		UserID:           id.NewUserID(),
		Zone:             zone.Classified,
		ActiveMonitoring: true,
	}
}

func waitTermination(t *testing.T, control *fakeControl) id.SessionID {
	t.Helper()
	select {
	case sessionID := <-control.terminated:
		return sessionID
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for termination")
		return id.SessionID{}
	}
}

func TestMonitor_RegisterAndCancel(t *testing.T) {
	scorer := &fakeScorer{score: 0.99}
	control := newFakeControl()
	m := New(scorer, control, WithInterval(time.Hour))
	defer m.Shutdown(context.Background())

	sess := monitoredSession()
	m.Register(sess)
	assert.Equal(t, 1, m.Active())

	m.Cancel(sess.ID)
	assert.Equal(t, 0, m.Active())

	// Cancel is idempotent.
	m.Cancel(sess.ID)
	assert.Equal(t, 0, m.Active())
}

func TestMonitor_LowScoreTerminatesWithinOneInterval(t *testing.T) {
	scorer := &fakeScorer{score: 0.90}
	control := newFakeControl()
	m := New(scorer, control, WithInterval(10*time.Millisecond))
	defer m.Shutdown(context.Background())

	sess := monitoredSession()
	m.Register(sess)

	terminated := waitTermination(t, control)
	assert.Equal(t, sess.ID, terminated)

	reason, ok := control.reasonFor(sess.ID)
	require.True(t, ok)
	assert.Equal(t, session.ReasonSuspiciousActivity, reason)
}

func TestMonitor_HealthyScoreIsRecorded(t *testing.T) {
	scorer := &fakeScorer{score: 0.99}
	control := newFakeControl()
	m := New(scorer, control, WithInterval(10*time.Millisecond))
	defer m.Shutdown(context.Background())

	sess := monitoredSession()
	m.Register(sess)

	require.Eventually(t, func() bool {
		return len(control.recordedScores()) >= 2
	}, 2*time.Second, 5*time.Millisecond)

	for _, score := range control.recordedScores() {
		assert.Equal(t, 0.99, score)
	}
	_, terminated := control.reasonFor(sess.ID)
	assert.False(t, terminated)
}

func TestMonitor_ScorerErrorFailsClosed(t *testing.T) {
	scorer := &fakeScorer{err: errors.New("scorer unreachable")}
	control := newFakeControl()
	m := New(scorer, control, WithInterval(10*time.Millisecond))
	defer m.Shutdown(context.Background())

	sess := monitoredSession()
	m.Register(sess)

	waitTermination(t, control)
	reason, ok := control.reasonFor(sess.ID)
	require.True(t, ok)
	assert.Equal(t, session.ReasonMonitorFailure, reason)
}

func TestMonitor_ExpiredSessionTerminated(t *testing.T) {
	scorer := &fakeScorer{score: 0.99}
	control := newFakeControl()
	control.valid = false
	m := New(scorer, control, WithInterval(10*time.Millisecond))
	defer m.Shutdown(context.Background())

	sess := monitoredSession()
	m.Register(sess)

	waitTermination(t, control)
	reason, ok := control.reasonFor(sess.ID)
	require.True(t, ok)
	assert.Equal(t, session.ReasonExpired, reason)
}

func TestMonitor_ScoreDropMidSession(t *testing.T) {
	scorer := &fakeScorer{score: 0.99}
	control := newFakeControl()
	m := New(scorer, control, WithInterval(10*time.Millisecond), WithTrustThreshold(0.95))
	defer m.Shutdown(context.Background())

	sess := monitoredSession()
	m.Register(sess)

	require.Eventually(t, func() bool {
		return len(control.recordedScores()) >= 1
	}, 2*time.Second, 5*time.Millisecond)

	scorer.set(0.80, nil)

	waitTermination(t, control)
	reason, ok := control.reasonFor(sess.ID)
	require.True(t, ok)
	assert.Equal(t, session.ReasonSuspiciousActivity, reason)
}

func TestMonitor_TaskRemovedAfterTermination(t *testing.T) {
	scorer := &fakeScorer{score: 0.50}
	control := newFakeControl()
	m := New(scorer, control, WithInterval(10*time.Millisecond))
	defer m.Shutdown(context.Background())

	sess := monitoredSession()
	m.Register(sess)

	waitTermination(t, control)
	require.Eventually(t, func() bool {
		return m.Active() == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestMonitor_RegisterReplacesExistingTask(t *testing.T) {
	scorer := &fakeScorer{score: 0.99}
	control := newFakeControl()
	m := New(scorer, control, WithInterval(time.Hour))
	defer m.Shutdown(context.Background())

	sess := monitoredSession()
	m.Register(sess)
	m.Register(sess)
	assert.Equal(t, 1, m.Active())
}

func TestMonitor_ShutdownJoinsAllTasks(t *testing.T) {
	scorer := &fakeScorer{score: 0.99}
	control := newFakeControl()
	m := New(scorer, control, WithInterval(10*time.Millisecond))

	for i := 0; i < 5; i++ {
		m.Register(monitoredSession())
	}
	require.Equal(t, 5, m.Active())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))
}
