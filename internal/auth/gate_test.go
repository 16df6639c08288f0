package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmurali/pixvault/internal/errs"
)

var t0 = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	g, err := NewGate("1234", nil)
	require.NoError(t, err)
	return g
}

func submit(pin string) *string {
	return &pin
}

func TestNewGate_EmptyPIN(t *testing.T) {
	_, err := NewGate("", nil)
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestCheck_NoSessionNoPin(t *testing.T) {
	g := newTestGate(t)

	s, d := g.Check(Session{}, t0, nil)
	assert.Equal(t, RequiresPin, d.Kind)
	assert.Equal(t, Session{}, s)
}

func TestCheck_EmptyPinSubmitted(t *testing.T) {
	g := newTestGate(t)

	_, d := g.Check(Session{}, t0, submit(""))
	assert.Equal(t, DeniedNoPin, d.Kind)
}

func TestCheck_CorrectPin(t *testing.T) {
	g := newTestGate(t)

	s, d := g.Check(Session{}, t0, submit("1234"))
	assert.Equal(t, Granted, d.Kind)
	assert.True(t, s.Authenticated)
	assert.Equal(t, t0, s.AuthTime)
	assert.Zero(t, s.FailedAttempts)
}

func TestCheck_CorrectPinResetsFailures(t *testing.T) {
	g := newTestGate(t)

	// A correct PIN below the lockout threshold always grants,
	// regardless of prior failures.
	s := Session{FailedAttempts: 4}
	s, d := g.Check(s, t0, submit("1234"))
	assert.Equal(t, Granted, d.Kind)
	assert.True(t, s.Authenticated)
	assert.Zero(t, s.FailedAttempts)
	assert.True(t, s.LockoutUntil.IsZero())
}

func TestCheck_AttemptCounting(t *testing.T) {
	g := newTestGate(t)

	s := Session{}
	for n := 1; n < 5; n++ {
		var d Decision
		s, d = g.Check(s, t0, submit("0000"))
		assert.Equal(t, DeniedBadPin, d.Kind, "attempt %d", n)
		assert.Equal(t, 5-n, d.AttemptsRemaining, "attempt %d", n)
		assert.Equal(t, n, s.FailedAttempts)
		assert.False(t, s.Authenticated)
	}
}

func TestCheck_FifthWrongPinLocksOut(t *testing.T) {
	g := newTestGate(t)

	// Scenario: five submissions of "0000" against true PIN "1234".
	s := Session{}
	var d Decision
	for i := 0; i < 5; i++ {
		s, d = g.Check(s, t0, submit("0000"))
	}

	assert.Equal(t, DeniedLockedOut, d.Kind)
	assert.Equal(t, time.Hour, d.RetryAfter)
	assert.Equal(t, t0.Add(time.Hour), s.LockoutUntil)
}

func TestCheck_LockoutWindow(t *testing.T) {
	g := newTestGate(t)

	s := Session{FailedAttempts: 5, LockoutUntil: t0.Add(time.Hour)}

	t.Run("rejects during window without counting", func(t *testing.T) {
		later := t0.Add(10 * time.Minute)
		s2, d := g.Check(s, later, submit("1234"))
		assert.Equal(t, DeniedLockedOut, d.Kind)
		assert.Equal(t, 50*time.Minute, d.RetryAfter)
		assert.Equal(t, 5, s2.FailedAttempts)
	})

	t.Run("rejects pinless checks during window", func(t *testing.T) {
		_, d := g.Check(s, t0.Add(time.Minute), nil)
		assert.Equal(t, DeniedLockedOut, d.Kind)
	})

	t.Run("clears once the window ends", func(t *testing.T) {
		after := t0.Add(time.Hour)
		s2, d := g.Check(s, after, nil)
		assert.Equal(t, RequiresPin, d.Kind)
		assert.Zero(t, s2.FailedAttempts)
		assert.True(t, s2.LockoutUntil.IsZero())
	})

	t.Run("correct pin grants once the window ends", func(t *testing.T) {
		after := t0.Add(61 * time.Minute)
		s2, d := g.Check(s, after, submit("1234"))
		assert.Equal(t, Granted, d.Kind)
		assert.True(t, s2.Authenticated)
	})
}

func TestCheck_SessionExpiry(t *testing.T) {
	g := newTestGate(t)

	s, _ := g.Check(Session{}, t0, submit("1234"))

	t.Run("stays authenticated inside the timeout", func(t *testing.T) {
		s2, d := g.Check(s, t0.Add(11*time.Hour), nil)
		assert.Equal(t, Granted, d.Kind)
		assert.True(t, s2.Authenticated)
	})

	t.Run("expires past the timeout", func(t *testing.T) {
		s2, d := g.Check(s, t0.Add(12*time.Hour+time.Second), nil)
		assert.Equal(t, DeniedExpired, d.Kind)
		assert.Equal(t, Session{}, s2)
	})

	t.Run("never silently remains authenticated", func(t *testing.T) {
		// Even a check carrying the correct PIN first degrades the
		// stale session.
		s2, d := g.Check(s, t0.Add(13*time.Hour), submit("1234"))
		assert.Equal(t, DeniedExpired, d.Kind)
		assert.False(t, s2.Authenticated)
	})
}

func TestLogout(t *testing.T) {
	g := newTestGate(t)

	s, _ := g.Check(Session{}, t0, submit("1234"))
	require.True(t, s.Authenticated)

	s = g.Logout(s)
	assert.Equal(t, Session{}, s)

	_, d := g.Check(s, t0, nil)
	assert.Equal(t, RequiresPin, d.Kind)
}

func TestCheck_CustomConfig(t *testing.T) {
	g, err := NewGate("7777", &Config{
		MaxAttempts:    2,
		Lockout:        5 * time.Minute,
		SessionTimeout: time.Minute,
	})
	require.NoError(t, err)

	s := Session{}
	s, d := g.Check(s, t0, submit("x"))
	assert.Equal(t, DeniedBadPin, d.Kind)
	assert.Equal(t, 1, d.AttemptsRemaining)

	s, d = g.Check(s, t0, submit("y"))
	assert.Equal(t, DeniedLockedOut, d.Kind)
	assert.Equal(t, 5*time.Minute, d.RetryAfter)
	assert.Equal(t, t0.Add(5*time.Minute), s.LockoutUntil)
}

func TestDecisionKind_String(t *testing.T) {
	assert.Equal(t, "granted", Granted.String())
	assert.Equal(t, "denied_locked_out", DeniedLockedOut.String())
	assert.Equal(t, "denied_expired", DeniedExpired.String())
}
