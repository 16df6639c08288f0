// Package auth implements the PIN gate that fronts every gallery operation.
//
// The gate is a pure state machine: Check maps (session, now, optional PIN)
// to (new session, decision) and never reads the wall clock, sleeps, or
// touches the object store. Callers own the session record and the clock,
// which keeps lockout and expiry behaviour fully testable.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"time"

	"github.com/nmurali/pixvault/internal/errs"
)

// Session is the per-user authentication record. The zero value is the
// initial logged-out state. Sessions are value types mutated only through
// Gate.Check and Gate.Logout.
type Session struct {
	Authenticated  bool
	AuthTime       time.Time
	FailedAttempts int
	LockoutUntil   time.Time
}

// DecisionKind enumerates the gate's possible verdicts.
type DecisionKind int

const (
	// Granted allows the request through.
	Granted DecisionKind = iota
	// RequiresPin means there is no live session and no PIN was submitted.
	RequiresPin
	// DeniedNoPin means an empty PIN was submitted.
	DeniedNoPin
	// DeniedBadPin means the submitted PIN did not match.
	DeniedBadPin
	// DeniedLockedOut means attempts are rejected outright until the
	// lockout window ends, regardless of PIN correctness.
	DeniedLockedOut
	// DeniedExpired means a previously authenticated session aged past
	// the session timeout and was reset.
	DeniedExpired
)

func (k DecisionKind) String() string {
	switch k {
	case Granted:
		return "granted"
	case RequiresPin:
		return "requires_pin"
	case DeniedNoPin:
		return "denied_no_pin"
	case DeniedBadPin:
		return "denied_bad_pin"
	case DeniedLockedOut:
		return "denied_locked_out"
	case DeniedExpired:
		return "denied_expired"
	default:
		return "unknown"
	}
}

// Decision is the gate's verdict for one check.
type Decision struct {
	Kind DecisionKind

	// AttemptsRemaining is set for DeniedBadPin.
	AttemptsRemaining int

	// RetryAfter is set for DeniedLockedOut: the time left in the
	// lockout window.
	RetryAfter time.Duration
}

// Allow reports whether the request may proceed.
func (d Decision) Allow() bool {
	return d.Kind == Granted
}

// Config holds the gate's tunables.
type Config struct {
	// MaxAttempts is the number of consecutive bad PINs that triggers
	// a lockout.
	MaxAttempts int

	// Lockout is how long attempts are rejected after MaxAttempts
	// consecutive failures.
	Lockout time.Duration

	// SessionTimeout is the maximum age of an authenticated session.
	SessionTimeout time.Duration
}

// DefaultConfig returns the standard gate settings: five attempts before a
// one-hour lockout, twelve-hour sessions.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:    5,
		Lockout:        time.Hour,
		SessionTimeout: 12 * time.Hour,
	}
}

// Gate checks sessions against the configured shared PIN.
// It is safe for concurrent use: all state lives in the Session values
// passed through Check.
type Gate struct {
	cfg     Config
	pinHash [sha256.Size]byte
}

// NewGate builds a Gate for the given shared PIN. The PIN itself is not
// retained — only its digest, recomputed here from the configured secret
// so it can never desynchronize from the source.
func NewGate(pin string, cfg *Config) (*Gate, error) {
	if pin == "" {
		return nil, errs.New(errs.ErrKindConfig, "access PIN must not be empty")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Gate{
		cfg:     *cfg,
		pinHash: sha256.Sum256([]byte(pin)),
	}, nil
}

// Check runs one gate transition. pin is nil when no PIN was submitted
// with the request. The returned Session replaces the caller's copy.
func (g *Gate) Check(s Session, now time.Time, pin *string) (Session, Decision) {
	if s.Authenticated {
		if now.Sub(s.AuthTime) > g.cfg.SessionTimeout {
			// Expired degrades straight to logged out.
			return Session{}, Decision{Kind: DeniedExpired}
		}
		return s, Decision{Kind: Granted}
	}

	if !s.LockoutUntil.IsZero() {
		if now.Before(s.LockoutUntil) {
			// Attempts during the window are rejected without
			// touching the failure count.
			return s, Decision{
				Kind:       DeniedLockedOut,
				RetryAfter: s.LockoutUntil.Sub(now),
			}
		}
		s.LockoutUntil = time.Time{}
		s.FailedAttempts = 0
	}

	if pin == nil {
		return s, Decision{Kind: RequiresPin}
	}
	if *pin == "" {
		return s, Decision{Kind: DeniedNoPin}
	}

	if g.match(*pin) {
		return Session{
			Authenticated: true,
			AuthTime:      now,
		}, Decision{Kind: Granted}
	}

	s.FailedAttempts++
	if s.FailedAttempts >= g.cfg.MaxAttempts {
		s.LockoutUntil = now.Add(g.cfg.Lockout)
		return s, Decision{
			Kind:       DeniedLockedOut,
			RetryAfter: g.cfg.Lockout,
		}
	}
	return s, Decision{
		Kind:              DeniedBadPin,
		AttemptsRemaining: g.cfg.MaxAttempts - s.FailedAttempts,
	}
}

// Logout resets the session to its initial state.
func (g *Gate) Logout(Session) Session {
	return Session{}
}

// match compares digests, not raw strings, in constant shape.
func (g *Gate) match(pin string) bool {
	h := sha256.Sum256([]byte(pin))
	return subtle.ConstantTimeCompare(h[:], g.pinHash[:]) == 1
}
