package goGate

import (
	"time"

	"github.com/MrEthical07/goGate/session"
)

// Verdict is the outcome of evaluating one session record at one instant.
// It is a pure value: producing it never mutates storage and never talks to
// the network, so callers may evaluate as often as they like.
type Verdict struct {
	// Valid reports whether the record exists and its expiry lies in the
	// future. A missing record yields the zero Verdict.
	Valid bool

	// ExpiresAt echoes the record's expiry in epoch seconds.
	ExpiresAt int64

	// TimeRemaining is ExpiresAt minus the evaluation instant. Negative once
	// the record has expired.
	TimeRemaining time.Duration

	// Identity is the decoded claims blob, or nil when the record is invalid
	// or the blob is unreadable. Unreadable claims do not invalidate the
	// verdict: record expiry is the sole validity authority.
	Identity *Identity
}

// ExpiringSoon reports whether the session is valid but due to lapse within
// window. Expired records are never "expiring soon"; they are dead.
func (v Verdict) ExpiringSoon(window time.Duration) bool {
	return v.Valid && v.TimeRemaining > 0 && v.TimeRemaining <= window
}

// EvaluateRecord judges rec as of now. Nil records evaluate to the zero
// Verdict, which encodes "no session".
//
// Performance: one time subtraction plus, for valid records, one unverified
// JWT parse. No allocation on the invalid path.
func EvaluateRecord(rec *session.Record, now time.Time) Verdict {
	if rec == nil {
		return Verdict{}
	}

	remaining := rec.ExpiryTime().Sub(now)
	v := Verdict{
		Valid:         remaining > 0,
		ExpiresAt:     rec.ExpiresAt,
		TimeRemaining: remaining,
	}
	if !v.Valid {
		return v
	}

	if id, err := DecodeIdentity(rec.Claims); err == nil {
		v.Identity = id
	}
	return v
}
