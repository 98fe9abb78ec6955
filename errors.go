package goGate

import (
	"errors"

	"github.com/MrEthical07/goGate/admintoken"
	"github.com/MrEthical07/goGate/session"
)

var (
	// ErrAlreadyStarted is returned when Start is called on a coordinator
	// whose synchronizer is already running.
	ErrAlreadyStarted = errors.New("coordinator already started")

	// ErrClaimsUnreadable is returned when a session record's claims blob
	// cannot be decoded into an Identity.
	ErrClaimsUnreadable = errors.New("identity claims unreadable")

	// ErrNoIdentity is returned by operations that need a signed-in identity
	// when neither memory nor storage holds one.
	ErrNoIdentity = errors.New("no current identity")

	// ErrRedisUnavailable mirrors session.ErrRedisUnavailable so callers can
	// match storage outages without importing the session package.
	ErrRedisUnavailable = session.ErrRedisUnavailable

	// ErrAdminTokenMalformed mirrors admintoken.ErrMalformed.
	ErrAdminTokenMalformed = admintoken.ErrMalformed
)
