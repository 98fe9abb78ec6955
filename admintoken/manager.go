package admintoken

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Storage is the narrow slice of the session store the manager needs. The
// manager never sees other keys.
type Storage interface {
	AdminToken(ctx context.Context) (string, error)
	SetAdminToken(ctx context.Context, raw string) error
	ClearAdminToken(ctx context.Context) error
}

// Manager owns the admin credential lifecycle: issue at login, validate with
// purge-on-failure, and sliding-window renewal. Every successful validation
// re-issues the token with a fresh timestamp, so only genuine inactivity for
// longer than maxAge expires the credential.
//
//	Docs: docs/admintoken.md
type Manager struct {
	storage Storage
	maxAge  time.Duration
	now     func() time.Time
}

// NewManager creates a [Manager]. maxAge bounds the idle window between two
// validating accesses.
func NewManager(storage Storage, maxAge time.Duration) (*Manager, error) {
	if storage == nil {
		return nil, errors.New("admintoken storage is required")
	}
	if maxAge <= 0 {
		return nil, errors.New("admintoken maxAge must be > 0")
	}
	return &Manager{
		storage: storage,
		maxAge:  maxAge,
		now:     time.Now,
	}, nil
}

// Issue mints a token for the identity fragment, stores it, and returns the
// wire string.
func (m *Manager) Issue(ctx context.Context, identity string) (string, error) {
	if identity == "" {
		return "", fmt.Errorf("%w: empty identity fragment", ErrMalformed)
	}
	raw := Encode(Token{Identity: identity, IssuedAt: m.now()})
	if err := m.storage.SetAdminToken(ctx, raw); err != nil {
		return "", err
	}
	return raw, nil
}

// Outcome classifies one validation pass over the stored credential.
type Outcome uint8

const (
	// OutcomeAbsent means no credential was stored. Nothing is purged.
	OutcomeAbsent Outcome = iota
	// OutcomePurged means a credential was present but malformed, sentinel,
	// or over-age, and has been removed from storage.
	OutcomePurged
	// OutcomeRenewed means the credential validated and was re-issued with a
	// fresh timestamp.
	OutcomeRenewed
)

// Check reads the stored credential and classifies it. Sentinel, malformed,
// or over-age values are purged. A passing token is re-issued with
// issuedAt = now before OutcomeRenewed is returned, sliding the expiry
// window forward; rapid repeated calls therefore each renew, and callers
// coalesce their checks rather than loop.
//
// The error return carries storage failures only; OutcomeAbsent and
// OutcomePurged with a nil error are the normal "not signed in as admin"
// answers. When err is non-nil the outcome is not meaningful.
func (m *Manager) Check(ctx context.Context) (Outcome, error) {
	raw, err := m.storage.AdminToken(ctx)
	if err != nil {
		return OutcomeAbsent, err
	}
	if raw == "" {
		return OutcomeAbsent, nil
	}

	tok, err := Decode(raw)
	if err != nil {
		if purgeErr := m.storage.ClearAdminToken(ctx); purgeErr != nil {
			return OutcomePurged, purgeErr
		}
		return OutcomePurged, nil
	}

	now := m.now()
	// Future-dated tokens pass: a sibling context with a slightly ahead
	// clock must not lock the admin out.
	if tok.Age(now) > m.maxAge {
		if purgeErr := m.storage.ClearAdminToken(ctx); purgeErr != nil {
			return OutcomePurged, purgeErr
		}
		return OutcomePurged, nil
	}

	renewed := Encode(Token{Identity: tok.Identity, IssuedAt: now})
	if err := m.storage.SetAdminToken(ctx, renewed); err != nil {
		return OutcomePurged, err
	}
	return OutcomeRenewed, nil
}

// Validate reports whether the privileged mode is live, with [Manager.Check]
// purge-and-renew semantics.
func (m *Manager) Validate(ctx context.Context) (bool, error) {
	outcome, err := m.Check(ctx)
	return outcome == OutcomeRenewed, err
}

// RenewOnUnload is the teardown keep-alive: when the stored token still
// validates, the validation's re-issue leaves a fresh timestamp behind, so a
// session alive at unload is not judged stale by the next load. Invalid
// tokens are purged exactly as in [Manager.Validate].
func (m *Manager) RenewOnUnload(ctx context.Context) error {
	_, err := m.Validate(ctx)
	return err
}

// MaxAge returns the configured idle window.
func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}
