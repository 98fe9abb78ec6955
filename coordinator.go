package goGate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/MrEthical07/goGate/admintoken"
	internalaudit "github.com/MrEthical07/goGate/internal/audit"
	"github.com/MrEthical07/goGate/internal/rate"
	"github.com/MrEthical07/goGate/session"
)

// Coordinator owns one context's session posture: it reads and writes the
// shared session store, evaluates records, guards routes, and keeps this
// context consistent with its siblings through storage change events.
//
// One Coordinator per cooperating context. All exported methods are safe for
// concurrent use.
type Coordinator struct {
	config Config

	store    *session.Store
	admin    *admintoken.Manager
	provider AuthProvider
	verifier VerificationService
	contacts ContactDirectory
	nav      Navigator
	limiter  *rate.Limiter

	audit   *internalaudit.Dispatcher
	metrics *Metrics
	logger  zerolog.Logger

	now func() time.Time

	// current is this context's signed-in identity. It is the primary read
	// path for sync decisions; the storage pointer key exists to signal
	// sibling contexts, not to be re-read on every check.
	current atomic.Pointer[Identity]

	mu      sync.Mutex
	started bool
	runCtx  context.Context
	cancel  context.CancelFunc
	watcher *session.Watcher
	wg      sync.WaitGroup

	// visRunning single-flights the visibility handler.
	visRunning atomic.Bool
}

/* ==================== LIFECYCLE ==================== */

// Start subscribes to storage change events and launches the reaction loop.
// The subscription handshake uses ctx; the loop itself runs until Stop.
//
//	Docs: docs/sync.md
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return ErrAlreadyStarted
	}

	w, err := c.store.Watch(ctx)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c.watcher = w
	c.runCtx = runCtx
	c.cancel = cancel
	c.started = true

	c.wg.Add(1)
	go c.reactLoop(runCtx, w)

	c.logger.Info().Str("origin", c.store.Origin()).Msg("coordinator started")
	return nil
}

// Stop cancels the reaction loop and closes the storage subscription, then
// waits for in-flight reactions and visibility runs to finish. Stopping a
// stopped coordinator is a no-op; Start may be called again afterwards.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	cancel, w := c.cancel, c.watcher
	c.started = false
	c.runCtx = nil
	c.cancel = nil
	c.watcher = nil
	c.mu.Unlock()

	cancel()
	_ = w.Close()
	c.wg.Wait()

	c.logger.Info().Str("origin", c.store.Origin()).Msg("coordinator stopped")
}

// Close stops the coordinator and drains the audit pipeline. The coordinator
// must not be reused after Close.
func (c *Coordinator) Close() {
	c.Stop()
	c.audit.Close()
}

func (c *Coordinator) running() (context.Context, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runCtx, c.started
}

/* ==================== SESSION SURFACE ==================== */

// SignIn adopts a provider-issued session record as this context's current
// session: the record is stored under the identity's slot, the shared
// current-identity pointer is set, and the decoded identity becomes the
// in-memory current identity.
func (c *Coordinator) SignIn(ctx context.Context, rec *session.Record) (*Identity, error) {
	if rec == nil {
		return nil, errors.New("nil session record")
	}

	id, err := DecodeIdentity(rec.Claims)
	if err != nil {
		return nil, err
	}

	if err := c.store.SaveSession(ctx, id.ID, rec); err != nil {
		c.emitAudit(ctx, auditEventSessionStored, false, id.ID, err, nil)
		return nil, err
	}
	if err := c.store.SetCurrentIdentity(ctx, id.ID); err != nil {
		c.emitAudit(ctx, auditEventSessionStored, false, id.ID, err, nil)
		return nil, err
	}

	c.current.Store(id)
	c.metrics.Inc(MetricSessionStored)
	c.emitAudit(ctx, auditEventSessionStored, true, id.ID, nil, nil)
	return id, nil
}

// Resume rebuilds the in-memory current identity from storage. Call once at
// context start-up; afterwards the in-memory identity is authoritative.
// Returns (nil, nil) when storage holds no current identity.
func (c *Coordinator) Resume(ctx context.Context) (*Identity, error) {
	identityID, err := c.store.CurrentIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if identityID == "" {
		return nil, nil
	}

	rec, err := c.store.LoadSession(ctx, identityID)
	if errors.Is(err, session.ErrNoRecord) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	id, err := DecodeIdentity(rec.Claims)
	if err != nil {
		return nil, err
	}

	c.current.Store(id)
	return id, nil
}

// SignOut clears the current identity's session slot, the shared pointer,
// and the in-memory identity. Sibling contexts observe the slot clear and
// run their sign-out reaction.
func (c *Coordinator) SignOut(ctx context.Context) error {
	id := c.current.Load()
	identityID := ""
	if id != nil {
		identityID = id.ID
	}

	err := c.clearLocalState(ctx, identityID)
	c.metrics.Inc(MetricSessionCleared)
	c.emitAudit(ctx, auditEventSignOut, err == nil, identityID, err, nil)
	return err
}

// clearLocalState removes this context's session footprint: the slot for
// identityID when known, the shared pointer, and the in-memory identity.
func (c *Coordinator) clearLocalState(ctx context.Context, identityID string) error {
	var errs []error
	if identityID != "" {
		if err := c.store.ClearSession(ctx, identityID); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.store.ClearCurrentIdentity(ctx); err != nil {
		errs = append(errs, err)
	}
	c.current.Store(nil)
	return errors.Join(errs...)
}

// CurrentIdentity returns the in-memory current identity, nil when signed
// out.
func (c *Coordinator) CurrentIdentity() *Identity {
	return c.current.Load()
}

// CurrentIdentityID returns the in-memory current identity's ID, "" when
// signed out.
func (c *Coordinator) CurrentIdentityID() string {
	if id := c.current.Load(); id != nil {
		return id.ID
	}
	return ""
}

/* ==================== EVALUATION ==================== */

// Evaluate loads identityID's record and judges it. Read-only: expired
// records are reported, not purged; purging is the caller's decision.
func (c *Coordinator) Evaluate(ctx context.Context, identityID string) (Verdict, error) {
	rec, err := c.store.LoadSession(ctx, identityID)
	if errors.Is(err, session.ErrNoRecord) {
		c.metrics.Inc(MetricEvaluateMissing)
		return Verdict{}, nil
	}
	if err != nil {
		return Verdict{}, err
	}

	v := EvaluateRecord(rec, c.now())
	if v.Valid {
		c.metrics.Inc(MetricEvaluateValid)
	} else {
		c.metrics.Inc(MetricEvaluateExpired)
	}
	return v, nil
}

// EvaluateCurrent evaluates the in-memory current identity's session. With
// no current identity it returns the zero Verdict and no error.
func (c *Coordinator) EvaluateCurrent(ctx context.Context) (Verdict, error) {
	identityID := c.CurrentIdentityID()
	if identityID == "" {
		c.metrics.Inc(MetricEvaluateMissing)
		return Verdict{}, nil
	}
	return c.Evaluate(ctx, identityID)
}

/* ==================== ADMIN TOKEN SURFACE ==================== */

// IssueAdminToken mints and stores an admin token for identityFragment.
//
//	Docs: docs/admintoken.md
func (c *Coordinator) IssueAdminToken(ctx context.Context, identityFragment string) (string, error) {
	raw, err := c.admin.Issue(ctx, identityFragment)
	c.emitAudit(ctx, auditEventAdminIssued, err == nil, identityFragment, err, nil)
	return raw, err
}

// ValidateAdminToken checks the stored admin token, purging it when
// malformed or aged out and sliding its window forward when valid.
func (c *Coordinator) ValidateAdminToken(ctx context.Context) (bool, error) {
	outcome, err := c.admin.Check(ctx)
	if err != nil {
		c.emitAudit(ctx, auditEventAdminRejected, false, "", err, nil)
		return false, err
	}

	switch outcome {
	case admintoken.OutcomeRenewed:
		c.metrics.Inc(MetricAdminRenewed)
		c.emitAudit(ctx, auditEventAdminRenewed, true, "", nil, nil)
		return true, nil
	case admintoken.OutcomePurged:
		c.metrics.Inc(MetricAdminPurged)
		c.emitAudit(ctx, auditEventAdminRejected, false, "", nil, nil)
		return false, nil
	default:
		return false, nil
	}
}

// RenewAdminOnUnload slides the admin token window as a context unloads, so
// an active admin closing one tab does not run out the clock in another.
func (c *Coordinator) RenewAdminOnUnload(ctx context.Context) error {
	err := c.admin.RenewOnUnload(ctx)
	c.emitAudit(ctx, auditEventAdminUnloadRenewal, err == nil, "", err, nil)
	return err
}

// ClearAdminToken removes the stored admin token. Sibling admin contexts
// observe the clear and bounce to the admin login surface.
func (c *Coordinator) ClearAdminToken(ctx context.Context) error {
	return c.store.ClearAdminToken(ctx)
}

/* ==================== INTROSPECTION ==================== */

// Origin is this coordinator's unique context identifier. Storage events
// stamped with it are suppressed by this coordinator's watcher.
func (c *Coordinator) Origin() string {
	return c.store.Origin()
}

// Routes returns a copy of the configured route surfaces.
func (c *Coordinator) Routes() RoutesConfig {
	out := c.config.Routes
	out.Public = append([]string(nil), out.Public...)
	return out
}

// Ping round-trips the session store's Redis connection.
func (c *Coordinator) Ping(ctx context.Context) (time.Duration, error) {
	return c.store.Ping(ctx)
}

// MetricsSnapshot copies the coordinator's counters and histograms. Wire it
// to the exporters under metrics/export.
func (c *Coordinator) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}
