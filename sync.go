package goGate

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goGate/internal/rate"
)

// NotifyVisible tells the coordinator its hosting context just became
// visible again. The check runs on a background goroutine; overlapping
// notifications coalesce into the run already in flight. Before Start and
// after Stop this is a no-op.
//
//	Docs: docs/sync.md
func (c *Coordinator) NotifyVisible() {
	ctx, ok := c.beginVisibility()
	if !ok {
		return
	}

	go func() {
		defer c.wg.Done()
		defer c.visRunning.Store(false)
		c.handleVisibility(ctx)
	}()
}

// beginVisibility claims the single-flight slot under the lifecycle lock, so
// the waitgroup add cannot race Stop's wait.
func (c *Coordinator) beginVisibility() (context.Context, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil, false
	}
	if !c.visRunning.CompareAndSwap(false, true) {
		c.metrics.Inc(MetricVisibilityDropped)
		return nil, false
	}

	c.wg.Add(1)
	return c.runCtx, true
}

// handleVisibility is the on-visible session check: wait out the grace
// period, then either re-validate the admin credential (admin surfaces) or
// evaluate the current session, refreshing it when it is about to lapse.
func (c *Coordinator) handleVisibility(ctx context.Context) {
	c.metrics.Inc(MetricVisibilityRuns)

	path := c.nav.CurrentPath()
	if c.config.Routes.IsPublic(path) || c.config.Routes.IsLogin(path) {
		return
	}

	// Grace: writes from the context the user is arriving FROM may still be
	// in flight; checking instantly would judge stale state.
	if c.config.Sync.VisibilityGrace > 0 {
		select {
		case <-time.After(c.config.Sync.VisibilityGrace):
		case <-ctx.Done():
			return
		}
	}

	if c.config.Routes.InAdminArea(path) {
		c.visibilityAdminCheck(ctx, path)
		return
	}

	verdict, err := c.EvaluateCurrent(ctx)
	if err != nil {
		// Storage outage: keep the user where they are, the reactive path
		// catches up once Redis is back.
		c.logger.Warn().Err(err).Msg("visibility: session evaluation failed")
		return
	}

	if !verdict.Valid {
		identityID := c.CurrentIdentityID()
		if err := c.clearLocalState(ctx, identityID); err != nil {
			c.logger.Warn().Err(err).Msg("visibility: clearing dead session")
		}
		c.emitAudit(ctx, auditEventSessionExpired, true, identityID, nil, nil)
		c.nav.Navigate(Redirect{
			Path:   c.config.Routes.CustomerLogin,
			Reason: ReasonSessionExpired,
		})
		return
	}

	if verdict.ExpiringSoon(c.config.Session.RenewalWindow) {
		c.refreshSession(ctx, c.CurrentIdentityID())
	}
}

func (c *Coordinator) visibilityAdminCheck(ctx context.Context, path string) {
	ok, err := c.ValidateAdminToken(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("visibility: admin validation failed")
		return
	}
	if ok || path == c.config.Routes.AdminLogin {
		return
	}

	c.metrics.Inc(MetricAdminRedirect)
	c.nav.Navigate(Redirect{
		Path:   c.config.Routes.AdminLogin,
		Reason: ReasonAdminSessionEnded,
	})
}

// refreshSession asks the auth provider for a fresh record for identityID
// and stores it. Without a provider the session simply runs out; with one,
// a refresh failure leaves the current record in place.
func (c *Coordinator) refreshSession(ctx context.Context, identityID string) {
	if identityID == "" {
		return
	}

	c.metrics.Inc(MetricRefreshTriggered)
	if c.provider == nil {
		return
	}

	if c.limiter != nil {
		if err := c.limiter.CheckRefresh(ctx, identityID); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				// Another context refreshed this identity moments ago; let
				// that result land instead of stacking provider calls.
				c.metrics.Inc(MetricRefreshThrottled)
				c.logger.Debug().Str("identity", identityID).Msg("session refresh throttled")
				return
			}
			c.logger.Warn().Err(err).Str("identity", identityID).Msg("refresh throttle check failed")
			return
		}
	}

	rec, err := c.provider.RestoreSession(ctx, identityID)
	if err != nil {
		c.metrics.Inc(MetricRefreshFailure)
		c.logger.Warn().Err(err).Str("identity", identityID).Msg("session refresh failed")
		c.emitAudit(ctx, auditEventRefreshFailure, false, identityID, err, nil)
		return
	}
	if rec == nil {
		// Upstream says the session is gone; mirror that locally.
		c.metrics.Inc(MetricRefreshFailure)
		if err := c.clearLocalState(ctx, identityID); err != nil {
			c.logger.Warn().Err(err).Str("identity", identityID).Msg("clearing session after refresh denial")
		}
		c.emitAudit(ctx, auditEventRefreshFailure, false, identityID, nil, func() map[string]any {
			return map[string]any{"reason": "provider_denied"}
		})
		return
	}

	if err := c.store.SaveSession(ctx, identityID, rec); err != nil {
		c.metrics.Inc(MetricRefreshFailure)
		c.logger.Warn().Err(err).Str("identity", identityID).Msg("storing refreshed session failed")
		c.emitAudit(ctx, auditEventRefreshFailure, false, identityID, err, nil)
		return
	}

	c.metrics.Inc(MetricRefreshSuccess)
	c.emitAudit(ctx, auditEventRefreshTriggered, true, identityID, nil, nil)
}
