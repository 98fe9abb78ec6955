package goGate

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goGate/session"
)

// reactLoop drains storage change events until the watcher closes or the run
// context is cancelled. Events from this coordinator's own origin never
// arrive here; the watcher drops them.
func (c *Coordinator) reactLoop(ctx context.Context, w *session.Watcher) {
	defer c.wg.Done()

	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			c.dispatchStorageEvent(ctx, ev)
		case <-ctx.Done():
			return
		}
	}
}

// dispatchStorageEvent routes one sibling-context mutation to its reaction.
// Four shapes matter; everything else is ignored.
func (c *Coordinator) dispatchStorageEvent(ctx context.Context, ev session.Event) {
	switch {
	case session.IsSessionKey(ev.Key) && ev.Cleared():
		c.runReaction(ctx, "session_cleared", ev, c.reactSessionCleared)
	case ev.Key == session.CurrentIdentityKey && !ev.Cleared() && ev.NewValue != ev.OldValue:
		c.runReaction(ctx, "identity_switched", ev, c.reactIdentitySwitched)
	case ev.Key == session.AdminTokenKey && ev.Cleared():
		c.runReaction(ctx, "admin_cleared", ev, c.reactAdminCleared)
	case ev.Key == session.AdminTokenKey && !ev.Cleared() && ev.NewValue != ev.OldValue:
		c.runReaction(ctx, "admin_replaced", ev, c.reactAdminReplaced)
	}
}

// runReaction isolates one reaction: errors and panics are logged, counted,
// and audited, never propagated. A bad reaction must not kill the loop.
func (c *Coordinator) runReaction(ctx context.Context, name string, ev session.Event, fn func(context.Context, session.Event) error) {
	defer func() {
		if r := recover(); r != nil {
			c.metrics.Inc(MetricReactionFailure)
			c.logger.Error().Str("reaction", name).Str("key", ev.Key).Interface("panic", r).Msg("storage reaction panicked")
			c.emitAudit(ctx, auditEventReactionFailure, false, "", fmt.Errorf("panic: %v", r), nil)
		}
	}()

	if err := fn(ctx, ev); err != nil {
		c.metrics.Inc(MetricReactionFailure)
		c.logger.Error().Err(err).Str("reaction", name).Object("event", ev).Msg("storage reaction failed")
		c.emitAudit(ctx, auditEventReactionFailure, false, "", err, func() map[string]any {
			return map[string]any{"reaction": name, "key": ev.Key}
		})
	}
}

// reactSessionCleared handles a sibling signing out: drop this context's
// remaining session state and bounce to the customer login, unless the user
// is on a surface where that would be disruptive for no gain.
func (c *Coordinator) reactSessionCleared(ctx context.Context, ev session.Event) error {
	clearedID, _ := session.IdentityFromSessionKey(ev.Key)
	if cur := c.CurrentIdentityID(); cur != "" && cur != clearedID {
		// A different identity's slot; this context's session is untouched.
		return nil
	}

	path := c.nav.CurrentPath()
	if c.config.Routes.IsLogin(path) || c.config.Routes.IsPublic(path) || c.config.Routes.InAdminArea(path) {
		return nil
	}

	err := c.clearLocalState(ctx, "")
	c.metrics.Inc(MetricCrossContextSignOut)
	c.emitAudit(ctx, auditEventCrossSignOut, err == nil, clearedID, err, nil)
	c.nav.Navigate(Redirect{
		Path:   c.config.Routes.CustomerLogin,
		Reason: ReasonSignedOutElsewhere,
	})
	return err
}

// reactIdentitySwitched handles a sibling signing in as someone else: this
// context's rendered state belongs to the previous identity, so reload.
func (c *Coordinator) reactIdentitySwitched(ctx context.Context, ev session.Event) error {
	path := c.nav.CurrentPath()
	if c.config.Routes.IsLogin(path) || c.config.Routes.IsPublic(path) {
		return nil
	}

	c.metrics.Inc(MetricCrossContextReload)
	c.emitAudit(ctx, auditEventCrossReload, true, ev.NewValue, nil, func() map[string]any {
		return map[string]any{"previous": ev.OldValue}
	})
	c.nav.Reload()
	return nil
}

// reactAdminCleared handles the admin credential vanishing: admin surfaces
// other than the admin login bounce to the admin login.
func (c *Coordinator) reactAdminCleared(ctx context.Context, ev session.Event) error {
	path := c.nav.CurrentPath()
	if !c.config.Routes.InAdminArea(path) || path == c.config.Routes.AdminLogin {
		return nil
	}

	c.metrics.Inc(MetricAdminRedirect)
	c.emitAudit(ctx, auditEventCrossSignOut, true, "", nil, func() map[string]any {
		return map[string]any{"scope": "admin"}
	})
	c.nav.Navigate(Redirect{
		Path:   c.config.Routes.AdminLogin,
		Reason: ReasonAdminSessionEnded,
	})
	return nil
}

// reactAdminReplaced handles a different admin signing in elsewhere: admin
// surfaces reload to pick up the new privilege context.
func (c *Coordinator) reactAdminReplaced(ctx context.Context, ev session.Event) error {
	path := c.nav.CurrentPath()
	if !c.config.Routes.InAdminArea(path) || path == c.config.Routes.AdminLogin {
		return nil
	}

	c.metrics.Inc(MetricCrossContextReload)
	c.emitAudit(ctx, auditEventCrossReload, true, "", nil, func() map[string]any {
		return map[string]any{"scope": "admin"}
	})
	c.nav.Reload()
	return nil
}
