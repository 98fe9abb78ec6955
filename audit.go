package goGate

import (
	"context"

	internalaudit "github.com/MrEthical07/goGate/internal/audit"
)

const (
	auditEventSessionStored      = "session_stored"
	auditEventSessionCleared     = "session_cleared"
	auditEventSessionExpired     = "session_expired"
	auditEventSignOut            = "sign_out"
	auditEventRefreshTriggered   = "session_refresh_triggered"
	auditEventRefreshFailure     = "session_refresh_failure"
	auditEventCrossSignOut       = "cross_context_sign_out"
	auditEventCrossReload        = "cross_context_reload"
	auditEventAdminIssued        = "admin_token_issued"
	auditEventAdminRenewed       = "admin_token_renewed"
	auditEventAdminRejected      = "admin_token_rejected"
	auditEventAdminUnloadRenewal = "admin_token_unload_renewal"
	auditEventGuardRedirect      = "guard_redirect"
	auditEventReactionFailure    = "sync_reaction_failure"
)

// emitAudit builds and dispatches one audit event. The metadata builder runs
// only when a dispatcher is attached, keeping disabled audit free of map
// allocations on hot paths.
func (c *Coordinator) emitAudit(ctx context.Context, eventType string, success bool, identityID string, err error, metadata func() map[string]any) {
	if c.audit == nil {
		return
	}

	path := requestPathFromContext(ctx)
	if path == "" && c.nav != nil {
		path = c.nav.CurrentPath()
	}

	ev := internalaudit.Event{
		Timestamp:  c.now(),
		EventType:  eventType,
		IdentityID: identityID,
		Origin:     c.store.Origin(),
		Path:       path,
		Success:    success,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	if metadata != nil {
		ev.Metadata = metadata()
	}

	c.audit.Emit(ev)
}

// AuditDropped reports how many audit events were discarded because the
// buffer was full. Always zero when audit is disabled or never saturated.
func (c *Coordinator) AuditDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.audit.Dropped()
}
