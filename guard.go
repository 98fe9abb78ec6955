package goGate

import (
	"context"
	"time"
)

// GuardState is the outcome classification of one route decision.
type GuardState uint8

const (
	// StateLoading is the pre-decision state a host renders while Decide is
	// in flight on a bootstrap evaluation.
	StateLoading GuardState = iota
	// StateChecking means the decision could not complete: the context was
	// cancelled mid-check or session storage was unreachable. No redirect is
	// attached; the host may retry.
	StateChecking
	StateUnauthenticated
	StateWrongType
	StateInvalidSession
	StateNeedsVerification
	StateNeedsEntitlement
	StateAuthorized
)

func (s GuardState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateChecking:
		return "checking"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateWrongType:
		return "wrong_type"
	case StateInvalidSession:
		return "invalid_session"
	case StateNeedsVerification:
		return "needs_verification"
	case StateNeedsEntitlement:
		return "needs_entitlement"
	case StateAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// RedirectReason tells the target surface why the user arrived.
type RedirectReason string

const (
	ReasonNotSignedIn          RedirectReason = "not_signed_in"
	ReasonSessionExpired       RedirectReason = "session_expired"
	ReasonWrongUserType        RedirectReason = "wrong_user_type"
	ReasonVerificationRequired RedirectReason = "verification_required"
	ReasonEntitlementRequired  RedirectReason = "entitlement_required"
	ReasonSignedOutElsewhere   RedirectReason = "signed_out_elsewhere"
	ReasonIdentitySwitched     RedirectReason = "identity_switched"
	ReasonAdminSessionEnded    RedirectReason = "admin_session_ended"
)

// Redirect is a navigation instruction plus the context the target surface
// needs to resume the user's journey.
type Redirect struct {
	Path     string
	ReturnTo string
	Reason   RedirectReason

	// IdentityID, Contact, and Channels ride along on verification
	// redirects so the verification surface can prefill its flow.
	IdentityID string
	Contact    string
	Channels   ChannelRequirement
}

// RouteRequest describes the surface being entered and its requirements.
type RouteRequest struct {
	Path string

	// Identity is the session-context making the request. Nil falls back to
	// the coordinator's in-memory current identity.
	Identity *Identity

	// RequiredType restricts the surface to one identity kind. Empty admits
	// any kind.
	RequiredType UserType

	RequireVerification bool
	RequireEntitlement  bool

	// Bootstrap marks the first evaluation after context start-up; the
	// guard observes the configured settle delay before reading state.
	Bootstrap bool
}

// Decision is the guard's answer: a terminal state, the identity it judged,
// and the redirect to perform when access was refused.
type Decision struct {
	State    GuardState
	Identity *Identity
	Redirect *Redirect
}

// Allowed reports whether the surface may render.
func (d Decision) Allowed() bool {
	return d.State == StateAuthorized
}

// Decide runs the access sequence for one surface entry: identity presence,
// identity kind, session validity, contact verification, entitlement. The
// first failing gate wins. Decisions are computed fresh on every call and
// never cached; session state may change between two calls through another
// context's actions.
//
// Decide returns the redirect rather than performing it. Request-scoped
// callers (middleware) translate it into their transport's redirect; the
// synchronizer's background reactions are the only place this module drives
// the Navigator itself.
//
//	Docs: docs/guard.md
func (c *Coordinator) Decide(ctx context.Context, req RouteRequest) Decision {
	start := time.Now()
	defer func() {
		c.metrics.Observe(MetricDecideLatency, time.Since(start))
	}()

	if req.Bootstrap && c.config.Guard.SettleDelay > 0 {
		select {
		case <-time.After(c.config.Guard.SettleDelay):
		case <-ctx.Done():
			return Decision{State: StateChecking}
		}
	}

	identity := req.Identity
	if identity == nil {
		identity = c.CurrentIdentity()
	}

	if identity == nil {
		// Drop whatever partial state a dead session left behind, so the
		// next sign-in starts clean.
		if err := c.clearLocalState(ctx, ""); err != nil {
			c.logger.Warn().Err(err).Msg("guard: clearing residual state")
		}
		return c.refuse(ctx, req, StateUnauthenticated, nil, Redirect{
			Path:     c.config.Routes.LoginFor(req.RequiredType),
			ReturnTo: req.Path,
			Reason:   ReasonNotSignedIn,
		}, MetricGuardRedirectLogin)
	}

	if req.RequiredType != "" && identity.Type != req.RequiredType {
		return c.refuse(ctx, req, StateWrongType, identity, Redirect{
			Path:   c.config.Routes.NeutralLanding,
			Reason: ReasonWrongUserType,
		}, MetricGuardWrongType)
	}

	verdict, err := c.Evaluate(ctx, identity.ID)
	if err != nil {
		c.logger.Warn().Err(err).Str("identity", identity.ID).Msg("guard: session lookup failed")
		return Decision{State: StateChecking, Identity: identity}
	}
	if !verdict.Valid {
		if err := c.clearLocalState(ctx, identity.ID); err != nil {
			c.logger.Warn().Err(err).Str("identity", identity.ID).Msg("guard: purging expired session")
		}
		kind := req.RequiredType
		if kind == "" {
			kind = identity.Type
		}
		return c.refuse(ctx, req, StateInvalidSession, identity, Redirect{
			Path:     c.config.Routes.LoginFor(kind),
			ReturnTo: req.Path,
			Reason:   ReasonSessionExpired,
		}, MetricGuardRedirectLogin)
	}

	if req.RequireVerification && c.verifier != nil && req.Path != c.config.Routes.Verification {
		if d, refused := c.verificationGate(ctx, req, identity); refused {
			return d
		}
	}

	if req.RequireEntitlement && identity.Type != UserTypeAdmin &&
		!c.config.Routes.EntitlementExempt(req.Path) && !identity.HasActiveEntitlement {
		return c.refuse(ctx, req, StateNeedsEntitlement, identity, Redirect{
			Path:     c.config.Routes.EntitlementSelection,
			ReturnTo: req.Path,
			Reason:   ReasonEntitlementRequired,
		}, MetricGuardRedirectEntitlement)
	}

	c.metrics.Inc(MetricGuardAuthorized)
	return Decision{State: StateAuthorized, Identity: identity}
}

// verificationGate asks the host whether the identity still needs contact
// verification. Lookup failures fail open: an outage in the verification
// service must not redirect-loop every signed-in user.
func (c *Coordinator) verificationGate(ctx context.Context, req RouteRequest, identity *Identity) (Decision, bool) {
	status, err := c.verifier.CheckVerificationStatus(ctx, identity)
	if err != nil {
		c.logger.Warn().Err(err).Str("identity", identity.ID).Msg("guard: verification lookup failed")
		c.emitAudit(ctx, auditEventGuardRedirect, false, identity.ID, err, nil)
		return Decision{}, false
	}
	if !status.NeedsVerification {
		return Decision{}, false
	}

	contact := ""
	if c.contacts != nil {
		contact, err = c.contacts.VerificationContact(ctx, identity.ID)
		if err != nil {
			c.logger.Debug().Err(err).Str("identity", identity.ID).Msg("guard: contact lookup failed")
			contact = ""
		}
	}

	return c.refuse(ctx, req, StateNeedsVerification, identity, Redirect{
		Path:       c.config.Routes.Verification,
		ReturnTo:   req.Path,
		Reason:     ReasonVerificationRequired,
		IdentityID: identity.ID,
		Contact:    contact,
		Channels:   status.Channels,
	}, MetricGuardRedirectVerify), true
}

func (c *Coordinator) refuse(ctx context.Context, req RouteRequest, state GuardState, identity *Identity, red Redirect, metric MetricID) Decision {
	c.metrics.Inc(metric)

	identityID := ""
	if identity != nil {
		identityID = identity.ID
	}
	c.emitAudit(ctx, auditEventGuardRedirect, true, identityID, nil, func() map[string]any {
		return map[string]any{
			"from":   req.Path,
			"to":     red.Path,
			"state":  state.String(),
			"reason": string(red.Reason),
		}
	})

	return Decision{State: state, Identity: identity, Redirect: &red}
}
