package middleware

import (
	"context"
	"net/http"
	"net/url"

	goGate "github.com/MrEthical07/goGate"
)

type identityContextKey struct{}

type decisionContextKey struct{}

// WithIdentity attaches the request's authenticated identity for guards
// downstream. Hosts resolve the identity in their own auth middleware and
// hand it off here.
func WithIdentity(ctx context.Context, id *goGate.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the identity attached by [WithIdentity].
func IdentityFromContext(ctx context.Context) (*goGate.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*goGate.Identity)
	return id, ok && id != nil
}

// DecisionFromContext returns the guard decision recorded for an authorized
// request.
func DecisionFromContext(ctx context.Context) (goGate.Decision, bool) {
	d, ok := ctx.Value(decisionContextKey{}).(goGate.Decision)
	return d, ok
}

// RouteSpec declares what the wrapped surface requires. The request path and
// identity come from the request itself.
type RouteSpec struct {
	RequiredType        goGate.UserType
	RequireVerification bool
	RequireEntitlement  bool
}

// Guard returns middleware enforcing spec through the coordinator's route
// decision. Authorized requests proceed with the decision in context;
// refused requests receive a 302 to the decision's redirect.
func Guard(c *goGate.Coordinator, spec RouteSpec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c == nil {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}

			identity, _ := IdentityFromContext(r.Context())
			decision := c.Decide(goGate.WithRequestPath(r.Context(), r.URL.Path), goGate.RouteRequest{
				Path:                r.URL.Path,
				Identity:            identity,
				RequiredType:        spec.RequiredType,
				RequireVerification: spec.RequireVerification,
				RequireEntitlement:  spec.RequireEntitlement,
			})

			switch {
			case decision.Allowed():
				ctx := context.WithValue(r.Context(), decisionContextKey{}, decision)
				next.ServeHTTP(w, r.WithContext(ctx))
			case decision.Redirect != nil:
				http.Redirect(w, r, redirectURL(*decision.Redirect), http.StatusFound)
			default:
				// StateChecking: storage unreachable or request cancelled.
				http.Error(w, "session check unavailable", http.StatusServiceUnavailable)
			}
		})
	}
}

// redirectURL flattens a redirect into a target URL, carrying the resume
// context as query parameters.
func redirectURL(red goGate.Redirect) string {
	q := url.Values{}
	if red.ReturnTo != "" {
		q.Set("return_to", red.ReturnTo)
	}
	if red.Reason != "" {
		q.Set("reason", string(red.Reason))
	}
	if red.IdentityID != "" {
		q.Set("identity", red.IdentityID)
	}
	if red.Contact != "" {
		q.Set("contact", red.Contact)
	}
	if len(q) == 0 {
		return red.Path
	}
	return red.Path + "?" + q.Encode()
}
