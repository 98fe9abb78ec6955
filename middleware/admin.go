package middleware

import (
	"net/http"

	goGate "github.com/MrEthical07/goGate"
)

// RequireAdmin guards an admin surface: admin identity kind plus a live
// admin token. The token check slides the admin inactivity window forward.
func RequireAdmin(c *goGate.Coordinator) func(http.Handler) http.Handler {
	guard := Guard(c, RouteSpec{RequiredType: goGate.UserTypeAdmin})
	return func(next http.Handler) http.Handler {
		return guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := c.ValidateAdminToken(r.Context())
			if err != nil {
				http.Error(w, "session check unavailable", http.StatusServiceUnavailable)
				return
			}
			if !ok {
				http.Redirect(w, r, redirectURL(goGate.Redirect{
					Path:   c.Routes().AdminLogin,
					Reason: goGate.ReasonAdminSessionEnded,
				}), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
