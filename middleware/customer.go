package middleware

import (
	"net/http"

	goGate "github.com/MrEthical07/goGate"
)

// RequireCustomer guards a surface for signed-in customers.
//
//	Docs: docs/middleware.md
func RequireCustomer(c *goGate.Coordinator) func(http.Handler) http.Handler {
	return Guard(c, RouteSpec{RequiredType: goGate.UserTypeCustomer})
}

// RequireEntitled guards a surface for verified customers with an active
// entitlement.
func RequireEntitled(c *goGate.Coordinator) func(http.Handler) http.Handler {
	return Guard(c, RouteSpec{
		RequiredType:        goGate.UserTypeCustomer,
		RequireVerification: true,
		RequireEntitlement:  true,
	})
}
