// Package middleware exposes HTTP adapters for coordinator route decisions.
//
// # Guards
//
//   - [Guard] — enforces an explicit [RouteSpec].
//   - [RequireCustomer] — customer identity kind.
//   - [RequireEntitled] — verified customer with an active entitlement.
//   - [RequireAdmin] — admin identity kind plus a live admin token.
//
// Each guard reads the request identity placed by [WithIdentity], calls
// Coordinator.Decide, and either forwards with the decision in context or
// answers with the decision's redirect.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into coordinator calls. It does NOT
// implement access logic itself — all decisions are delegated to
// Coordinator.Decide.
//
// # What this package must NOT do
//
//   - Authenticate requests (hosts resolve identity upstream).
//   - Access Redis (the coordinator handles I/O).
//   - Make authorization decisions beyond translating Decide outcomes.
package middleware
