// Package rate provides the Redis-backed refresh throttle: a per-identity
// budget on how often the coordinator may ask the auth provider for a fresh
// session record.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Keys live
// under "<prefix>:refresh-throttle:<identity>", sharing the deployment's
// namespace with the session store, so the budget is enforced across every
// cooperating context rather than per tab.
//
// # What this package must NOT do
//
//   - Decide WHEN a refresh is warranted (that is the synchronizer's call).
//   - Be imported outside the goGate module.
package rate
