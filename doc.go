// Package goGate coordinates session state and access control across
// cooperating contexts that share one Redis-backed store: browser-tab-like
// workers, sidecar processes, or replicas of an edge frontend.
//
// Each context owns one [Coordinator], built through [New]. The coordinator
// keeps an in-memory current identity, evaluates session records against
// their expiry, guards route entry through [Coordinator.Decide], manages the
// sliding-window admin credential, and reacts to sibling contexts' writes so
// that sign-out, sign-in, and privilege changes propagate everywhere within
// one event.
//
// # Session model
//
// Sessions are opaque claim blobs with an absolute expiry, stored per
// identity slot. Validity is decided by record expiry alone; the claims are
// decoded for identity context but never verified here. The host's auth
// system issues records; this module stores, judges, and synchronizes them.
//
// # Cross-context synchronization
//
// Every write to the shared store publishes a change event stamped with the
// writer's origin. A coordinator suppresses its own events and reacts to
// sibling events: a cleared session slot signs this context out, a switched
// current-identity pointer reloads it, admin credential changes bounce or
// reload admin surfaces. Visibility changes trigger a debounced re-check
// with a grace delay for in-flight sibling writes.
//
// # Architecture boundaries
//
// This module never authenticates. It holds no credentials beyond the admin
// session marker, calls no identity provider except through the narrow
// [AuthProvider], [VerificationService], and [ContactDirectory] interfaces,
// and performs no navigation outside the [Navigator] the host supplies.
//
// # What this package must NOT do
//
//   - Mint or verify auth tokens (the host's provider owns credentials).
//   - Cache guard decisions (session state shifts under sibling writes).
//   - React to its own storage writes (origin suppression is load-bearing).
package goGate
