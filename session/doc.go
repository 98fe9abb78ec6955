// Package session provides Redis-backed storage for the per-origin session
// key space shared by concurrently active contexts, plus the change
// notification bus those contexts use to observe each other's writes.
//
// # Key space
//
// Three logical keys exist per origin: one session slot per identity
// ("session-<identityID>"), the "current-identity" pointer, and the
// "admin-token" string. All values are plain strings; session slots hold a
// versioned JSON envelope around [Record].
//
// # Change notifications
//
// Every effective mutation publishes an [Event] (origin, key, old value, new
// value) on a pub/sub channel. A [Watcher] suppresses events originating from
// its own store handle, so subscribers only observe writes made by sibling
// contexts. Per key, events preserve the writer's mutation order; no ordering
// is promised across unrelated keys.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations), the [Record] model, and
// the notification bus. It does NOT judge session validity, parse identity
// claims, or decide navigation — those responsibilities belong to the
// Coordinator.
//
// # What this package must NOT do
//
//   - Import goGate or admintoken (no upward imports).
//   - Cache values between calls; storage may change underneath at any time.
//   - Interpret the admin token beyond storing the raw string.
package session
