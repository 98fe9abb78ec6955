// Package audit implements the buffered audit pipeline behind the
// coordinator's audit surface: the event model, the stock sinks, and the
// dispatcher that moves events from hot paths to the sink off-thread.
//
// # Architecture boundaries
//
// This package is internal. The root package re-exports the event and sink
// types; hosts implement Sink against those aliases.
//
// # What this package must NOT do
//
//   - Decide WHICH actions are audited (the coordinator does).
//   - Touch Redis or the navigator.
//   - Block coordinator operations when configured to drop.
package audit
