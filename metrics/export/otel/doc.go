// Package otel provides OpenTelemetry metric exporter bindings for coordinator
// counters and histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each
// coordinator metric and Int64ObservableGauge per histogram bucket. A single
// callback reads [goGate.Coordinator.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate coordinator state.
package otel
