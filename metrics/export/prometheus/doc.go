// Package prometheus provides Prometheus collectors for coordinator metrics.
//
// [NewPrometheusExporter] accepts a [goGate.Coordinator] and exposes an
// [http.Handler] that renders all counters and histograms in Prometheus text
// exposition format. Counter names are prefixed gogate_*_total; the single
// histogram is gogate_decide_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate coordinator state.
package prometheus
