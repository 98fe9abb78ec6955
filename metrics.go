package goGate

import (
	"sync/atomic"
	"time"
)

// MetricID indexes one coordinator metric. IDs are dense and stable; the
// exporters in metrics/export map them to wire names.
type MetricID uint16

const (
	MetricEvaluateValid MetricID = iota
	MetricEvaluateExpired
	MetricEvaluateMissing
	MetricSessionStored
	MetricSessionCleared
	MetricRefreshTriggered
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricRefreshThrottled
	MetricVisibilityRuns
	MetricVisibilityDropped
	MetricCrossContextSignOut
	MetricCrossContextReload
	MetricAdminRedirect
	MetricAdminRenewed
	MetricAdminPurged
	MetricGuardAuthorized
	MetricGuardRedirectLogin
	MetricGuardWrongType
	MetricGuardRedirectVerify
	MetricGuardRedirectEntitlement
	MetricReactionFailure
	MetricDecideLatency

	metricIDCount
)

const histBucketCount = 8

// paddedCounter occupies a full cache line so adjacent metric IDs do not
// false-share under concurrent increments.
type paddedCounter struct {
	v atomic.Uint64
	_ [56]byte
}

// Metrics is a fixed-size, allocation-free counter set. A nil *Metrics is
// valid and inert. All methods are safe for concurrent use.
type Metrics struct {
	latencyHistograms bool

	counters   [metricIDCount]paddedCounter
	histograms [metricIDCount][histBucketCount]atomic.Uint64
}

// NewMetrics returns the counter set for cfg, nil when disabled.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	return &Metrics{latencyHistograms: cfg.EnableLatencyHistograms}
}

// Inc increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricIDCount {
		return
	}
	m.counters[id].v.Add(1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return m.counters[id].v.Load()
}

// Observe records d into the latency histogram for id. Only decision latency
// is histogram-tracked; other IDs are ignored here.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.latencyHistograms || id != MetricDecideLatency {
		return
	}
	m.histograms[id][bucketIndex(d)].Add(1)
}

// bucketIndex maps a duration onto the histogram layout with inclusive
// upper bounds [5ms, 10ms, 25ms, 50ms, 100ms, 250ms, 500ms, +Inf],
// mirroring Prometheus le semantics.
func bucketIndex(d time.Duration) int {
	switch {
	case d <= 5*time.Millisecond:
		return 0
	case d <= 10*time.Millisecond:
		return 1
	case d <= 25*time.Millisecond:
		return 2
	case d <= 50*time.Millisecond:
		return 3
	case d <= 100*time.Millisecond:
		return 4
	case d <= 250*time.Millisecond:
		return 5
	case d <= 500*time.Millisecond:
		return 6
	default:
		return 7
	}
}

// MetricsSnapshot is a point-in-time copy of all counters and histograms.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// Snapshot copies current values. Counters and histogram buckets are read
// individually, so a snapshot taken under load is approximate, never torn.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, metricIDCount),
		Histograms: make(map[MetricID][]uint64),
	}
	if m == nil {
		return snap
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.counters[id].v.Load()
	}

	if m.latencyHistograms {
		buckets := make([]uint64, histBucketCount)
		for i := range buckets {
			buckets[i] = m.histograms[MetricDecideLatency][i].Load()
		}
		snap.Histograms[MetricDecideLatency] = buckets
	}

	return snap
}
