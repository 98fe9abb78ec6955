package goGate

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledNoIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricGuardAuthorized)

	if got := m.Value(MetricGuardAuthorized); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMetricsEnabledIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricGuardAuthorized)
	m.Inc(MetricGuardAuthorized)
	m.Inc(MetricGuardAuthorized)

	if got := m.Value(MetricGuardAuthorized); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestMetricsOutOfRangeIgnored(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(metricIDCount)
	m.Inc(metricIDCount + 3)

	if got := m.Value(metricIDCount); got != 0 {
		t.Fatalf("expected 0 for out-of-range id, got %d", got)
	}
}

func TestMetricsConcurrentIncrementSafe(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 32
	const perG = 4000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				m.Inc(MetricRefreshSuccess)
			}
		}()
	}
	wg.Wait()

	want := uint64(goroutines * perG)
	if got := m.Value(MetricRefreshSuccess); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestMetricsHistogramBucketCorrectness(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})

	observations := []time.Duration{
		5 * time.Millisecond,
		10 * time.Millisecond,
		25 * time.Millisecond,
		50 * time.Millisecond,
		100 * time.Millisecond,
		250 * time.Millisecond,
		500 * time.Millisecond,
		700 * time.Millisecond,
	}

	for _, d := range observations {
		m.Observe(MetricDecideLatency, d)
	}

	snap := m.Snapshot()
	buckets := snap.Histograms[MetricDecideLatency]
	if len(buckets) != 8 {
		t.Fatalf("expected 8 buckets, got %d", len(buckets))
	}

	for i, v := range buckets {
		if v != 1 {
			t.Fatalf("bucket %d expected 1, got %d", i, v)
		}
	}
}

func TestMetricsObserveOnlyTracksDecideLatency(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})
	m.Observe(MetricGuardAuthorized, 5*time.Millisecond)

	snap := m.Snapshot()
	if buckets, ok := snap.Histograms[MetricGuardAuthorized]; ok {
		t.Fatalf("unexpected histogram for counter id: %v", buckets)
	}
	for _, v := range snap.Histograms[MetricDecideLatency] {
		if v != 0 {
			t.Fatalf("stray observation landed in decide latency: %v", snap.Histograms[MetricDecideLatency])
		}
	}
}

func TestMetricsObserveDisabledHistograms(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Observe(MetricDecideLatency, 5*time.Millisecond)

	snap := m.Snapshot()
	if len(snap.Histograms) != 0 {
		t.Fatalf("expected no histograms, got %v", snap.Histograms)
	}
}

func TestMetricsSnapshotConsistency(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})
	m.Inc(MetricSessionStored)
	m.Inc(MetricSessionCleared)
	m.Inc(MetricSessionCleared)
	m.Observe(MetricDecideLatency, 2*time.Millisecond)

	snap := m.Snapshot()

	if snap.Counters[MetricSessionStored] != 1 {
		t.Fatalf("expected MetricSessionStored=1 got %d", snap.Counters[MetricSessionStored])
	}
	if snap.Counters[MetricSessionCleared] != 2 {
		t.Fatalf("expected MetricSessionCleared=2 got %d", snap.Counters[MetricSessionCleared])
	}
	if len(snap.Histograms[MetricDecideLatency]) != 8 {
		t.Fatalf("expected histogram length 8")
	}
	if snap.Histograms[MetricDecideLatency][0] != 1 {
		t.Fatalf("expected first histogram bucket=1 got %d", snap.Histograms[MetricDecideLatency][0])
	}

	// The snapshot is a copy; later increments must not leak into it.
	m.Inc(MetricSessionStored)
	if snap.Counters[MetricSessionStored] != 1 {
		t.Fatal("snapshot mutated after the fact")
	}
}
