package performance

import (
	"sync"
	"time"
)

// latencyWindow keeps a rolling average of durations over a fixed number of
// samples. Callers hold their own locks; this type is not safe on its own.
type latencyWindow struct {
	samples []time.Duration
	next    int
	count   int
	sum     time.Duration
}

func newLatencyWindow(size int) *latencyWindow {
	return &latencyWindow{samples: make([]time.Duration, size)}
}

func (w *latencyWindow) add(d time.Duration) {
	if w.count == len(w.samples) {
		w.sum -= w.samples[w.next]
	} else {
		w.count++
	}
	w.samples[w.next] = d
	w.sum += d
	w.next = (w.next + 1) % len(w.samples)
}

func (w *latencyWindow) average() time.Duration {
	if w.count == 0 {
		return 0
	}
	return w.sum / time.Duration(w.count)
}

func (w *latencyWindow) reset() {
	w.next = 0
	w.count = 0
	w.sum = 0
}

// Monitor tracks the feed's materialization and settle latencies. Materialize
// latency is the time from a clip request until its handle is ready (mostly
// download time); settle latency is the time a commanded page jump takes to
// come to rest.
type Monitor struct {
	mu sync.RWMutex

	materializeTimes *latencyWindow
	settleTimes      *latencyWindow
	materialized     int
	failed           int
	startTime        time.Time
}

// Report contains aggregated feed performance metrics.
type Report struct {
	AvgMaterializeMs float64 // average clip materialization time
	AvgSettleMs      float64 // average page settle time
	Materialized     int     // clips materialized since start
	Failed           int     // materializations that failed
	FailureRate      float64 // percentage of failed materializations
	IsHealthy        bool    // downloads keeping up and mostly succeeding
	UptimeSeconds    int64
}

// NewMonitor creates a monitor averaging over the last windowSize samples.
func NewMonitor(windowSize int) *Monitor {
	if windowSize <= 0 {
		windowSize = 32
	}
	return &Monitor{
		materializeTimes: newLatencyWindow(windowSize),
		settleTimes:      newLatencyWindow(windowSize),
		startTime:        time.Now(),
	}
}

// RecordMaterialize records a successful clip materialization.
func (m *Monitor) RecordMaterialize(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.materializeTimes.add(d)
	m.materialized++
}

// RecordMaterializeFailure records a failed clip materialization.
func (m *Monitor) RecordMaterializeFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed++
}

// RecordSettle records how long a commanded page jump took to settle.
func (m *Monitor) RecordSettle(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settleTimes.add(d)
}

// GetReport produces a report of the current metrics.
func (m *Monitor) GetReport() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.materialized + m.failed
	failureRate := 0.0
	if total > 0 {
		failureRate = float64(m.failed) / float64(total) * 100.0
	}

	avgMaterialize := m.materializeTimes.average()
	avgSettle := m.settleTimes.average()

	// Healthy means clips arrive faster than a viewer pages through them
	// and almost none fail.
	isHealthy := failureRate < 5.0 && avgMaterialize < 4*time.Second

	return Report{
		AvgMaterializeMs: float64(avgMaterialize.Microseconds()) / 1000.0,
		AvgSettleMs:      float64(avgSettle.Microseconds()) / 1000.0,
		Materialized:     m.materialized,
		Failed:           m.failed,
		FailureRate:      failureRate,
		IsHealthy:        isHealthy,
		UptimeSeconds:    int64(time.Since(m.startTime).Seconds()),
	}
}

// IsDegrading reports whether downloads are falling behind badly enough that
// the clip window should shrink.
func (m *Monitor) IsDegrading() bool {
	report := m.GetReport()
	return report.FailureRate > 10.0 || report.AvgMaterializeMs > 8000.0
}

// Reset clears all metrics.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.materializeTimes.reset()
	m.settleTimes.reset()
	m.materialized = 0
	m.failed = 0
	m.startTime = time.Now()
}
