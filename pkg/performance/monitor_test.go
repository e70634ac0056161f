package performance

import (
	"testing"
	"time"
)

func TestLatencyWindowRollsOver(t *testing.T) {
	w := newLatencyWindow(3)

	if w.average() != 0 {
		t.Fatalf("empty window average = %v, want 0", w.average())
	}

	w.add(10 * time.Millisecond)
	w.add(20 * time.Millisecond)
	if got := w.average(); got != 15*time.Millisecond {
		t.Errorf("average = %v, want 15ms", got)
	}

	// Fourth sample evicts the first.
	w.add(30 * time.Millisecond)
	w.add(60 * time.Millisecond)
	want := (20 + 30 + 60) * time.Millisecond / 3
	if got := w.average(); got != want {
		t.Errorf("average after rollover = %v, want %v", got, want)
	}
}

func TestMonitorReport(t *testing.T) {
	m := NewMonitor(8)

	m.RecordMaterialize(500 * time.Millisecond)
	m.RecordMaterialize(1500 * time.Millisecond)
	m.RecordSettle(200 * time.Millisecond)

	report := m.GetReport()
	if report.AvgMaterializeMs != 1000.0 {
		t.Errorf("AvgMaterializeMs = %v, want 1000", report.AvgMaterializeMs)
	}
	if report.AvgSettleMs != 200.0 {
		t.Errorf("AvgSettleMs = %v, want 200", report.AvgSettleMs)
	}
	if report.Materialized != 2 || report.Failed != 0 {
		t.Errorf("counts = (%d, %d), want (2, 0)", report.Materialized, report.Failed)
	}
	if !report.IsHealthy {
		t.Error("expected healthy report")
	}
}

func TestMonitorDegrading(t *testing.T) {
	m := NewMonitor(8)

	// One slow failure-heavy stretch flips the monitor to degrading.
	m.RecordMaterialize(12 * time.Second)
	m.RecordMaterializeFailure()
	if !m.IsDegrading() {
		t.Error("expected degrading after slow download and failure")
	}

	m.Reset()
	if m.IsDegrading() {
		t.Error("expected healthy after reset")
	}
	report := m.GetReport()
	if report.Materialized != 0 || report.Failed != 0 {
		t.Errorf("reset did not clear counts: %+v", report)
	}
}
