package metrics

import (
	"testing"
	"time"
)

func TestTimingMetric_Stats(t *testing.T) {
	m := newTimingMetric("op")
	if m.Name() != "op" {
		t.Errorf("unexpected name %q", m.Name())
	}
	if m.AvgNs() != 0 {
		t.Error("average of no samples should be 0")
	}

	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)

	if m.Count() != 2 {
		t.Errorf("expected 2 samples, got %d", m.Count())
	}
	if got := m.TotalNs(); got != (6 * time.Millisecond).Nanoseconds() {
		t.Errorf("expected 6ms total, got %dns", got)
	}
	if got := m.AvgNs(); got != (3 * time.Millisecond).Nanoseconds() {
		t.Errorf("expected 3ms average, got %dns", got)
	}
	if got := m.MaxNs(); got != (4 * time.Millisecond).Nanoseconds() {
		t.Errorf("expected 4ms max, got %dns", got)
	}

	m.Reset()
	if m.Count() != 0 || m.TotalNs() != 0 || m.MaxNs() != 0 {
		t.Error("reset should zero all counters")
	}
}

func TestTimer_RecordsOneSample(t *testing.T) {
	m := newTimingMetric("op")
	done := Timer(m)
	done()
	if m.Count() != 1 {
		t.Errorf("expected 1 sample, got %d", m.Count())
	}
}

func TestResetAll(t *testing.T) {
	DeckLoad.Record(time.Millisecond)
	UIRender.Record(time.Millisecond)

	ResetAll()
	for _, m := range AllTimingMetrics() {
		if m.Count() != 0 {
			t.Errorf("%s not reset, count %d", m.Name(), m.Count())
		}
	}
}

func TestDisabledCollection(t *testing.T) {
	old := Enabled()
	SetEnabled(false)
	defer SetEnabled(old)

	m := newTimingMetric("op")
	m.Record(time.Millisecond)
	Timer(m)()
	if m.Count() != 0 {
		t.Errorf("disabled collection recorded %d samples", m.Count())
	}
}
