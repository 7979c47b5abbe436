package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestTimingMetricRecord(t *testing.T) {
	m := newTimingMetric("test_op")
	m.Record(10 * time.Millisecond)
	m.Record(30 * time.Millisecond)
	m.Record(20 * time.Millisecond)

	if m.Count() != 3 {
		t.Errorf("Count = %d, want 3", m.Count())
	}
	if m.MinNs() != (10 * time.Millisecond).Nanoseconds() {
		t.Errorf("MinNs = %d, want 10ms", m.MinNs())
	}
	if m.MaxNs() != (30 * time.Millisecond).Nanoseconds() {
		t.Errorf("MaxNs = %d, want 30ms", m.MaxNs())
	}
	if m.AvgNs() != (20 * time.Millisecond).Nanoseconds() {
		t.Errorf("AvgNs = %d, want 20ms", m.AvgNs())
	}

	stats := m.Stats()
	if stats.Name != "test_op" || stats.Count != 3 {
		t.Errorf("Stats = %+v", stats)
	}

	m.Reset()
	if m.Count() != 0 || m.MinNs() != 0 {
		t.Error("Reset did not clear the metric")
	}
}

func TestTimingMetricConcurrent(t *testing.T) {
	m := newTimingMetric("concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Record(time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if m.Count() != 1000 {
		t.Errorf("Count = %d, want 1000", m.Count())
	}
}

func TestTimer(t *testing.T) {
	m := newTimingMetric("timer")
	done := Timer(m)
	time.Sleep(time.Millisecond)
	done()

	if m.Count() != 1 {
		t.Fatalf("Count = %d, want 1", m.Count())
	}
	if m.TotalNs() < time.Millisecond.Nanoseconds() {
		t.Errorf("TotalNs = %d, want at least 1ms", m.TotalNs())
	}
}

func TestTimerDisabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("disabled")
	Timer(m)()
	if m.Count() != 0 {
		t.Error("disabled metrics should not record")
	}
}

func TestTimerWithCallback(t *testing.T) {
	m := newTimingMetric("callback")
	var got time.Duration
	done := TimerWithCallback(m, func(d time.Duration) { got = d })
	done()

	if m.Count() != 1 {
		t.Fatal("callback timer did not record")
	}
	if got < 0 {
		t.Error("callback did not receive a duration")
	}
}

func TestAllTimingStatsSkipsEmpty(t *testing.T) {
	ResetAll()
	RenderFigure.Record(time.Millisecond)
	defer ResetAll()

	stats := AllTimingStats()
	if len(stats) != 1 {
		t.Fatalf("AllTimingStats returned %d entries, want 1", len(stats))
	}
	if stats[0].Name != "render_figure" {
		t.Errorf("stats[0].Name = %q", stats[0].Name)
	}
}
