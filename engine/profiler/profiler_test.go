package profiler

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"
)

func TestTickReportsAtInterval(t *testing.T) {
	var out bytes.Buffer
	now := time.Unix(100, 0)
	p := NewProfiler(
		WithInterval(time.Second),
		WithNow(func() time.Time { return now }),
		WithLogger(log.New(&out, "", 0)),
	)

	stats := Stats{Preset: "Alien Goo", Transitioning: true, ActiveTweens: 5, PendingLoads: 1}
	for i := range 3 {
		now = now.Add(200 * time.Millisecond)
		if p.Tick(stats) {
			t.Fatalf("tick %d reported before the interval elapsed", i)
		}
	}
	now = now.Add(400 * time.Millisecond)
	if !p.Tick(stats) {
		t.Fatal("no report after the interval elapsed")
	}

	line := out.String()
	for _, want := range []string{"[Profiler]", "FPS: 4.00", "Preset: Alien Goo (transitioning)", "Tweens: 5", "Loads: 1"} {
		if !strings.Contains(line, want) {
			t.Errorf("log %q missing %q", line, want)
		}
	}

	// The counters reset after each report.
	out.Reset()
	now = now.Add(500 * time.Millisecond)
	if p.Tick(Stats{}) {
		t.Fatal("reported again before a full interval")
	}
	now = now.Add(500 * time.Millisecond)
	if !p.Tick(Stats{}) || !strings.Contains(out.String(), "FPS: 2.00") || !strings.Contains(out.String(), "(idle)") {
		t.Fatalf("second report = %q", out.String())
	}
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithInterval(-time.Second))
	if p.updateInterval != time.Second {
		t.Fatalf("interval = %v", p.updateInterval)
	}
}
