package tween

import (
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-blob/common"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTaskInterpolatesFromValueAtStart(t *testing.T) {
	s := NewScheduler()
	x := 0.0
	s.Schedule(New(Float64(&x, 0.5), WithDuration(time.Second)))

	// The value is mutated before the first advance; that is the captured start.
	x = 0.1
	steps := []struct {
		now  float64
		want float64
	}{
		{now: 10.0, want: 0.1},
		{now: 10.25, want: 0.2},
		{now: 10.5, want: 0.3},
		{now: 11.0, want: 0.5},
	}
	for _, st := range steps {
		s.Advance(st.now)
		if !almostEqual(x, st.want) {
			t.Fatalf("Advance(%v): x = %v, want %v", st.now, x, st.want)
		}
	}
	if s.Active() != 0 {
		t.Fatalf("Active = %d after completion", s.Active())
	}
}

func TestOnCompleteExactlyOnce(t *testing.T) {
	s := NewScheduler()
	calls := 0
	x := 0.0
	task := New(Float64(&x, 1), WithDuration(500*time.Millisecond), WithOnComplete(func() { calls++ }))
	s.Schedule(task)

	for _, now := range []float64{0, 0.2, 0.5, 0.7, 2, 5} {
		s.Advance(now)
	}
	if calls != 1 {
		t.Fatalf("onComplete called %d times, want 1", calls)
	}
	if !task.Done() || x != 1 {
		t.Fatalf("Done = %v, x = %v", task.Done(), x)
	}

	// Rescheduling a finished task does nothing.
	s.Schedule(task)
	s.Advance(10)
	if calls != 1 {
		t.Fatalf("onComplete called %d times after reschedule", calls)
	}
}

func TestZeroDurationCompletesOnFirstAdvance(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		s := NewScheduler()
		calls := 0
		x := 3.0
		s.Schedule(New(Float64(&x, 7), WithDuration(d), WithOnComplete(func() { calls++ })))

		s.Advance(1)
		if x != 7 || calls != 1 {
			t.Fatalf("duration %v: x = %v calls = %d", d, x, calls)
		}
		s.Advance(2)
		if calls != 1 {
			t.Fatalf("duration %v: calls = %d after second advance", d, calls)
		}
	}
}

func TestEndValueExactWithEasing(t *testing.T) {
	s := NewScheduler()
	x := 0.1
	s.Schedule(New(Float64(&x, 0.3), WithEase(ExpDrive), WithDuration(time.Second)))
	s.Advance(0)
	s.Advance(0.5)
	if x <= 0.1 || x >= 0.3 {
		t.Fatalf("mid-tween x = %v out of range", x)
	}
	s.Advance(1)
	if x != 0.3 {
		t.Fatalf("final x = %v, want exactly 0.3", x)
	}
}

func TestCancelSkipsOnComplete(t *testing.T) {
	s := NewScheduler()
	called := false
	x := 0.0
	h := s.Schedule(New(Float64(&x, 1), WithOnComplete(func() { called = true })))
	s.Advance(0)
	s.Advance(0.5)

	if !h.Cancel() {
		t.Fatal("Cancel returned false for active task")
	}
	if h.Cancel() {
		t.Fatal("second Cancel returned true")
	}
	s.Advance(5)
	if called {
		t.Fatal("onComplete invoked for cancelled task")
	}
	if !almostEqual(x, 0.5) {
		t.Fatalf("x = %v, want value frozen at 0.5", x)
	}
	if h.Active() || s.Active() != 0 {
		t.Fatal("cancelled task still active")
	}
}

func TestCallbackCancelsSiblingInSamePass(t *testing.T) {
	s := NewScheduler()
	var later Handle
	laterCalled := false

	first := After(0, func() { later.Cancel() })
	s.Schedule(first)
	later = s.Schedule(After(0, func() { laterCalled = true }))

	s.Advance(0)
	if laterCalled {
		t.Fatal("task cancelled earlier in the pass was still processed")
	}
	if s.Active() != 0 {
		t.Fatalf("Active = %d", s.Active())
	}
}

func TestCallbackCancelsEarlierTaskInSamePass(t *testing.T) {
	s := NewScheduler()
	x := 0.0
	early := s.Schedule(New(Float64(&x, 1), WithDuration(time.Second)))
	s.Schedule(After(0, func() { early.Cancel() }))

	s.Advance(0)
	if early.Active() {
		t.Fatal("task cancelled after being stepped is still active")
	}
	s.Advance(0.5)
	if x != 0 {
		t.Fatalf("cancelled task kept running: x = %v", x)
	}
}

func TestScheduleFromCallbackStartsNextAdvance(t *testing.T) {
	s := NewScheduler()
	x := 0.0
	var chained *Task
	s.Schedule(After(0, func() {
		chained = New(Float64(&x, 1), WithDuration(time.Second))
		s.Schedule(chained)
	}))

	s.Advance(5)
	if chained == nil || x != 0 || chained.Progress() != 0 {
		t.Fatal("task scheduled inside a callback must not run in the same pass")
	}
	if s.Active() != 1 {
		t.Fatalf("Active = %d, want 1", s.Active())
	}
	s.Advance(6)
	s.Advance(6.5)
	if !almostEqual(x, 0.5) {
		t.Fatalf("x = %v, want 0.5", x)
	}
}

func TestNoTaskProcessedTwicePerAdvance(t *testing.T) {
	s := NewScheduler()
	counts := make([]int, 5)
	for i := range counts {
		s.Schedule(New(Func(
			func() float64 { return 0 },
			func(float64) { counts[i]++ },
			1,
		), WithDuration(time.Second), WithOnComplete(func() {
			// Completing tasks reshape the list mid-iteration.
			s.Schedule(After(time.Second, nil))
		})))
	}
	s.Advance(0)
	s.Advance(1)
	for i, c := range counts {
		if c != 2 {
			t.Fatalf("task %d applied %d times over two advances, want 2", i, c)
		}
	}
}

func TestCancelAll(t *testing.T) {
	s := NewScheduler()
	for range 3 {
		s.Schedule(After(time.Second, func() { t.Fatal("cancelled task completed") }))
	}
	s.Advance(0)
	s.CancelAll()
	s.Advance(10)
	if s.Active() != 0 {
		t.Fatalf("Active = %d", s.Active())
	}
}

func TestZeroHandle(t *testing.T) {
	var h Handle
	if h.Cancel() || h.Active() || h.Task() != nil {
		t.Fatal("zero Handle should be inert")
	}
	if got := NewScheduler().Schedule(nil); got.Task() != nil {
		t.Fatal("scheduling nil returned a live handle")
	}
}

func TestPropertyKinds(t *testing.T) {
	s := NewScheduler()

	var f32 float32 = 3
	vec := [3]float32{0, 0, 2}
	col := common.MustParseColor("#000000")
	target := common.MustParseColor("#ffffff")

	s.Schedule(New(Float32(&f32, -3)))
	s.Schedule(New(Vec3(&vec, [3]float32{2, 4, 2})))
	s.Schedule(New(Color(&col, target)))

	s.Advance(0)
	s.Advance(0.5)
	if f32 != 0 {
		t.Errorf("float32 mid = %v", f32)
	}
	if vec != [3]float32{1, 2, 2} {
		t.Errorf("vec3 mid = %v", vec)
	}
	if !almostEqual(col.R, 0.5) || !almostEqual(col.G, 0.5) || !almostEqual(col.B, 0.5) {
		t.Errorf("color mid = %v", col)
	}
	s.Advance(1)
	if f32 != -3 || vec != [3]float32{2, 4, 2} || col != target {
		t.Errorf("end values f32=%v vec=%v col=%v", f32, vec, col)
	}
}

func TestEasingEndpoints(t *testing.T) {
	tests := []struct {
		name string
		fn   EaseFunc
		at0  float64
		at1  float64
	}{
		{name: "linear", fn: Linear, at0: 0, at1: 1},
		{name: "sine", fn: EaseInOutSine, at0: 0, at1: 1},
		{name: "decay", fn: ExpDecay, at0: 1, at1: math.Exp(-2 * math.Pi)},
		{name: "drive", fn: ExpDrive, at0: 0, at1: 1 - math.Exp(-2*math.Pi)},
	}
	for _, tt := range tests {
		if got := tt.fn(0); !almostEqual(got, tt.at0) {
			t.Errorf("%s(0) = %v, want %v", tt.name, got, tt.at0)
		}
		if got := tt.fn(1); !almostEqual(got, tt.at1) {
			t.Errorf("%s(1) = %v, want %v", tt.name, got, tt.at1)
		}
	}
}
