package transition

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-blob/common"
	"github.com/Carmen-Shannon/oxy-blob/engine/preset"
	"github.com/Carmen-Shannon/oxy-blob/engine/tween"
	"github.com/Carmen-Shannon/oxy-blob/engine/uniform"
)

func newTestController(t *testing.T, options ...ControllerBuilderOption) (Controller, tween.Scheduler, uniform.State) {
	t.Helper()
	s := tween.NewScheduler()
	u := uniform.NewState()
	return NewController(preset.Default(), u, s, options...), s, u
}

// finish drives the scheduler until the in-flight transition completes.
func finish(c Controller, s tween.Scheduler, from float64) float64 {
	now := from
	s.Advance(now)
	for c.State().Locked && now < from+10 {
		now += 0.25
		s.Advance(now)
	}
	return now
}

func TestHandleScrollWrapsAround(t *testing.T) {
	tests := []struct {
		name  string
		start int
		delta float64
		want  int
		dir   int
	}{
		{name: "forward", start: 0, delta: 5, want: 1, dir: 1},
		{name: "backward", start: 1, delta: -3, want: 0, dir: -1},
		{name: "wrap forward", start: 2, delta: 1, want: 0, dir: 1},
		{name: "wrap backward", start: 0, delta: -0.01, want: 2, dir: -1},
	}
	for _, tt := range tests {
		c, s, _ := newTestController(t, WithStartIndex(tt.start))
		if !c.HandleScroll(tt.delta) {
			t.Fatalf("%s: scroll rejected", tt.name)
		}
		st := c.State()
		if !st.Locked || st.NextIndex != tt.want || st.Direction != tt.dir || st.CurrentIndex != tt.start {
			t.Fatalf("%s: state after scroll = %+v", tt.name, st)
		}
		finish(c, s, 0)
		st = c.State()
		if st.Locked || st.CurrentIndex != tt.want || st.NextIndex != tt.want || st.Progress != 0 {
			t.Fatalf("%s: state after completion = %+v", tt.name, st)
		}
	}
}

func TestZeroDeltaIsNoop(t *testing.T) {
	c, s, _ := newTestController(t)
	if c.HandleScroll(0) || c.HandleScroll(math.NaN()) {
		t.Fatal("zero delta started a transition")
	}
	if c.State().Locked || s.Active() != 0 {
		t.Fatal("zero delta changed state")
	}
}

func TestScrollWhileLockedIsDropped(t *testing.T) {
	c, s, _ := newTestController(t)
	c.HandleScroll(1)
	active := s.Active()

	s.Advance(0)
	s.Advance(0.5)
	for _, d := range []float64{1, -1, 100} {
		if c.HandleScroll(d) {
			t.Fatalf("scroll %v accepted while locked", d)
		}
	}
	if st := c.State(); st.NextIndex != 1 || st.Direction != 1 {
		t.Fatalf("locked scroll changed target: %+v", st)
	}
	if s.Active() != active {
		t.Fatalf("locked scroll scheduled work: %d active, want %d", s.Active(), active)
	}

	finish(c, s, 0.5)
	if !c.HandleScroll(1) {
		t.Fatal("scroll rejected after completion")
	}
}

func TestCoordinatedTweensShareProgress(t *testing.T) {
	c, s, _ := newTestController(t)
	cat := c.Catalog()
	from := c.Background()
	to := cat.At(1).Background

	c.HandleScroll(1)
	if l := c.Labels()[1]; l.Position[0] != DefaultIncomingOffset {
		t.Fatalf("incoming label starts at %v, want %v", l.Position[0], DefaultIncomingOffset)
	}

	s.Advance(3)
	s.Advance(3.5)

	st := c.State()
	if math.Abs(st.Progress-0.25) > 1e-9 {
		t.Fatalf("progress = %v, want 0.25", st.Progress)
	}
	labels := c.Labels()
	if got := labels[0].Position[0]; math.Abs(float64(got)+1.5) > 1e-5 {
		t.Errorf("outgoing label x = %v, want -1.5", got)
	}
	if got := labels[1].Position[0]; math.Abs(float64(got)-1.75) > 1e-5 {
		t.Errorf("incoming label x = %v, want 1.75", got)
	}
	if got, want := labels[0].Opacity, float32(0.5); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("outgoing opacity = %v, want %v", got, want)
	}
	if got, want := labels[1].Opacity, float32(0.5); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("incoming opacity = %v, want %v", got, want)
	}
	if labels[2].Opacity != 0 {
		t.Errorf("uninvolved label visible: %v", labels[2].Opacity)
	}
	want := common.BlendColor(from, to, 0.5)
	if got := c.Background(); math.Abs(got.R-want.R) > 1e-9 || math.Abs(got.B-want.B) > 1e-9 {
		t.Errorf("background = %v, want %v", got, want)
	}

	s.Advance(4)
	if c.State().Locked {
		t.Fatal("transition still locked at the end of its duration")
	}
	labels = c.Labels()
	if labels[0].Position[0] != -DefaultOutgoingOffset || labels[1].Position[0] != 0 {
		t.Errorf("final label x = %v, %v", labels[0].Position[0], labels[1].Position[0])
	}
	if labels[1].Opacity != 1 || labels[0].Opacity != 0 {
		t.Errorf("final opacity = %v, %v", labels[0].Opacity, labels[1].Opacity)
	}
	if c.Background() != to {
		t.Errorf("final background = %v, want %v", c.Background(), to)
	}
	if s.Active() != 0 {
		t.Errorf("%d tasks left after completion", s.Active())
	}
}

func TestParametersSwapOnlyAtCompletion(t *testing.T) {
	c, s, u := newTestController(t)
	before := u.Values()
	target := c.Catalog().At(1).Parameters

	c.HandleScroll(1)
	s.Advance(0)
	s.Advance(0.9)
	for name, v := range before {
		if name == uniform.Time {
			continue
		}
		if u.Value(name) != v {
			t.Fatalf("%s changed mid-transition: %v -> %v", name, v, u.Value(name))
		}
	}

	s.Advance(1)
	for name, v := range target {
		if u.Value(name) != v {
			t.Errorf("%s = %v after completion, want %v", name, u.Value(name), v)
		}
	}
}

func TestFallbackReleasesLock(t *testing.T) {
	c, s, u := newTestController(t)
	c.HandleScroll(-1)

	// Lose the crossfade so only the fallback can complete the transition.
	s.Advance(0)
	primary := c.(*controller).tweens[0]
	if primary.Task().Label() != "crossfade" || !primary.Cancel() {
		t.Fatal("crossfade task not found")
	}

	s.Advance(1.9)
	if !c.State().Locked {
		t.Fatal("lock released before the fallback deadline")
	}
	s.Advance(2)
	st := c.State()
	if st.Locked || st.CurrentIndex != 2 || st.Progress != 0 {
		t.Fatalf("state after fallback = %+v", st)
	}
	if got, want := u.Value(uniform.Metalness), c.Catalog().At(2).Parameters[uniform.Metalness]; got != want {
		t.Errorf("metalness = %v, want %v", got, want)
	}
	if c.Background() != c.Catalog().At(2).Background {
		t.Error("background not settled by fallback")
	}
	if s.Active() != 0 {
		t.Errorf("%d tasks left after fallback", s.Active())
	}
}

func TestCompletionCancelsFallback(t *testing.T) {
	var changes [][2]int
	c, s, _ := newTestController(t, WithOnPresetChange(func(from, to int) {
		changes = append(changes, [2]int{from, to})
	}))

	c.HandleScroll(1)
	now := finish(c, s, 0)
	if len(changes) != 1 || s.Active() != 0 {
		t.Fatalf("after first transition: changes = %v, active tasks = %d", changes, s.Active())
	}

	// The second transition is still running when the first one's 2D deadline passes.
	start := now + 0.5
	c.HandleScroll(-1)
	s.Advance(start)
	if got := s.Active(); got != 5 {
		t.Fatalf("active tasks = %d, want 5 (four tweens and one fallback)", got)
	}
	s.Advance(2.1)
	st := c.State()
	if !st.Locked || st.CurrentIndex != 1 || st.NextIndex != 0 {
		t.Fatalf("state after first deadline = %+v", st)
	}
	if len(changes) != 1 {
		t.Fatalf("stale fallback reported a preset change: %v", changes)
	}

	finish(c, s, 2.1)
	st = c.State()
	if st.Locked || st.CurrentIndex != 0 || c.Progress() != 0 {
		t.Fatalf("state after second transition = %+v", st)
	}
	s.Advance(start + 10)
	if len(changes) != 2 || changes[1] != [2]int{1, 0} {
		t.Fatalf("changes = %v, want [[0 1] [1 0]]", changes)
	}
	if s.Active() != 0 {
		t.Fatalf("%d tasks left after completion", s.Active())
	}
}

func TestRandomScrollSequences(t *testing.T) {
	for _, seed := range []uint64{1, 7, 42, 2024} {
		rng := rand.New(rand.NewPCG(seed, seed*31+1))
		c, s, u := newTestController(t)
		ctrl := c.(*controller)
		n := c.Catalog().Len()
		deltas := []float64{-3, -1, -0.2, 0, 0.5, 2}

		now, start, lastProgress := 0.0, 0.0, 0.0
		expected := 0
		for step := 0; step < 5000; step++ {
			before := c.State()
			delta := deltas[rng.IntN(len(deltas))]
			accepted := c.HandleScroll(delta)
			dir := common.Sign(delta)

			if wantAccept := !before.Locked && dir != 0; accepted != wantAccept {
				t.Fatalf("seed %d step %d: HandleScroll(%v) = %v while locked = %v", seed, step, delta, accepted, before.Locked)
			}
			if accepted {
				st := c.State()
				expected = (before.CurrentIndex + dir + n) % n
				if !st.Locked || st.NextIndex != expected || st.Direction != dir || st.CurrentIndex != before.CurrentIndex {
					t.Fatalf("seed %d step %d: state after scroll = %+v, want next %d", seed, step, st, expected)
				}
				lastProgress = 0
			} else if st := c.State(); st != before {
				t.Fatalf("seed %d step %d: rejected scroll changed state %+v -> %+v", seed, step, before, st)
			}

			now += rng.Float64() * 0.4
			s.Advance(now)
			if accepted {
				start = now
			}

			st := c.State()
			if active := s.Active(); active > 5 {
				t.Fatalf("seed %d step %d: %d tasks active, more than one transition", seed, step, active)
			}
			if st.Locked {
				if st.Progress < lastProgress || st.Progress > CrossfadeEnd {
					t.Fatalf("seed %d step %d: progress %v after %v", seed, step, st.Progress, lastProgress)
				}
				lastProgress = st.Progress
				if now > start+fallbackFactor*ctrl.duration.Seconds()+1e-9 {
					t.Fatalf("seed %d step %d: still locked %vs after start", seed, step, now-start)
				}
				// Occasionally lose the crossfade so the fallback has to finish the transition.
				if rng.IntN(20) == 0 {
					ctrl.tweens[0].Cancel()
				}
				continue
			}
			if st.Progress != 0 || st.NextIndex != st.CurrentIndex {
				t.Fatalf("seed %d step %d: idle state = %+v", seed, step, st)
			}
			if before.Locked || accepted {
				if st.CurrentIndex != expected {
					t.Fatalf("seed %d step %d: completed at %d, want %d", seed, step, st.CurrentIndex, expected)
				}
				want := c.Catalog().At(expected).Parameters[uniform.Metalness]
				if got := u.Value(uniform.Metalness); got != want {
					t.Fatalf("seed %d step %d: metalness = %v, want %v", seed, step, got, want)
				}
			}
		}
	}
}

func TestIntroFadesBackground(t *testing.T) {
	c, s, _ := newTestController(t, WithDuration(2*time.Second))
	if got := c.Background().Hex(); got != "#333333" {
		t.Fatalf("initial background = %s", got)
	}
	c.Intro()
	s.Advance(0)
	s.Advance(2)
	if c.Background() != c.Catalog().At(0).Background {
		t.Fatalf("background after intro = %s", c.Background().Hex())
	}
	if c.State().Locked {
		t.Fatal("intro must not lock scrolling")
	}
}

func TestScrollDuringIntroTakesOverBackground(t *testing.T) {
	c, s, _ := newTestController(t)
	c.Intro()
	s.Advance(0)
	s.Advance(0.5)
	c.HandleScroll(1)
	finish(c, s, 0.5)
	s.Advance(10)
	if c.Background() != c.Catalog().At(1).Background {
		t.Fatalf("background = %s, want %s", c.Background().Hex(), c.Catalog().At(1).Background.Hex())
	}
}

func TestSinglePresetCatalog(t *testing.T) {
	cat, err := preset.NewCatalog(preset.Preset{Name: "only", Background: common.MustParseColor("#101010")})
	if err != nil {
		t.Fatal(err)
	}
	s := tween.NewScheduler()
	c := NewController(cat, uniform.NewState(), s)
	if !c.HandleScroll(1) {
		t.Fatal("scroll rejected")
	}
	finish(c, s, 0)
	st := c.State()
	if st.Locked || st.CurrentIndex != 0 {
		t.Fatalf("state = %+v", st)
	}
	if l := c.Labels()[0]; l.Opacity != 1 || l.Position[0] != 0 {
		t.Fatalf("label = %+v", l)
	}
}

func TestSetLabelSize(t *testing.T) {
	c, _, _ := newTestController(t)
	c.SetLabelSize(0.32)
	for _, l := range c.Labels() {
		if l.Size != 0.32 {
			t.Fatalf("label %q size = %v", l.Text, l.Size)
		}
	}
}

func TestNewControllerPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{name: "nil catalog", fn: func() { NewController(nil, uniform.NewState(), tween.NewScheduler()) }},
		{name: "bad start", fn: func() {
			NewController(preset.Default(), uniform.NewState(), tween.NewScheduler(), WithStartIndex(3))
		}},
	}
	for _, tt := range tests {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", tt.name)
				}
			}()
			tt.fn()
		}()
	}
}
