package scene

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-blob/common"
	"github.com/Carmen-Shannon/oxy-blob/engine/camera"
	"github.com/Carmen-Shannon/oxy-blob/engine/model"
	"github.com/Carmen-Shannon/oxy-blob/engine/preset"
	"github.com/Carmen-Shannon/oxy-blob/engine/transition"
	"github.com/Carmen-Shannon/oxy-blob/engine/tween"
	"github.com/Carmen-Shannon/oxy-blob/engine/uniform"
)

func newTestScene(t *testing.T) (Scene, tween.Scheduler) {
	t.Helper()
	sched := tween.NewScheduler()
	u := uniform.NewState()
	ctrl := transition.NewController(preset.Default(), u, sched)
	return NewScene(camera.NewCamera(), ctrl, u, WithBlob(model.NewBlob(1, 1)), WithName("test")), sched
}

func TestSnapshotSettled(t *testing.T) {
	s, _ := newTestScene(t)
	s.Uniforms().Set(uniform.Time, 4.5)

	f := s.Snapshot(4.5)
	if f.Time != 4.5 || f.Uniforms[uniform.Time] != 4.5 {
		t.Errorf("time = %v, uTime = %v", f.Time, f.Uniforms[uniform.Time])
	}
	if f.Background != common.MustParseColor("#333333") {
		t.Errorf("background = %v", f.Background.Hex())
	}
	if f.ViewProj != s.Camera().ViewProjectionMatrix() || f.CameraPosition != s.Camera().Position() {
		t.Error("camera state not captured")
	}
	if len(f.Labels) != 3 {
		t.Fatalf("labels = %d", len(f.Labels))
	}
	visible := f.VisibleLabels()
	if len(visible) != 1 || visible[0].Index != 0 || visible[0].Text != "Color Fusion" {
		t.Fatalf("visible = %+v", visible)
	}
	if f.Preset != 0 || f.Progress != 0 {
		t.Errorf("preset = %d progress = %v", f.Preset, f.Progress)
	}
}

func TestSnapshotMidTransition(t *testing.T) {
	s, sched := newTestScene(t)
	if !s.Controller().HandleScroll(-1) {
		t.Fatal("scroll rejected")
	}
	sched.Advance(0)
	sched.Advance(0.5)

	f := s.Snapshot(0.5)
	if f.Preset != 0 {
		t.Errorf("gradient switched before completion: preset %d", f.Preset)
	}
	if f.Direction != -1 || math.Abs(f.Progress-0.25) > 1e-9 {
		t.Errorf("direction %d progress %v", f.Direction, f.Progress)
	}
	visible := f.VisibleLabels()
	if len(visible) != 2 {
		t.Fatalf("visible = %+v", visible)
	}
	for _, l := range visible {
		if math.Abs(float64(l.Opacity)-0.5) > 1e-6 {
			t.Errorf("label %d opacity %v", l.Index, l.Opacity)
		}
	}

	sched.Advance(1)
	if f := s.Snapshot(1); f.Preset != 2 {
		t.Errorf("preset after completion = %d, want 2", f.Preset)
	}
}

func TestSnapshotUniformsAreCopied(t *testing.T) {
	s, _ := newTestScene(t)
	f := s.Snapshot(0)
	f.Uniforms[uniform.Roughness] = 99
	if s.Uniforms().Value(uniform.Roughness) == 99 {
		t.Fatal("frame aliases uniform state")
	}
}

func TestNewScenePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil collaborators")
		}
	}()
	NewScene(nil, nil, nil)
}
