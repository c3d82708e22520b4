package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-blob/engine/clock"
	"github.com/Carmen-Shannon/oxy-blob/engine/lifecycle"
	"github.com/Carmen-Shannon/oxy-blob/engine/profiler"
	"github.com/Carmen-Shannon/oxy-blob/engine/renderer"
	"github.com/Carmen-Shannon/oxy-blob/engine/scene"
	"github.com/Carmen-Shannon/oxy-blob/engine/tween"
	"github.com/Carmen-Shannon/oxy-blob/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithWindow sets the window the engine draws into and receives input from.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer frames are submitted to.
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithScene sets the scene snapshotted every frame.
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithClock sets the clock that drives uTime and the scheduler.
func WithClock(c clock.Clock) EngineBuilderOption {
	return func(e *engine) {
		e.clock = c
	}
}

// WithScheduler sets the tween scheduler advanced every frame. It must be the scheduler the
// scene's transition controller schedules into.
func WithScheduler(s tween.Scheduler) EngineBuilderOption {
	return func(e *engine) {
		e.scheduler = s
	}
}

// WithLifecycle sets the lifecycle polled for finished loads and released on Quit.
func WithLifecycle(l lifecycle.Lifecycle) EngineBuilderOption {
	return func(e *engine) {
		e.lifecycle = l
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
