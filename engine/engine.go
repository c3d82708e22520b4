package engine

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-blob/engine/clock"
	"github.com/Carmen-Shannon/oxy-blob/engine/label"
	"github.com/Carmen-Shannon/oxy-blob/engine/lifecycle"
	"github.com/Carmen-Shannon/oxy-blob/engine/profiler"
	"github.com/Carmen-Shannon/oxy-blob/engine/renderer"
	"github.com/Carmen-Shannon/oxy-blob/engine/scene"
	"github.com/Carmen-Shannon/oxy-blob/engine/tween"
	"github.com/Carmen-Shannon/oxy-blob/engine/uniform"
	"github.com/Carmen-Shannon/oxy-blob/engine/window"
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine has no window")

// engine implements the Engine interface.
// Every frame runs on the thread driving the window message loop.
type engine struct {
	window    window.Window
	renderer  renderer.Renderer
	scene     scene.Scene
	clock     clock.Clock
	scheduler tween.Scheduler
	lifecycle lifecycle.Lifecycle

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastRenderErr    string

	frameCallback func(f scene.Frame)

	disposed atomic.Bool
	quitOnce sync.Once
}

// Engine is the render loop. Each frame it reads the clock, publishes uTime, applies finished
// asset loads, advances the tween scheduler, snapshots the scene and hands the frame to the renderer.
type Engine interface {
	// Window returns the window the engine draws into, or nil.
	Window() window.Window

	// Scene returns the scene the engine snapshots each frame.
	Scene() scene.Scene

	// Lifecycle returns the resource lifecycle owning the engine's GPU and load resources.
	Lifecycle() lifecycle.Lifecycle

	// HandleScroll forwards a scroll delta to the transition controller.
	//
	// Parameters:
	//   - delta: signed scroll delta; only its sign is used
	//
	// Returns:
	//   - bool: true if a transition started
	HandleScroll(delta float64) bool

	// Resize updates the camera aspect, the renderer surface and the label size.
	// Sizes with a zero or negative dimension are ignored.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Frame runs one iteration of the render loop. It does nothing after Quit.
	Frame()

	// SetFrameCallback registers a function called with every frame after it is rendered.
	SetFrameCallback(callback func(f scene.Frame))

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run drives frames from the window message loop until the window closes, then calls Quit
	// and destroys the window.
	//
	// Returns:
	//   - error: ErrNoWindow, or an error from closing the window
	Run() error

	// Quit stops further frames, cancels running tweens and releases every resource held by the
	// lifecycle. Safe to call multiple times and from input callbacks.
	Quit()

	// Disposed reports whether Quit has been called.
	Disposed() bool
}

var _ Engine = &engine{}

// NewEngine creates an Engine. A scene and a scheduler are required; the clock, lifecycle and
// profiler default to fresh instances. When a renderer is supplied its Release is registered
// with the lifecycle. When a window is supplied its scroll and resize events are wired to the engine.
// Panics if the scene or scheduler is missing.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{}
	for _, opt := range options {
		opt(e)
	}

	if e.scene == nil || e.scheduler == nil {
		panic("engine: a scene and a scheduler are required")
	}
	if e.clock == nil {
		e.clock = clock.NewClock()
	}
	if e.lifecycle == nil {
		e.lifecycle = lifecycle.NewLifecycle()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}
	if e.renderer != nil {
		e.lifecycle.Acquire("renderer", e.renderer.Release)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.Resize)
		e.window.SetScrollCallback(func(delta float32) {
			e.HandleScroll(float64(delta))
		})
		e.Resize(e.window.Width(), e.window.Height())
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Lifecycle() lifecycle.Lifecycle {
	return e.lifecycle
}

func (e *engine) HandleScroll(delta float64) bool {
	if e.disposed.Load() {
		return false
	}
	return e.scene.Controller().HandleScroll(delta)
}

func (e *engine) Resize(width, height int) {
	if width <= 0 || height <= 0 || e.disposed.Load() {
		return
	}
	e.scene.Camera().Resize(width, height)
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	e.scene.Controller().SetLabelSize(label.FontSize(width))
}

func (e *engine) Frame() {
	if e.disposed.Load() {
		return
	}
	start := time.Now()

	now := e.clock.Elapsed()
	e.scene.Uniforms().Set(uniform.Time, now)
	e.lifecycle.Poll()
	e.scheduler.Advance(now)

	// A load or tween callback may have quit the engine.
	if e.disposed.Load() {
		return
	}

	f := e.scene.Snapshot(now)
	if e.renderer != nil {
		e.render(f)
	}

	if e.frameCallback != nil {
		e.frameCallback(f)
	}

	if e.profilingEnabled {
		st := e.scene.Controller().State()
		e.profiler.Tick(profiler.Stats{
			Preset:        e.scene.Controller().Catalog().At(st.CurrentIndex).Name,
			Transitioning: st.Locked,
			ActiveTweens:  e.scheduler.Active(),
			PendingLoads:  e.lifecycle.Pending(),
		})
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// render submits the frame. Failures are logged once per distinct error and never stop the loop.
func (e *engine) render(f scene.Frame) {
	err := e.renderer.Render(f)
	if err == nil {
		if e.lastRenderErr != "" {
			log.Printf("[Engine] rendering recovered")
			e.lastRenderErr = ""
		}
		return
	}
	if msg := err.Error(); msg != e.lastRenderErr {
		log.Printf("[Engine] render failed: %v", err)
		e.lastRenderErr = msg
	}
}

func (e *engine) SetFrameCallback(callback func(f scene.Frame)) {
	e.frameCallback = callback
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	e.window.SetUpdateCallback(e.Frame)
	e.window.ProcessMessages()
	e.Quit()
	return e.window.Close()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.disposed.Store(true)
		if e.window != nil {
			e.window.RequestClose()
		}
		e.scheduler.CancelAll()
		e.lifecycle.Release()
		log.Printf("[Engine] shut down")
	})
}

func (e *engine) Disposed() bool {
	return e.disposed.Load()
}
