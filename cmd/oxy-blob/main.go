package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-blob/common"
	"github.com/Carmen-Shannon/oxy-blob/engine"
	"github.com/Carmen-Shannon/oxy-blob/engine/camera"
	"github.com/Carmen-Shannon/oxy-blob/engine/lifecycle"
	"github.com/Carmen-Shannon/oxy-blob/engine/loader"
	"github.com/Carmen-Shannon/oxy-blob/engine/preset"
	"github.com/Carmen-Shannon/oxy-blob/engine/renderer"
	"github.com/Carmen-Shannon/oxy-blob/engine/scene"
	"github.com/Carmen-Shannon/oxy-blob/engine/transition"
	"github.com/Carmen-Shannon/oxy-blob/engine/tween"
	"github.com/Carmen-Shannon/oxy-blob/engine/uniform"
	"github.com/Carmen-Shannon/oxy-blob/engine/window"
)

const defaultHDRI = "https://dl.polyhaven.org/file/ph-assets/HDRIs/hdr/1k/studio_small_08_1k.hdr"

type config struct {
	width, height       int
	minWidth, minHeight int
	maxWidth, maxHeight int
	title               string
	catalog             string
	duration            time.Duration
	textures            string
	hdri                string
	exposure            float64
	fov                 float64
	distance            float64
	vsync               bool
	msaa                int
	fpsLimit            float64
	profile             bool
	software            bool
}

func parseFlags() config {
	var c config
	flag.IntVar(&c.width, "width", 1280, "window width in pixels")
	flag.IntVar(&c.height, "height", 720, "window height in pixels")
	flag.IntVar(&c.minWidth, "min-width", 320, "smallest window width in pixels")
	flag.IntVar(&c.minHeight, "min-height", 240, "smallest window height in pixels")
	flag.IntVar(&c.maxWidth, "max-width", 3840, "largest window width in pixels")
	flag.IntVar(&c.maxHeight, "max-height", 2160, "largest window height in pixels")
	flag.StringVar(&c.title, "title", "oxy-blob", "window title")
	flag.StringVar(&c.catalog, "catalog", "", "preset catalog JSON file (built-in presets when empty)")
	flag.DurationVar(&c.duration, "duration", transition.DefaultDuration, "transition duration")
	flag.StringVar(&c.textures, "textures", "gradient", "gradient texture directory or URL prefix")
	flag.StringVar(&c.hdri, "hdri", defaultHDRI, "environment map path or URL")
	flag.Float64Var(&c.exposure, "exposure", 1, "exposure applied to the environment map before tone mapping")
	flag.Float64Var(&c.fov, "fov", 75, "vertical field of view in degrees")
	flag.Float64Var(&c.distance, "distance", 3, "camera distance from the blob center")
	flag.BoolVar(&c.vsync, "vsync", true, "wait for vertical blank when presenting")
	flag.IntVar(&c.msaa, "msaa", 4, "MSAA sample count (1, 4, 8 or 16)")
	flag.Float64Var(&c.fpsLimit, "fps-limit", 0, "frame rate cap, 0 for uncapped")
	flag.BoolVar(&c.profile, "profile", false, "log frame statistics")
	flag.BoolVar(&c.software, "software", false, "force a software adapter")
	flag.Parse()
	return c
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		log.Printf("[Main] %v", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	if cfg.distance <= 0 {
		return fmt.Errorf("camera distance must be positive, got %v", cfg.distance)
	}

	catalog := preset.Default()
	if cfg.catalog != "" {
		c, err := preset.LoadFile(cfg.catalog)
		if err != nil {
			return err
		}
		catalog = c
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.title),
		window.WithWidth(cfg.width),
		window.WithHeight(cfg.height),
		window.WithSizeLimits(cfg.minWidth, cfg.minHeight, cfg.maxWidth, cfg.maxHeight),
	)

	presentMode := renderer.PresentModeUncapped
	if cfg.vsync {
		presentMode = renderer.PresentModeVSync
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.msaa)),
		renderer.WithForceSoftwareRenderer(cfg.software),
	)
	if err != nil {
		_ = win.Close()
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	// ── Scene ───────────────────────────────────────────────────────────
	uniforms := uniform.NewState()
	scheduler := tween.NewScheduler()
	ctrl := transition.NewController(catalog, uniforms, scheduler,
		transition.WithDuration(cfg.duration),
		transition.WithOnPresetChange(func(_, to int) {
			win.SetTitle(cfg.title + " - " + catalog.At(to).Name)
		}),
	)
	cam := camera.NewCamera(
		camera.WithPosition([3]float32{0, 0, float32(cfg.distance)}),
		camera.WithFov(float32(cfg.fov*math.Pi/180)),
		camera.WithAspect(float32(win.Width())/float32(max(win.Height(), 1))),
	)
	sc := scene.NewScene(cam, ctrl, uniforms, scene.WithName(cfg.title))
	win.SetTitle(cfg.title + " - " + catalog.At(0).Name)

	lc := lifecycle.NewLifecycle()
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithScene(sc),
		engine.WithScheduler(scheduler),
		engine.WithLifecycle(lc),
		engine.WithProfiling(cfg.profile),
		engine.WithRenderFrameLimit(cfg.fpsLimit),
	)

	if err := r.InitMesh(sc.Blob()); err != nil {
		eng.Quit()
		_ = win.Close()
		return err
	}
	if err := r.InitLabels(catalog.Names()); err != nil {
		eng.Quit()
		_ = win.Close()
		return err
	}

	// ── Assets ──────────────────────────────────────────────────────────
	startIntro := loadAssets(lc, r, catalog, cfg)
	eng.SetFrameCallback(func(scene.Frame) {
		startIntro(ctrl)
	})

	setupInput(eng, uniforms, catalog, cfg.profile)

	fmt.Println("╔══════════════════════════════════════════════════════╗")
	fmt.Println("║  oxy-blob                                            ║")
	fmt.Println("╠══════════════════════════════════════════════════════╣")
	fmt.Println("║  Scroll / Left / Right = switch preset               ║")
	fmt.Println("║  Tab = select wave parameter   Up / Down = adjust    ║")
	fmt.Println("║  R = reset parameters   Space = profiler   Esc = quit║")
	fmt.Println("╚══════════════════════════════════════════════════════╝")

	log.Printf("[Main] starting with %d presets", catalog.Len())
	return eng.Run()
}

// loadAssets queues the gradient and environment loads. The returned function starts the intro
// fade on the first frame after every load has settled, successfully or not.
//
// Parameters:
//   - lc: the lifecycle owning the loads
//   - r: the renderer receiving the textures
//   - catalog: the presets whose gradients are loaded
//   - cfg: asset locations
//
// Returns:
//   - func(transition.Controller): call once per frame
func loadAssets(lc lifecycle.Lifecycle, r renderer.Renderer, catalog preset.Catalog, cfg config) func(transition.Controller) {
	ld := loader.NewLoader(
		loader.WithTextureDir(cfg.textures),
		loader.WithExposure(cfg.exposure),
	)

	var waits []<-chan struct{}
	for i := range catalog.Len() {
		p := catalog.At(i)
		if p.Texture == "" {
			continue
		}
		f := lifecycle.Load(lc, "gradient "+p.Texture,
			func(ctx context.Context) (common.TextureStagingData, error) {
				return ld.LoadGradient(ctx, p.Texture)
			},
			func(tex common.TextureStagingData) {
				if err := r.SetGradient(i, tex); err != nil {
					log.Printf("[Main] gradient %s: %v", p.Texture, err)
				}
			},
			nil,
		)
		waits = append(waits, f.Done())
	}

	env := lifecycle.Load(lc, "environment",
		func(ctx context.Context) (common.TextureStagingData, error) {
			return ld.LoadTexture(ctx, cfg.hdri)
		},
		func(tex common.TextureStagingData) {
			if err := r.SetEnvironment(tex); err != nil {
				log.Printf("[Main] environment: %v", err)
			}
		},
		nil,
	)
	waits = append(waits, env.Done())

	started := false
	return func(ctrl transition.Controller) {
		if started {
			return
		}
		for _, done := range waits {
			select {
			case <-done:
			default:
				return
			}
		}
		started = true
		ctrl.Intro()
	}
}

// setupInput binds the keyboard: arrows switch presets and step the selected wave parameter.
//
// Parameters:
//   - eng: the engine providing the window and scroll handling
//   - uniforms: the uniform state whose tunables are adjusted
//   - catalog: the presets used to reset parameters
//   - profiling: whether the profiler starts enabled
func setupInput(eng engine.Engine, uniforms uniform.State, catalog preset.Catalog, profiling bool) {
	tunables := uniforms.Tunables()
	selected := 0

	eng.Window().SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyEsc:
			eng.Quit()
		case common.KeyLeft:
			eng.HandleScroll(-1)
		case common.KeyRight:
			eng.HandleScroll(1)
		case common.KeyTab:
			selected = (selected + 1) % len(tunables)
			t := tunables[selected]
			log.Printf("[Main] selected %s = %.2f", t.Label(), t.Get())
		case common.KeyUp, common.KeyDown:
			t := tunables[selected]
			step := t.Step()
			if keyCode == common.KeyDown {
				step = -step
			}
			t.Set(t.Get() + step)
			log.Printf("[Main] %s = %.2f", t.Label(), t.Get())
		case common.KeyR:
			st := eng.Scene().Controller().State()
			if st.Locked {
				return
			}
			catalog.At(st.CurrentIndex).ApplyTo(uniforms)
			log.Printf("[Main] reset parameters to %s", catalog.At(st.CurrentIndex).Name)
		case common.KeySpace:
			profiling = !profiling
			if profiling {
				eng.EnableProfiler()
			} else {
				eng.DisableProfiler()
			}
		}
	})
}
