package transition

import (
	"fmt"
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-blob/common"
	"github.com/Carmen-Shannon/oxy-blob/engine/label"
	"github.com/Carmen-Shannon/oxy-blob/engine/preset"
	"github.com/Carmen-Shannon/oxy-blob/engine/tween"
	"github.com/Carmen-Shannon/oxy-blob/engine/uniform"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// CrossfadeEnd is the crossfade progress value at which a transition completes.
	CrossfadeEnd = 0.5
	// DefaultDuration is the length of one preset transition.
	DefaultDuration = time.Second
	// DefaultOutgoingOffset is how far the outgoing label slides away from center.
	DefaultOutgoingOffset = 3
	// DefaultIncomingOffset is where the incoming label starts before sliding to center.
	DefaultIncomingOffset = 3.5
	// fallbackFactor scales the duration into the safety deadline that releases a lost transition.
	fallbackFactor = 2
)

// State is a snapshot of the transition state machine.
type State struct {
	// CurrentIndex is the preset on screen, or being faded out while Locked.
	CurrentIndex int
	// NextIndex is the preset being faded in. Equal to CurrentIndex when idle.
	NextIndex int
	// Direction is the sign of the scroll that started the last transition (-1 or +1).
	Direction int
	// Progress is the crossfade progress in [0, CrossfadeEnd].
	Progress float64
	// Locked is true while a transition is in flight.
	Locked bool
}

// controller is the implementation of the Controller interface.
// It is confined to the frame thread: scroll handling, tween callbacks and queries all run there.
type controller struct {
	catalog   preset.Catalog
	uniforms  uniform.State
	scheduler tween.Scheduler

	labels     []*label.Label
	background colorful.Color

	current, next int
	direction     int
	progress      float64
	locked        bool
	generation    uint64

	duration       time.Duration
	outgoingOffset float32
	incomingOffset float32

	// handles of the in-flight transition: the coordinated tweens and the fallback deadline.
	tweens   []tween.Handle
	fallback tween.Handle
	intro    tween.Handle
	settle   func()

	onChange func(from, to int)
}

// Controller is the scroll-driven preset state machine.
//
// It is Idle until a scroll with a nonzero delta arrives, then Transitioning: it schedules a crossfade,
// two label slides and a background fade sharing one duration, and ignores further scrolls until the
// crossfade completes. A safety deadline of twice the duration completes the transition through the
// same path if the crossfade never reports completion.
type Controller interface {
	// HandleScroll starts a transition in the direction of delta's sign.
	// A zero delta, or any scroll while a transition is in flight, is ignored.
	//
	// Parameters:
	//   - delta: signed scroll delta; only its sign is used
	//
	// Returns:
	//   - bool: true if a transition started
	HandleScroll(delta float64) bool

	// Intro fades the background from its initial color to the current preset's color.
	// It is typically called once when startup assets finish loading.
	Intro()

	// State returns a snapshot of the state machine.
	State() State

	// Progress returns the crossfade progress in [0, CrossfadeEnd].
	Progress() float64

	// Background returns the current scene background color.
	Background() colorful.Color

	// Labels returns copies of all preset labels with opacity derived from the crossfade.
	//
	// Returns:
	//   - []label.Label: one label per preset, in catalog order
	Labels() []label.Label

	// SetLabelSize sets the world-space glyph height of every label.
	//
	// Parameters:
	//   - size: glyph height in world units
	SetLabelSize(size float32)

	// Catalog returns the preset catalog the controller cycles through.
	Catalog() preset.Catalog

	// OnPresetChange replaces the callback invoked after each completed transition.
	//
	// Parameters:
	//   - fn: receives the previous and new preset index; nil removes the callback
	OnPresetChange(fn func(from, to int))
}

var _ Controller = &controller{}

// NewController creates an idle Controller showing the first preset.
// Panics if any collaborator is nil.
//
// Parameters:
//   - catalog: presets to cycle through
//   - uniforms: the uniform state receiving preset parameters
//   - scheduler: the scheduler that runs transition tweens
//   - options: functional options
//
// Returns:
//   - Controller: the controller
func NewController(catalog preset.Catalog, uniforms uniform.State, scheduler tween.Scheduler, options ...ControllerBuilderOption) Controller {
	if catalog == nil || uniforms == nil || scheduler == nil {
		panic("transition: catalog, uniform state and scheduler are required")
	}
	c := &controller{
		catalog:        catalog,
		uniforms:       uniforms,
		scheduler:      scheduler,
		background:     common.MustParseColor("#333333"),
		direction:      1,
		duration:       DefaultDuration,
		outgoingOffset: DefaultOutgoingOffset,
		incomingOffset: DefaultIncomingOffset,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.current < 0 || c.current >= catalog.Len() {
		panic(fmt.Sprintf("transition: start index %d out of range [0, %d)", c.current, catalog.Len()))
	}
	c.next = c.current

	c.labels = make([]*label.Label, catalog.Len())
	for i, name := range catalog.Names() {
		c.labels[i] = label.New(name)
	}
	return c
}

func (c *controller) HandleScroll(delta float64) bool {
	dir := common.Sign(delta)
	if dir == 0 || c.locked {
		return false
	}

	n := c.catalog.Len()
	next := (c.current + dir + n) % n

	c.locked = true
	c.direction = dir
	c.next = next
	c.generation++
	gen := c.generation

	// A scroll during the intro fade takes over the background.
	c.intro.Cancel()

	target := c.catalog.At(next).Background
	opts := []tween.TaskBuilderOption{tween.WithDuration(c.duration), tween.WithEase(tween.Linear)}

	primary := tween.New(tween.Float64(&c.progress, CrossfadeEnd), append(opts,
		tween.WithLabel("crossfade"),
		tween.WithOnComplete(func() { c.complete(gen) }),
	)...)
	tasks := []*tween.Task{
		primary,
		tween.New(tween.Color(&c.background, target), append(opts, tween.WithLabel("background"))...),
	}

	outgoing, incoming := c.labels[c.current], c.labels[next]
	outEnd := -float32(dir) * c.outgoingOffset
	if next != c.current {
		incoming.Position[0] = float32(dir) * c.incomingOffset
		tasks = append(tasks,
			tween.New(tween.Float32(&outgoing.Position[0], outEnd), append(opts, tween.WithLabel("outgoing label"))...),
			tween.New(tween.Float32(&incoming.Position[0], 0), append(opts, tween.WithLabel("incoming label"))...),
		)
	}
	c.settle = func() {
		c.background = target
		if next != c.current {
			outgoing.Position[0] = outEnd
			incoming.Position[0] = 0
		}
	}

	c.tweens = c.tweens[:0]
	for _, t := range tasks {
		c.tweens = append(c.tweens, c.scheduler.Schedule(t))
	}
	c.fallback = c.scheduler.Schedule(tween.After(c.duration*fallbackFactor, func() {
		if c.locked && c.generation == gen {
			log.Printf("[Transition] crossfade to %q did not report completion, releasing lock", c.catalog.At(next).Name)
		}
		c.complete(gen)
	}, tween.WithLabel("transition fallback")))
	return true
}

// complete ends the transition identified by gen. Both the crossfade and the fallback deadline
// call it; only the first call for a generation has any effect.
func (c *controller) complete(gen uint64) {
	if !c.locked || gen != c.generation {
		return
	}
	c.fallback.Cancel()
	for _, h := range c.tweens {
		h.Cancel()
	}
	c.tweens = c.tweens[:0]
	if c.settle != nil {
		c.settle()
		c.settle = nil
	}

	from := c.current
	c.current = c.next
	c.progress = 0
	c.catalog.At(c.current).ApplyTo(c.uniforms)
	c.locked = false

	if c.onChange != nil {
		c.onChange(from, c.current)
	}
}

func (c *controller) Intro() {
	if c.locked {
		return
	}
	c.intro.Cancel()
	c.intro = c.scheduler.Schedule(tween.New(
		tween.Color(&c.background, c.catalog.At(c.current).Background),
		tween.WithDuration(c.duration),
		tween.WithEase(tween.Linear),
		tween.WithLabel("intro background"),
	))
}

func (c *controller) State() State {
	return State{
		CurrentIndex: c.current,
		NextIndex:    c.next,
		Direction:    c.direction,
		Progress:     c.progress,
		Locked:       c.locked,
	}
}

func (c *controller) Progress() float64 {
	return c.progress
}

func (c *controller) Background() colorful.Color {
	return c.background
}

func (c *controller) Labels() []label.Label {
	out := make([]label.Label, len(c.labels))
	fade := float32(c.progress / CrossfadeEnd)
	for i, l := range c.labels {
		out[i] = *l
		switch {
		case !c.locked && i == c.current:
			out[i].Opacity = 1
		case c.locked && i == c.next && i == c.current:
			out[i].Opacity = 1
		case c.locked && i == c.current:
			out[i].Opacity = 1 - fade
		case c.locked && i == c.next:
			out[i].Opacity = fade
		default:
			out[i].Opacity = 0
		}
	}
	return out
}

func (c *controller) SetLabelSize(size float32) {
	for _, l := range c.labels {
		l.Size = size
	}
}

func (c *controller) Catalog() preset.Catalog {
	return c.catalog
}

func (c *controller) OnPresetChange(fn func(from, to int)) {
	c.onChange = fn
}
