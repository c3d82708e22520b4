package tween

import (
	"time"

	"github.com/Carmen-Shannon/oxy-blob/common"
)

// Task is a single time-bounded interpolation of a Property from its value at start to an end value.
// A Task with a nil Property is a pure deadline: it only fires OnComplete after its duration.
// Tasks are single-use; once completed or cancelled they cannot be rescheduled.
type Task struct {
	label      string
	property   Property
	duration   time.Duration
	ease       EaseFunc
	onComplete func()

	start     float64
	progress  float64
	started   bool
	scheduled bool
	done      bool
	cancelled bool
}

// New creates a Task animating the given property. The defaults are a one second linear tween.
//
// Parameters:
//   - p: the property to animate, or nil for a pure deadline
//   - options: functional options configuring duration, easing and completion
//
// Returns:
//   - *Task: the unscheduled task
func New(p Property, options ...TaskBuilderOption) *Task {
	t := &Task{
		property: p,
		duration: time.Second,
		ease:     Linear,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// After creates a pure deadline task that calls fn once d has elapsed.
func After(d time.Duration, fn func(), options ...TaskBuilderOption) *Task {
	return New(nil, append([]TaskBuilderOption{WithDuration(d), WithOnComplete(fn)}, options...)...)
}

// Label returns the task's debug label.
func (t *Task) Label() string {
	return t.label
}

// Duration returns the configured duration.
func (t *Task) Duration() time.Duration {
	return t.duration
}

// Progress returns the linear (un-eased) progress reached on the last advance, in [0, 1].
func (t *Task) Progress() float64 {
	return t.progress
}

// Done reports whether the task ran to completion.
func (t *Task) Done() bool {
	return t.done
}

// Cancelled reports whether the task was removed before completing.
func (t *Task) Cancelled() bool {
	return t.cancelled
}

// step advances the task to now and reports whether it completed on this call.
// The first step captures the start time and the property's start value.
func (t *Task) step(now float64) bool {
	if t.done {
		return true
	}
	if !t.started {
		t.started = true
		t.start = now
		if t.property != nil {
			t.property.Begin()
		}
	}

	p := 1.0
	if d := t.duration.Seconds(); d > 0 {
		p = common.Clamp((now-t.start)/d, 0, 1)
	}
	t.progress = p

	if t.property != nil {
		w := 1.0
		if p < 1 {
			w = t.ease(p)
		}
		t.property.Apply(w)
	}

	if p < 1 {
		return false
	}
	t.done = true
	if t.onComplete != nil {
		t.onComplete()
	}
	return true
}
