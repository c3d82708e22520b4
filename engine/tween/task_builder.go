package tween

import "time"

// TaskBuilderOption is a functional option for configuring a Task.
type TaskBuilderOption func(*Task)

// WithDuration sets how long the task takes from start to end.
// Durations <= 0 complete on the first advance.
//
// Parameters:
//   - d: the task duration
//
// Returns:
//   - TaskBuilderOption: option function to apply
func WithDuration(d time.Duration) TaskBuilderOption {
	return func(t *Task) {
		t.duration = d
	}
}

// WithEase sets the easing curve. A nil curve keeps Linear.
//
// Parameters:
//   - ease: the easing function
//
// Returns:
//   - TaskBuilderOption: option function to apply
func WithEase(ease EaseFunc) TaskBuilderOption {
	return func(t *Task) {
		if ease != nil {
			t.ease = ease
		}
	}
}

// WithOnComplete registers a callback invoked exactly once when the task reaches its end.
// It is not invoked for cancelled tasks.
//
// Parameters:
//   - fn: the completion callback
//
// Returns:
//   - TaskBuilderOption: option function to apply
func WithOnComplete(fn func()) TaskBuilderOption {
	return func(t *Task) {
		t.onComplete = fn
	}
}

// WithLabel sets a debug label, shown in scheduler logs.
func WithLabel(label string) TaskBuilderOption {
	return func(t *Task) {
		t.label = label
	}
}
