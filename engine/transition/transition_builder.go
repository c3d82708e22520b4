package transition

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(*controller)

// WithDuration sets the length of each transition. Values <= 0 keep DefaultDuration.
//
// Parameters:
//   - d: transition duration
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithDuration(d time.Duration) ControllerBuilderOption {
	return func(c *controller) {
		if d > 0 {
			c.duration = d
		}
	}
}

// WithLabelOffsets sets how far the outgoing label slides out and where the incoming label starts.
//
// Parameters:
//   - outgoing: distance the outgoing label travels away from center
//   - incoming: distance from center the incoming label starts at
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithLabelOffsets(outgoing, incoming float32) ControllerBuilderOption {
	return func(c *controller) {
		c.outgoingOffset = outgoing
		c.incomingOffset = incoming
	}
}

// WithStartIndex selects the preset shown first.
func WithStartIndex(i int) ControllerBuilderOption {
	return func(c *controller) {
		c.current = i
	}
}

// WithInitialBackground sets the background color shown before the intro fade.
func WithInitialBackground(col colorful.Color) ControllerBuilderOption {
	return func(c *controller) {
		c.background = col
	}
}

// WithOnPresetChange registers a callback invoked after each completed transition.
//
// Parameters:
//   - fn: receives the previous and new preset index
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithOnPresetChange(fn func(from, to int)) ControllerBuilderOption {
	return func(c *controller) {
		c.onChange = fn
	}
}
