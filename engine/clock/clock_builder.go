package clock

import "time"

// ClockBuilderOption is a functional option for configuring a Clock.
type ClockBuilderOption func(*clock)

// WithNow replaces the time source. Tests use it to step time deterministically.
//
// Parameters:
//   - now: function returning the current instant
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithNow(now func() time.Time) ClockBuilderOption {
	return func(c *clock) {
		if now != nil {
			c.now = now
		}
	}
}
