package clock

import (
	"sync"
	"time"
)

// clock is the implementation of the Clock interface.
type clock struct {
	mu    *sync.Mutex
	now   func() time.Time
	start time.Time
}

// Clock reports monotonic seconds elapsed since it was created or last restarted.
// The render loop reads it once per frame and feeds the value to the uTime uniform and the tween scheduler.
type Clock interface {
	// Elapsed returns the number of seconds since the clock started.
	//
	// Returns:
	//   - float64: elapsed seconds, never negative
	Elapsed() float64

	// Restart resets the start point to now.
	Restart()
}

var _ Clock = &clock{}

// NewClock creates a Clock started at the current instant.
//
// Parameters:
//   - options: functional options to configure the clock
//
// Returns:
//   - Clock: the running clock
func NewClock(options ...ClockBuilderOption) Clock {
	c := &clock{
		mu:  &sync.Mutex{},
		now: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	c.start = c.now()
	return c
}

func (c *clock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.now().Sub(c.start)
	if d < 0 {
		return 0
	}
	return d.Seconds()
}

func (c *clock) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = c.now()
}
