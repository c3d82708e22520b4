package lifecycle

import (
	"sync"
	"sync/atomic"
)

// Handle is a registered resource. Its release function runs at most once.
type Handle struct {
	name     string
	release  func()
	once     sync.Once
	released atomic.Bool
}

// Name returns the resource name.
func (h *Handle) Name() string {
	return h.name
}

// Release frees the resource. Subsequent calls do nothing.
func (h *Handle) Release() {
	h.once.Do(func() {
		h.released.Store(true)
		if h.release != nil {
			h.release()
		}
	})
}

// Released reports whether Release has run.
func (h *Handle) Released() bool {
	return h.released.Load()
}
