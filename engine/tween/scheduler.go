package tween

import (
	"sync"
)

// scheduler is the implementation of the Scheduler interface.
type scheduler struct {
	mu *sync.Mutex

	active    []*Task
	inFlight  []*Task
	advancing bool
}

// Scheduler owns the set of in-flight tween tasks and advances them from the frame loop.
//
// Callbacks run inside Advance on the caller's goroutine and may freely schedule or cancel tasks:
// a task cancelled mid-advance is never processed afterwards, and a task scheduled mid-advance
// starts on the following advance. No task is skipped or processed twice in one advance.
type Scheduler interface {
	// Schedule registers a task. It begins interpolating on the next call to Advance,
	// which also captures the property's start value.
	// Scheduling a nil, already scheduled, or finished task is a no-op that returns a handle to it.
	//
	// Parameters:
	//   - t: the task to run
	//
	// Returns:
	//   - Handle: a handle that can cancel the task
	Schedule(t *Task) Handle

	// Advance moves every active task to the given clock time in seconds, writing interpolated
	// values into their properties, and fires completion callbacks for tasks that reached the end.
	//
	// Parameters:
	//   - now: the current clock reading in seconds
	Advance(now float64)

	// Cancel removes a task without invoking its completion callback.
	//
	// Parameters:
	//   - h: the handle returned by Schedule
	//
	// Returns:
	//   - bool: true if the task was active and is now cancelled
	Cancel(h Handle) bool

	// CancelAll cancels every active task.
	CancelAll()

	// Active returns the number of tasks that are scheduled and not yet finished.
	//
	// Returns:
	//   - int: the live task count
	Active() int
}

// Handle refers to a scheduled task. The zero Handle refers to nothing and is safe to use.
type Handle struct {
	s *scheduler
	t *Task
}

// Cancel removes the task without invoking its completion callback.
//
// Returns:
//   - bool: true if the task was active and is now cancelled
func (h Handle) Cancel() bool {
	if h.s == nil {
		return false
	}
	return h.s.Cancel(h)
}

// Active reports whether the task is still scheduled.
func (h Handle) Active() bool {
	return h.t != nil && h.t.scheduled && !h.t.done && !h.t.cancelled
}

// Task returns the referenced task, or nil for the zero Handle.
func (h Handle) Task() *Task {
	return h.t
}

var _ Scheduler = &scheduler{}

// NewScheduler creates an empty Scheduler.
//
// Returns:
//   - Scheduler: the scheduler
func NewScheduler() Scheduler {
	return &scheduler{
		mu: &sync.Mutex{},
	}
}

func (s *scheduler) Schedule(t *Task) Handle {
	if t == nil {
		return Handle{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	h := Handle{s: s, t: t}
	if t.scheduled || t.done || t.cancelled {
		return h
	}
	t.scheduled = true
	s.active = append(s.active, t)
	return h
}

func (s *scheduler) Advance(now float64) {
	s.mu.Lock()
	if s.advancing {
		// Advance called from a completion callback; the outer pass owns the task list.
		s.mu.Unlock()
		return
	}
	s.advancing = true
	pass := s.active
	s.active = nil
	s.inFlight = pass
	s.mu.Unlock()

	survivors := make([]*Task, 0, len(pass))
	for _, t := range pass {
		if t.cancelled {
			continue
		}
		if t.step(now) {
			continue
		}
		survivors = append(survivors, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := survivors[:0]
	for _, t := range survivors {
		// Cancelled by a callback that ran later in this pass.
		if !t.cancelled {
			kept = append(kept, t)
		}
	}
	s.active = append(kept, s.active...)
	s.inFlight = nil
	s.advancing = false
}

func (s *scheduler) Cancel(h Handle) bool {
	if h.t == nil || h.s != s {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := h.t
	if !t.scheduled || t.done || t.cancelled {
		return false
	}
	t.cancelled = true
	s.remove(t)
	return true
}

func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.inFlight {
		if !t.done {
			t.cancelled = true
		}
	}
	for _, t := range s.active {
		t.cancelled = true
	}
	s.active = nil
}

func (s *scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, list := range [][]*Task{s.inFlight, s.active} {
		for _, t := range list {
			if !t.cancelled && !t.done {
				n++
			}
		}
	}
	return n
}

// remove drops t from the pending list. Tasks in the pass currently being advanced
// are filtered by their cancelled flag instead. Caller must hold s.mu.
func (s *scheduler) remove(t *Task) {
	for i, a := range s.active {
		if a == t {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return
		}
	}
}
