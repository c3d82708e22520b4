package lifecycle

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// ErrDisposed is reported by loads that were still running, or never started, when the Lifecycle was released.
var ErrDisposed = errors.New("lifecycle: disposed")

// job is a load whose result is either delivered on the frame thread or dropped after disposal.
type job struct {
	deliver func()
	drop    func()
	abort   func()
}

// lifecycle is the implementation of the Lifecycle interface.
type lifecycle struct {
	mu *sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc

	pool      worker.DynamicWorkerPool
	workers   int
	queueSize int

	handles     []*Handle
	outstanding map[int]*job
	ready       []*job
	nextID      int
	disposed    bool

	releaseOnce sync.Once
}

// Lifecycle owns every long-lived resource of the application and the asynchronous loads that produce them.
//
// Resources are registered with Acquire and released exactly once, in reverse order of acquisition, when the
// Lifecycle is released. Loads started with Load run on a worker pool; their results are queued and applied
// on the frame thread by Poll. A result that arrives after Release is discarded instead of applied.
type Lifecycle interface {
	// Acquire registers a resource and its release function.
	// Acquiring after Release releases the resource immediately.
	//
	// Parameters:
	//   - name: resource name used in log output
	//   - release: function that frees the resource; may be nil
	//
	// Returns:
	//   - *Handle: the registered handle
	Acquire(name string, release func()) *Handle

	// Context returns a context that is cancelled when the Lifecycle is released.
	Context() context.Context

	// Poll applies every load result that completed since the last call.
	// It must be called from the frame thread.
	//
	// Returns:
	//   - int: number of results applied
	Poll() int

	// Pending returns the number of loads that have not yet been applied.
	Pending() int

	// Disposed reports whether Release has been called.
	Disposed() bool

	// Release cancels outstanding loads, stops the worker pool and releases every handle in reverse order.
	// Subsequent calls do nothing.
	Release()

	// submit queues a load on the worker pool. It returns false if the Lifecycle is already disposed.
	submit(name string, run func(ctx context.Context) (deliver, drop func()), abort func()) bool
}

var _ Lifecycle = &lifecycle{}

// NewLifecycle creates a Lifecycle with its own worker pool.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Lifecycle: the lifecycle
func NewLifecycle(options ...LifecycleBuilderOption) Lifecycle {
	l := &lifecycle{
		mu:          &sync.Mutex{},
		workers:     2,
		queueSize:   64,
		outstanding: make(map[int]*job),
	}
	for _, opt := range options {
		opt(l)
	}
	if l.ctx == nil {
		l.ctx = context.Background()
	}
	l.ctx, l.cancel = context.WithCancel(l.ctx)
	l.pool = worker.NewDynamicWorkerPool(l.workers, l.queueSize, 1*time.Second)
	return l
}

func (l *lifecycle) Acquire(name string, release func()) *Handle {
	h := &Handle{name: name, release: release}

	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		log.Printf("[Lifecycle] %s acquired after release, freeing immediately", name)
		h.Release()
		return h
	}
	l.handles = append(l.handles, h)
	l.mu.Unlock()
	return h
}

func (l *lifecycle) Context() context.Context {
	return l.ctx
}

func (l *lifecycle) Poll() int {
	l.mu.Lock()
	if l.disposed || len(l.ready) == 0 {
		l.mu.Unlock()
		return 0
	}
	ready := l.ready
	l.ready = nil
	l.mu.Unlock()

	for _, j := range ready {
		j.deliver()
	}
	return len(ready)
}

func (l *lifecycle) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.outstanding) + len(l.ready)
}

func (l *lifecycle) Disposed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.disposed
}

func (l *lifecycle) Release() {
	l.releaseOnce.Do(func() {
		l.mu.Lock()
		l.disposed = true
		ready := l.ready
		l.ready = nil
		aborted := make([]*job, 0, len(l.outstanding))
		for _, j := range l.outstanding {
			aborted = append(aborted, j)
		}
		handles := l.handles
		l.handles = nil
		l.mu.Unlock()

		l.cancel()
		l.pool.Stop()

		for _, j := range ready {
			j.drop()
		}
		for _, j := range aborted {
			j.abort()
		}
		for i := len(handles) - 1; i >= 0; i-- {
			handles[i].Release()
		}
		log.Printf("[Lifecycle] released %d resources, dropped %d pending loads", len(handles), len(ready)+len(aborted))
	})
}

func (l *lifecycle) submit(name string, run func(ctx context.Context) (deliver, drop func()), abort func()) bool {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return false
	}
	id := l.nextID
	l.nextID++
	j := &job{abort: abort}
	l.outstanding[id] = j
	l.mu.Unlock()

	l.pool.SubmitTask(worker.Task{
		ID:      id,
		Payload: name,
		Do: func() (any, error) {
			deliver, drop := run(l.ctx)
			l.finish(id, deliver, drop)
			return nil, nil
		},
	})
	return true
}

// finish moves a completed load to the ready queue, or drops it if the Lifecycle was released meanwhile.
func (l *lifecycle) finish(id int, deliver, drop func()) {
	l.mu.Lock()
	j, ok := l.outstanding[id]
	delete(l.outstanding, id)
	if l.disposed || !ok {
		l.mu.Unlock()
		drop()
		return
	}
	j.deliver, j.drop = deliver, drop
	l.ready = append(l.ready, j)
	l.mu.Unlock()
}
