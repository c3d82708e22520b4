package lifecycle

import "context"

// LifecycleBuilderOption is a functional option for configuring a Lifecycle.
type LifecycleBuilderOption func(*lifecycle)

// WithWorkers sets the number of loader goroutines.
//
// Parameters:
//   - n: worker count; values <= 0 are ignored
//
// Returns:
//   - LifecycleBuilderOption: option function to apply
func WithWorkers(n int) LifecycleBuilderOption {
	return func(l *lifecycle) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithQueueSize sets how many loads may wait for a free worker before Load blocks.
func WithQueueSize(n int) LifecycleBuilderOption {
	return func(l *lifecycle) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

// WithParentContext derives the lifetime context from ctx, so cancelling ctx also cancels running loads.
func WithParentContext(ctx context.Context) LifecycleBuilderOption {
	return func(l *lifecycle) {
		if ctx != nil {
			l.ctx = ctx
		}
	}
}
