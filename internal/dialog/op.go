package dialog

import (
	"context"
	"time"
)

// Op is a pending dialog action. It completes after the configured latency,
// or aborts early when its context is cancelled.
type Op struct {
	done chan struct{}
	err  error
}

// start runs commit after delay unless ctx ends first, in which case abort runs
// instead. A non-positive delay commits before start returns.
func start(ctx context.Context, delay time.Duration, commit, abort func()) *Op {
	op := &Op{done: make(chan struct{})}
	if delay <= 0 {
		op.finish(ctx, commit, abort)
		return op
	}
	go func() {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
		op.finish(ctx, commit, abort)
	}()
	return op
}

func (o *Op) finish(ctx context.Context, commit, abort func()) {
	defer close(o.done)
	if err := ctx.Err(); err != nil {
		o.err = err
		abort()
		return
	}
	commit()
}

// Done is closed once the op has committed or aborted.
func (o *Op) Done() <-chan struct{} { return o.done }

// Err is nil if the op committed, or the context error if it aborted.
// It is only meaningful after Done is closed.
func (o *Op) Err() error {
	select {
	case <-o.done:
		return o.err
	default:
		return nil
	}
}

// Wait blocks until the op finishes or ctx ends.
func (o *Op) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
