package registry

import (
	"context"
	"sync"
)

// Dispatcher runs notification callbacks on the goroutine that owns the UI.
// Dispatch must not block; fn may run later.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatchFunc adapts a function to Dispatcher.
type DispatchFunc func(fn func())

func (f DispatchFunc) Dispatch(fn func()) { f(fn) }

// Inline runs callbacks immediately on whichever goroutine produced them.
// Only suitable when subscribers synchronise themselves.
var Inline Dispatcher = DispatchFunc(func(fn func()) { fn() })

// Queue is a FIFO Dispatcher whose callbacks run on the goroutine that
// calls Run or Drain. Dispatch never blocks.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	ready   chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

func (q *Queue) Dispatch(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled whenever callbacks are waiting. A host event loop can
// select on it and then call Drain.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Drain runs every queued callback, including ones queued while draining,
// and returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()

		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn()
		}
		n += len(batch)
	}
}

// Run drains the queue until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	for {
		q.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.ready:
		}
	}
}
