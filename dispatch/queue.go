// Package dispatch serializes work onto one goroutine, the presentation
// context. Background completions submit closures with Async; Run executes
// them one at a time in submission order.
package dispatch

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Run after Close
var ErrClosed = errors.New("dispatch: queue closed")

// Dispatcher accepts tasks for the presentation context
type Dispatcher interface {
	// Async schedules task and reports whether it was accepted
	Async(task func()) bool
}

// Queue is a FIFO of tasks drained by a single Run loop
type Queue struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// NewQueue creates a queue; buffer bounds how many tasks may wait before
// Async blocks
func NewQueue(buffer int) *Queue {
	if buffer < 0 {
		buffer = 0
	}
	return &Queue{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Async enqueues task. It returns false once the queue is closed.
func (q *Queue) Async(task func()) bool {
	if task == nil {
		return false
	}
	select {
	case <-q.done:
		return false
	default:
	}
	select {
	case q.tasks <- task:
		return true
	case <-q.done:
		return false
	}
}

// Run executes tasks on the calling goroutine until ctx is done or Close is
// called. Tasks still buffered at that point are dropped.
func (q *Queue) Run(ctx context.Context) error {
	for {
		task, err := q.Next(ctx)
		if err != nil {
			return err
		}
		task()
	}
}

// Next blocks until a task is available and returns it without running it,
// for event loops that execute tasks themselves
func (q *Queue) Next(ctx context.Context) (func(), error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.done:
		return nil, ErrClosed
	case task := <-q.tasks:
		return task, nil
	}
}

// Close stops Run and rejects further tasks. It is safe to call more than
// once, including from inside a task.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
}

// Done is closed when the queue is closed
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

var _ Dispatcher = (*Queue)(nil)
