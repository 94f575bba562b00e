// File: internal/concurrency/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Mutex-guarded FIFO task queue with condition-variable wake-up. The
// workload is CPU-bound and dequeues whole slices, so a single shared lock
// is not a contention point; the eapache ring-backed queue keeps push/pop
// amortized O(1) without per-element allocation.

package concurrency

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

// taskQueue is a blocking FIFO shared by all workers of one executor. The
// queue itself outlives worker generations: a resize stops one generation
// via its stop token and starts another against the same queue, so queued
// tasks survive the swap.
type taskQueue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  *queue.Queue
	closed bool
}

func newTaskQueue[T any]() *taskQueue[T] {
	q := &taskQueue[T]{items: queue.New()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues item, returning false once the queue has been closed.
func (q *taskQueue[T]) push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items.Add(item)
	q.cond.Signal()
	return true
}

// pop blocks until an item is available, the queue is closed, or the
// caller's generation is stopped. A stopped or closed queue still hands out
// queued items until it drains; ok is false only when the caller should
// exit.
func (q *taskQueue[T]) pop(stop *atomic.Bool) (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Length() == 0 && !q.closed && !stop.Load() {
		q.cond.Wait()
	}
	if q.items.Length() == 0 {
		return item, false
	}
	return q.items.Remove().(T), true
}

// close marks the queue terminally closed and wakes all waiting workers.
func (q *taskQueue[T]) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// stopGeneration flips a generation's stop token and wakes all waiting
// workers. The store happens under the queue mutex: pop reads the token
// inside the same mutex, so a worker between its wait-condition check and
// cond.Wait cannot miss the wake-up.
func (q *taskQueue[T]) stopGeneration(stop *atomic.Bool) {
	q.mu.Lock()
	stop.Store(true)
	q.mu.Unlock()
	q.cond.Broadcast()
}

// len reports the number of queued items.
func (q *taskQueue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}
