// File: internal/concurrency/executor.go
// Package concurrency implements the resizable worker-pool executor.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Executor dispatches tasks across a fixed set of OS-thread-locked workers
// sharing one mutex+condvar FIFO (see queue.go). Each worker carries a
// stable, process-wide-unique numeric identity assigned in spawn order and
// registered with the computation engine exactly once; a resize destroys
// the whole generation and recreates identities, so resizing is only legal
// while no batch is in flight (the facade enforces that).

package concurrency

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
)

// TaskFunc is a unit of work: a zero-argument callable producing a value or
// a failure.
type TaskFunc[T any] func() (T, error)

// Options tunes worker behavior at spawn time.
type Options struct {
	// Bind registers a worker's identity with the computation engine. It is
	// invoked on the worker's own locked thread, exactly once, before the
	// worker serves any task. A bind failure aborts the spawn.
	Bind func(id int) error

	// PinCPU pins each worker thread to core (id mod NumCPU). Linux only;
	// a no-op elsewhere.
	PinCPU bool
}

// workerContext is the per-worker state. The identity is set once at spawn
// and owned by that worker for its entire lifetime; no other thread may
// issue engine calls under it.
type workerContext struct {
	id int
}

// task pairs a callable with its completion handle.
type task[T any] struct {
	fn TaskFunc[T]
	h  *Handle[T]
}

// Executor manages a resizable pool of workers consuming a shared FIFO.
type Executor[T any] struct {
	queue *taskQueue[*task[T]]
	opts  Options

	mu   sync.Mutex // serializes Resize/Close, guards generation state
	stop *atomic.Bool
	wg   *sync.WaitGroup

	closed     atomic.Bool
	numWorkers atomic.Int32

	// statistics
	submitted int64
	completed int64
	failed    int64
}

// NewExecutor creates an executor with n workers. n == 0 selects the host's
// hardware parallelism.
func NewExecutor[T any](n int, opts Options) (*Executor[T], error) {
	if n < 0 {
		return nil, ErrInvalidWorkerCount
	}
	if n == 0 {
		n = runtime.NumCPU()
	}
	e := &Executor[T]{
		queue: newTaskQueue[*task[T]](),
		opts:  opts,
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.spawnLocked(n); err != nil {
		return nil, err
	}
	return e, nil
}

// Submit enqueues a unit of work and returns its completion handle. It never
// blocks beyond queue-lock acquisition.
func (e *Executor[T]) Submit(fn TaskFunc[T]) (*Handle[T], error) {
	if e.closed.Load() {
		return nil, ErrExecutorClosed
	}
	h := newHandle[T]()
	if !e.queue.push(&task[T]{fn: fn, h: h}) {
		return nil, ErrExecutorClosed
	}
	atomic.AddInt64(&e.submitted, 1)
	return h, nil
}

// Resize atomically replaces the pool: it signals the current workers to
// stop after draining, joins them, then starts n fresh workers against the
// same queue. n == 0 selects the host's hardware parallelism. Stop-the-world;
// callers must not resize with a batch in flight.
func (e *Executor[T]) Resize(n int) error {
	if n < 0 {
		return ErrInvalidWorkerCount
	}
	if n == 0 {
		n = runtime.NumCPU()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed.Load() {
		return ErrExecutorClosed
	}
	e.joinLocked()
	return e.spawnLocked(n)
}

// NumWorkers returns the current number of active workers.
func (e *Executor[T]) NumWorkers() int {
	return int(e.numWorkers.Load())
}

// QueueLen reports the number of tasks waiting for a worker.
func (e *Executor[T]) QueueLen() int {
	return e.queue.len()
}

// Close stops accepting work, lets the queue drain, and joins all workers.
// Idempotent.
func (e *Executor[T]) Close() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.queue.close()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wg != nil {
		e.wg.Wait()
		e.wg = nil
	}
	e.numWorkers.Store(0)
}

// Stats returns basic executor counters.
func (e *Executor[T]) Stats() map[string]int64 {
	return map[string]int64{
		"submitted":   atomic.LoadInt64(&e.submitted),
		"completed":   atomic.LoadInt64(&e.completed),
		"failed":      atomic.LoadInt64(&e.failed),
		"pending":     int64(e.queue.len()),
		"num_workers": int64(e.NumWorkers()),
	}
}

// joinLocked stops the current generation and waits for every worker to
// exit. The queue stays open: tasks already queued are drained first.
func (e *Executor[T]) joinLocked() {
	if e.wg == nil {
		return
	}
	e.queue.stopGeneration(e.stop)
	e.wg.Wait()
	e.wg = nil
	e.numWorkers.Store(0)
}

// spawnLocked starts n workers with identities 0..n-1 in spawn order and
// waits until each has registered with the engine. If any bind fails, the
// whole generation is torn down and the error returned.
func (e *Executor[T]) spawnLocked(n int) error {
	stop := new(atomic.Bool)
	wg := new(sync.WaitGroup)
	ready := make(chan error, n)

	for i := 0; i < n; i++ {
		wc := &workerContext{id: i}
		wg.Add(1)
		go e.run(wc, stop, wg, ready)
	}

	var bindErr error
	for i := 0; i < n; i++ {
		if err := <-ready; err != nil && bindErr == nil {
			bindErr = err
		}
	}
	if bindErr != nil {
		e.queue.stopGeneration(stop)
		wg.Wait()
		return fmt.Errorf("spawn %d workers: %w", n, bindErr)
	}

	e.stop = stop
	e.wg = wg
	e.numWorkers.Store(int32(n))
	return nil
}

// run is the worker loop. The OS thread is locked for the worker's lifetime
// because the engine keys its internal caches to the bound identity's
// thread.
func (e *Executor[T]) run(wc *workerContext, stop *atomic.Bool, wg *sync.WaitGroup, ready chan<- error) {
	defer wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if e.opts.PinCPU {
		if err := PinCurrentThread(wc.id % runtime.NumCPU()); err != nil {
			log.Printf("[executor] worker %d: pin failed: %v", wc.id, err)
		}
	}
	if e.opts.Bind != nil {
		if err := e.opts.Bind(wc.id); err != nil {
			ready <- fmt.Errorf("bind worker %d: %w", wc.id, err)
			return
		}
	}
	ready <- nil

	for {
		t, ok := e.queue.pop(stop)
		if !ok {
			return
		}
		e.execute(t)
	}
}

// execute runs one task to completion. A failure is logged and stored in
// the handle; it never kills the worker.
func (e *Executor[T]) execute(t *task[T]) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("task panic: %v", r)
			log.Printf("[executor] %v", err)
			atomic.AddInt64(&e.failed, 1)
			atomic.AddInt64(&e.completed, 1)
			var zero T
			t.h.complete(zero, err)
		}
	}()

	v, err := t.fn()
	if err != nil {
		atomic.AddInt64(&e.failed, 1)
		log.Printf("[executor] task failed: %v", err)
	}
	atomic.AddInt64(&e.completed, 1)
	t.h.complete(v, err)
}
