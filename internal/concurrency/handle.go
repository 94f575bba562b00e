// File: internal/concurrency/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Completion handles. A Handle carries its task's result or failure as an
// explicit value across the worker boundary; nothing is rethrown between
// goroutines.

package concurrency

// Handle is the one-shot completion token returned by Submit. It is safe to
// Wait from multiple goroutines; all of them observe the same outcome.
type Handle[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newHandle[T any]() *Handle[T] {
	return &Handle[T]{done: make(chan struct{})}
}

// complete records the outcome and releases all waiters. Called exactly once
// by the worker that executed the task.
func (h *Handle[T]) complete(value T, err error) {
	h.value = value
	h.err = err
	close(h.done)
}

// Wait blocks until the task has finished and returns its result or failure.
func (h *Handle[T]) Wait() (T, error) {
	<-h.done
	return h.value, h.err
}

// Done exposes the completion channel for select-based callers.
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}
