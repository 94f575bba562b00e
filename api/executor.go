// Package api
// Author: momentics
//
// Executor contract for parallel task dispatch.

package api

// Executor abstracts a resizable pool of workers consuming a shared FIFO
// task queue. The concrete, handle-returning implementation lives in
// internal/concurrency; this interface covers the pool-management surface.
type Executor interface {
	// NumWorkers returns the current number of active workers.
	NumWorkers() int

	// Resize atomically replaces the pool with n fresh workers. n == 0
	// selects the host's hardware parallelism. Resize must not run while
	// a batch is in flight.
	Resize(n int) error

	// Close stops all workers and joins them. Idempotent.
	Close()
}
