// File: api/engine.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contract for the external computation engine. The engine's numerical
// behavior and file-backed data dependencies are opaque to this library;
// only the call surface below is assumed.

package api

// Engine abstracts the expensive, thread-state-sensitive computation routine
// the executor parallelizes. Implementations are expected to keep per-worker
// state keyed by the identity passed to BindWorker; Compute is not safe to
// call from two threads sharing the same identity.
type Engine interface {
	// Configure performs the engine-wide, one-time path configuration.
	// It must be called once before any Compute call.
	Configure(path string) error

	// BindWorker registers a process-wide-unique worker identity with the
	// engine. Called exactly once per worker, on the worker's own thread,
	// before that worker issues any Compute call.
	BindWorker(id int) error

	// Compute evaluates one request synchronously. A failure is reported
	// inside the Result (Code < 0 plus the engine's native message), never
	// as a panic or error return. Implementations must also tolerate a call
	// from a thread with no prior BindWorker, running under the engine's
	// default identity: the one-time readiness probe after Configure is
	// issued that way.
	Compute(timestamp float64, subject int) Result

	// Close releases engine resources. Safe to call more than once.
	Close() error
}

// Return codes used by FileOverlay implementations.
const (
	// OverlayOK means the read was served from the overlay.
	OverlayOK = 0
	// OverlayNotHandled tells the engine to fall back to normal file I/O.
	OverlayNotHandled = -1
	// OverlayOutOfBounds marks a read past the end of the mapped data.
	OverlayOutOfBounds = -2
)

// FileOverlay intercepts the engine's file reads with memory-mapped data.
// Read fills p with len(p) bytes of the named file starting at off and
// returns OverlayOK, or a negative code when the request cannot be served.
type FileOverlay interface {
	Read(name string, p []byte, off int64) int
	Close() error
}
