// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error sentinels shared across the parabola library.

package api

import "errors"

var (
	// ErrNotInitialized is returned when a batch or tuning operation is
	// attempted before the engine has been configured.
	ErrNotInitialized = errors.New("engine not initialized")

	// ErrPoolClosed is returned by submissions after shutdown has begun.
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrCountMismatch marks a fatal aggregation integrity failure: the
	// merged result count does not equal the request count, indicating a
	// lost or duplicated slice.
	ErrCountMismatch = errors.New("result count mismatch")

	// ErrResourceExhausted indicates the pool could not grow to the
	// requested size.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrBatchInFlight is returned when a resize is attempted while a
	// batch is being processed.
	ErrBatchInFlight = errors.New("batch in flight")
)
