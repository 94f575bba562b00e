// File: api/types.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Shared API-level value types exchanged between the executor and its callers.

package api

// Request identifies one unit of computation: one subject at one instant.
// Requests are immutable. Ordering within a batch is significant and is
// preserved in the corresponding result sequence.
type Request struct {
	// Timestamp is the instant of evaluation in the engine's native epoch
	// scale (Julian day number for ephemeris engines).
	Timestamp float64

	// Subject is the engine-specific body identifier.
	Subject int
}

// Result is the outcome of computing one Request. Code < 0 marks a failed
// computation and leaves Values undefined. Results are immutable once
// produced.
type Result struct {
	Subject int
	Values  [6]float64
	Code    int
	Message string
}

// Failed reports whether the engine rejected this request.
func (r Result) Failed() bool {
	return r.Code < 0
}

// CountFailed returns the number of failed results in a batch output.
func CountFailed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Failed() {
			n++
		}
	}
	return n
}
