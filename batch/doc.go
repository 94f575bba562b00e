// File: batch/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package batch turns an ordered request collection into contiguous slices
// sized for the current pool, runs them through the executor, and merges the
// per-slice results back into one order-consistent output with failure
// accounting.
package batch
