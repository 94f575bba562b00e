// File: batch/split.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Slice-splitting policy. Small batches still get one worker's worth of
// parallelism; large batches are capped so no single slice starves the rest
// of the pool.

package batch

import "github.com/momentics/parabola/api"

// Default slice-size bounds: below DefaultMinSliceSize the per-slice
// overhead dominates, above DefaultMaxSliceSize one slice holds a worker
// for too long.
const (
	DefaultMinSliceSize = 10
	DefaultMaxSliceSize = 100
)

// TargetSliceSize returns clamp(n/workers, min, max) for a batch of n
// requests on a pool of the given width.
func TargetSliceSize(n, workers, min, max int) int {
	if workers < 1 {
		workers = 1
	}
	size := n / workers
	if size < min {
		size = min
	}
	if size > max {
		size = max
	}
	return size
}

// Split divides reqs into contiguous slices of at most size requests. Slice
// i immediately follows slice i-1 with no gaps or overlaps, no slice is
// empty, and no request is dropped or reordered. The slices alias the input
// backing array; each is owned exclusively by the worker that executes it.
func Split(reqs []api.Request, size int) [][]api.Request {
	if len(reqs) == 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}
	out := make([][]api.Request, 0, (len(reqs)+size-1)/size)
	for start := 0; start < len(reqs); start += size {
		end := start + size
		if end > len(reqs) {
			end = len(reqs)
		}
		out = append(out, reqs[start:end])
	}
	return out
}
