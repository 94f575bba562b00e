// File: batch/processor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Batch processor: split, submit, await in submission order, merge, verify.
// Per-request engine failures stay inside their Result; a lost or duplicated
// slice fails the whole batch instead of silently returning partial data.

package batch

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/momentics/parabola/api"
	"github.com/momentics/parabola/control"
	"github.com/momentics/parabola/internal/concurrency"
)

// Processor drives batches through one executor and one engine.
type Processor struct {
	exec    *concurrency.Executor[[]api.Result]
	engine  api.Engine
	metrics *control.MetricsRegistry // optional

	minSlice int
	maxSlice int
}

// NewProcessor creates a processor with the default slice-size bounds.
// metrics may be nil.
func NewProcessor(exec *concurrency.Executor[[]api.Result], engine api.Engine, metrics *control.MetricsRegistry) *Processor {
	return &Processor{
		exec:     exec,
		engine:   engine,
		metrics:  metrics,
		minSlice: DefaultMinSliceSize,
		maxSlice: DefaultMaxSliceSize,
	}
}

// SetSliceBounds overrides the splitter's clamp bounds.
func (p *Processor) SetSliceBounds(min, max int) {
	if min > 0 {
		p.minSlice = min
	}
	if max >= p.minSlice {
		p.maxSlice = max
	}
}

// Process runs one batch and returns results in request order. The result
// count always equals len(reqs); a mismatch (a slice lost entirely) is fatal
// and reported as api.ErrCountMismatch.
func (p *Processor) Process(reqs []api.Request) ([]api.Result, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	id := uuid.NewString()
	start := time.Now()

	size := TargetSliceSize(len(reqs), p.exec.NumWorkers(), p.minSlice, p.maxSlice)
	slices := Split(reqs, size)

	handles := make([]*concurrency.Handle[[]api.Result], 0, len(slices))
	for _, slice := range slices {
		slice := slice // pre-1.22 loop semantics: each closure needs its own copy
		h, err := p.exec.Submit(func() ([]api.Result, error) {
			return p.computeSlice(id, slice), nil
		})
		if err != nil {
			return nil, fmt.Errorf("batch %s: submit slice: %w", id, err)
		}
		handles = append(handles, h)
	}

	merged, err := mergeResults(id, len(reqs), handles)
	if err != nil {
		return nil, err
	}

	p.record(id, len(reqs), api.CountFailed(merged), time.Since(start))
	return merged, nil
}

// mergeResults awaits slice handles in submission order and concatenates
// their results. Exactly want results must come back; anything else means a
// slice was lost or duplicated and the whole batch is failed.
func mergeResults(id string, want int, handles []*concurrency.Handle[[]api.Result]) ([]api.Result, error) {
	merged := make([]api.Result, 0, want)
	for i, h := range handles {
		res, err := h.Wait()
		if err != nil {
			return nil, fmt.Errorf("batch %s: slice %d failed: %w", id, i, err)
		}
		merged = append(merged, res...)
	}

	if len(merged) != want {
		log.Printf("[batch] %s: result count mismatch: expected %d, got %d", id, want, len(merged))
		return nil, fmt.Errorf("batch %s: expected %d results, got %d: %w",
			id, want, len(merged), api.ErrCountMismatch)
	}
	return merged, nil
}

// computeSlice loops sequentially over one slice on the owning worker.
func (p *Processor) computeSlice(id string, slice []api.Request) []api.Result {
	out := make([]api.Result, 0, len(slice))
	for _, req := range slice {
		r := p.engine.Compute(req.Timestamp, req.Subject)
		if r.Failed() {
			log.Printf("[batch] %s: compute error for subject %d at %f: %s",
				id, req.Subject, req.Timestamp, r.Message)
		}
		out = append(out, r)
	}
	return out
}

func (p *Processor) record(id string, requests, failures int, elapsed time.Duration) {
	if p.metrics == nil {
		return
	}
	p.metrics.Add("batches", 1)
	p.metrics.Add("requests", int64(requests))
	p.metrics.Add("request_failures", int64(failures))
	p.metrics.Set("last_batch_id", id)
	p.metrics.Set("last_batch_ms", elapsed.Milliseconds())
}
