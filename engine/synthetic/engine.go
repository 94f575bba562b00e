// File: engine/synthetic/engine.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package synthetic is a deterministic, CPU-bound stand-in for a real
// ephemeris engine. The tuning binary and the tests use it to exercise the
// executor pipeline without ephemeris data files; its per-call cost is
// adjustable so probes measure real parallel speedup.

package synthetic

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/momentics/parabola/api"
)

// DefaultWork is the number of kernel iterations per Compute call, sized so
// one call costs on the order of a real ephemeris evaluation.
const DefaultWork = 2000

// Engine simulates the external computation routine. Subjects must be
// non-negative; a negative subject computes to a failed Result, which the
// tests use for fault injection.
type Engine struct {
	work int64 // kernel iterations per call

	mu         sync.Mutex
	path       string
	configured bool
	closed     bool
	binds      []int // worker identities in registration order
}

var _ api.Engine = (*Engine)(nil)

// New creates an engine with the default per-call cost.
func New() *Engine {
	return &Engine{work: DefaultWork}
}

// SetWork adjusts the kernel iterations per Compute call. Used by tests to
// keep workloads fast and by benchmarks to scale per-call cost.
func (e *Engine) SetWork(n int) {
	if n < 1 {
		n = 1
	}
	atomic.StoreInt64(&e.work, int64(n))
}

// Configure records the data path. The simulation carries no file-backed
// data, so any path is accepted; an empty path selects the default.
func (e *Engine) Configure(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("synthetic engine is closed")
	}
	if path == "" {
		path = "./ephe"
	}
	e.path = path
	e.configured = true
	return nil
}

// BindWorker records the worker identity. Each worker of a generation
// registers exactly once; tests assert on the recorded identity set.
func (e *Engine) BindWorker(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("synthetic engine is closed")
	}
	e.binds = append(e.binds, id)
	return nil
}

// Binds returns the recorded registration order.
func (e *Engine) Binds() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]int, len(e.binds))
	copy(out, e.binds)
	return out
}

// ResetBinds clears the registration record, typically before a resize.
func (e *Engine) ResetBinds() {
	e.mu.Lock()
	e.binds = nil
	e.mu.Unlock()
}

// Compute evaluates the simulation kernel for one request. Failures are
// carried in the Result, never panicked.
func (e *Engine) Compute(timestamp float64, subject int) api.Result {
	if subject < 0 {
		return api.Result{
			Subject: subject,
			Code:    -1,
			Message: fmt.Sprintf("unknown subject %d", subject),
		}
	}

	// Deterministic trig series seeded by the request; burns CPU in
	// proportion to work.
	x := timestamp*0.001 + float64(subject)
	work := atomic.LoadInt64(&e.work)
	acc := 0.0
	for i := int64(0); i < work; i++ {
		acc += math.Sin(x + float64(i)*0.25)
	}

	var values [6]float64
	for k := range values {
		values[k] = math.Sin(x*float64(k+1)) + acc*1e-12
	}
	return api.Result{Subject: subject, Values: values}
}

// Close marks the engine released. Safe to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}
