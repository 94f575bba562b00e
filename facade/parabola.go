// File: facade/parabola.go
// Unified facade layer for the parabola library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file defines the Parabola struct, which aggregates the executor,
// batch processor, tuner, metrics, and optional file overlay behind a single
// facade and owns all process-wide lifecycle state: the one-time engine
// initialization and the current pool size. Pools are explicit instances —
// nothing here is a process-wide singleton, so tests and embedders may run
// several independent facades side by side.

package facade

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/momentics/parabola/api"
	"github.com/momentics/parabola/batch"
	"github.com/momentics/parabola/control"
	"github.com/momentics/parabola/internal/concurrency"
	"github.com/momentics/parabola/overlay"
	"github.com/momentics/parabola/tuner"
)

// probeSubject is the engine body every data set can evaluate; probing it at
// tuner.BaseEpoch verifies the configured path actually works.
const probeSubject = 0

// The pool behind the facade satisfies the public executor contract.
var _ api.Executor = (*concurrency.Executor[[]api.Result])(nil)

// Parabola is the main facade type.
type Parabola struct {
	engine  api.Engine
	exec    *concurrency.Executor[[]api.Result]
	proc    *batch.Processor
	metrics *control.MetricsRegistry
	overlay *overlay.Overlay
	cfg     *control.Config

	// lifecycleMu serializes Init and Shutdown.
	lifecycleMu sync.Mutex
	// batchMu is held shared by in-flight batches and exclusively by
	// resize, so a resize never destroys worker identities under a batch.
	batchMu sync.RWMutex

	initialized atomic.Bool
	closed      atomic.Bool
}

// New constructs a facade around the given engine. cfg == nil selects
// defaults. The worker pool is spawned immediately at cfg.Threads (zero
// selects hardware parallelism); the engine stays unconfigured until Init.
func New(engine api.Engine, cfg *control.Config) (*Parabola, error) {
	if cfg == nil {
		cfg = control.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Parabola{
		engine:  engine,
		metrics: control.NewMetricsRegistry(),
		cfg:     cfg,
	}

	exec, err := concurrency.NewExecutor[[]api.Result](cfg.Threads, concurrency.Options{
		Bind:   engine.BindWorker,
		PinCPU: cfg.PinCPU,
	})
	if err != nil {
		return nil, fmt.Errorf("executor init failure: %w", err)
	}
	p.exec = exec

	p.proc = batch.NewProcessor(exec, engine, p.metrics)
	p.proc.SetSliceBounds(cfg.Batch.MinSlice, cfg.Batch.MaxSlice)
	return p, nil
}

// Init performs the one-time engine initialization: configure the data
// path, then verify readiness with a known-good probe computation. The probe
// runs on the caller's thread under the engine's default identity (see
// api.Engine.Compute). A probe failure is fatal and carries the engine's
// native error message. Repeat calls skip the initialization step but still
// honor a changed cfg.Threads.
func (p *Parabola) Init() error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()
	if p.closed.Load() {
		return api.ErrPoolClosed
	}

	if !p.initialized.Load() {
		if err := p.engine.Configure(p.cfg.EphePath); err != nil {
			return fmt.Errorf("engine initialization failed: %w", err)
		}
		if r := p.engine.Compute(tuner.BaseEpoch, probeSubject); r.Failed() {
			return fmt.Errorf("engine initialization failed: probe: %s", r.Message)
		}
		p.initialized.Store(true)
		log.Printf("[facade] engine initialized, path=%s, workers=%d",
			p.cfg.EphePath, p.exec.NumWorkers())
	}

	if p.cfg.Threads > 0 && p.cfg.Threads != p.exec.NumWorkers() {
		return p.resize(p.cfg.Threads)
	}
	return nil
}

// ComputeBatch runs one batch through the pipeline and returns results in
// request order. Per-request engine failures are recorded inside their
// Result; the batch itself still succeeds. Requires Init.
func (p *Parabola) ComputeBatch(reqs []api.Request) ([]api.Result, error) {
	if !p.initialized.Load() {
		return nil, api.ErrNotInitialized
	}
	if p.closed.Load() {
		return nil, api.ErrPoolClosed
	}
	p.batchMu.RLock()
	defer p.batchMu.RUnlock()
	return p.proc.Process(reqs)
}

// Resize replaces the pool with n workers (0 selects hardware parallelism).
// It blocks until in-flight batches finish and never runs concurrently with
// one; worker identities are destroyed and recreated.
func (p *Parabola) Resize(n int) error {
	if p.closed.Load() {
		return api.ErrPoolClosed
	}
	return p.resize(n)
}

func (p *Parabola) resize(n int) error {
	p.batchMu.Lock()
	defer p.batchMu.Unlock()
	if err := p.exec.Resize(n); err != nil {
		return err
	}
	p.metrics.Set("pool_threads", int64(p.exec.NumWorkers()))
	return nil
}

// Autotune probes candidate pool sizes with the configured synthetic
// workload, resizes the pool to the winner, and returns it. Requires Init.
func (p *Parabola) Autotune() (int, error) {
	if !p.initialized.Load() {
		return 0, api.ErrNotInitialized
	}
	if p.closed.Load() {
		return 0, api.ErrPoolClosed
	}

	best, err := tuner.Autotune(tunerRunner{p}, tuner.Options{
		MaxThreads:           p.cfg.Tuning.MaxThreads,
		ImprovementThreshold: p.cfg.Tuning.ImprovementThreshold,
		Workload:             tuner.Workload(p.cfg.Tuning.WorkloadSteps, p.cfg.Tuning.WorkloadSubjects),
	})
	if err != nil {
		return 0, err
	}
	if err := p.resize(best); err != nil {
		return 0, fmt.Errorf("resize to tuned count %d: %w", best, err)
	}
	p.metrics.Set("tuned_threads", int64(best))
	return best, nil
}

// LoadOverlay maps the .swevid file at path so engine implementations can
// serve file reads from memory.
func (p *Parabola) LoadOverlay(path string) error {
	o, err := overlay.Load(path)
	if err != nil {
		return err
	}
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()
	if p.overlay != nil {
		p.overlay.Close()
	}
	p.overlay = o
	return nil
}

// Overlay returns the loaded file overlay, or nil.
func (p *Parabola) Overlay() api.FileOverlay {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()
	if p.overlay == nil {
		return nil
	}
	return p.overlay
}

// NumWorkers returns the live pool size.
func (p *Parabola) NumWorkers() int {
	return p.exec.NumWorkers()
}

// Metrics exposes the runtime metrics registry.
func (p *Parabola) Metrics() *control.MetricsRegistry {
	return p.metrics
}

// Shutdown drains the queue, joins all workers, releases engine resources,
// and unmaps the overlay. Safe to call more than once; repeat calls are
// no-ops.
func (p *Parabola) Shutdown() error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.exec.Close()
	if p.overlay != nil {
		p.overlay.Close()
		p.overlay = nil
	}
	if err := p.engine.Close(); err != nil {
		log.Printf("[facade] engine close: %v", err)
	}
	log.Printf("[facade] shut down")
	return nil
}

// tunerRunner adapts the facade to the tuner.Runner contract.
type tunerRunner struct {
	p *Parabola
}

func (r tunerRunner) Resize(n int) error {
	return r.p.Resize(n)
}

func (r tunerRunner) Run(workload []api.Request) error {
	_, err := r.p.ComputeBatch(workload)
	return err
}
