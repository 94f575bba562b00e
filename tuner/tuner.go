// File: tuner/tuner.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Throughput-based thread-count discovery. The tuner replays one
// representative workload at a ladder of candidate pool sizes and keeps the
// best-performing count, with an improvement threshold so noise-level gains
// never displace a settled winner.

package tuner

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/momentics/parabola/api"
)

// Sample is one tuning measurement. Samples are transient: produced during
// probing, logged, and discarded once the optimal count is chosen.
type Sample struct {
	Threads    int
	Elapsed    time.Duration
	Throughput float64 // items per second
}

// Runner abstracts the pool and pipeline under test. The facade implements
// it; tests substitute deterministic fakes.
type Runner interface {
	// Resize replaces the pool with n workers. An error (resource
	// exhaustion) terminates probing; the best count found so far wins.
	Resize(n int) error

	// Run pushes the workload through the full split/execute/merge
	// pipeline. A fatal pipeline error aborts tuning.
	Run(workload []api.Request) error
}

// Options parameterizes a tuning run. Zero values select the defaults.
type Options struct {
	// MaxThreads bounds the candidate ladder; 0 selects twice the host's
	// hardware parallelism.
	MaxThreads int

	// ImprovementThreshold is the relative gain required to displace the
	// current best; 0 selects 0.05.
	ImprovementThreshold float64

	// Workload overrides the synthetic default with a caller-supplied
	// representative batch.
	Workload []api.Request
}

// DefaultImprovementThreshold rejects throughput deltas within measurement
// noise.
const DefaultImprovementThreshold = 0.05

// Candidates returns the monotonically increasing probe ladder up to max:
// arithmetic below four threads, geometric doubling above, reflecting
// diminishing returns at high parallelism.
func Candidates(max int) []int {
	if max < 1 {
		return nil
	}
	var out []int
	for n := 1; n <= max; {
		out = append(out, n)
		if n < 4 {
			n++
		} else {
			n *= 2
		}
	}
	return out
}

// SelectBest applies the selection rule to samples in probe order and
// returns the winning thread count. A candidate displaces the best when its
// throughput exceeds best*(1+threshold). A larger candidate whose throughput
// is within (1-threshold) of the best also takes the slot without resetting
// the bar: statistically indistinguishable results favor wider pools, which
// generalize better to bigger production batches.
func SelectBest(samples []Sample, threshold float64) int {
	best := 1
	bestThroughput := 0.0
	for _, s := range samples {
		switch {
		case s.Throughput > bestThroughput*(1+threshold):
			best = s.Threads
			bestThroughput = s.Throughput
		case s.Threads > best && s.Throughput >= bestThroughput*(1-threshold):
			best = s.Threads
		}
	}
	return best
}

// Autotune probes candidate pool sizes with the workload and returns the
// best-performing thread count. The pool is left at the last probed size;
// callers resize to the returned count afterwards.
//
// The simpler first-local-optimum stopping rule (stop at the first candidate
// slower than its predecessor) is deliberately not used: on noisy hardware
// it can latch onto an early plateau.
func Autotune(r Runner, opts Options) (int, error) {
	maxThreads := opts.MaxThreads
	if maxThreads <= 0 {
		maxThreads = runtime.NumCPU() * 2
	}
	threshold := opts.ImprovementThreshold
	if threshold <= 0 {
		threshold = DefaultImprovementThreshold
	}
	workload := opts.Workload
	if len(workload) == 0 {
		workload = DefaultWorkload()
	}

	log.Printf("[tuner] starting thread autotuning, %d items, max %d threads",
		len(workload), maxThreads)

	var samples []Sample
	for _, n := range Candidates(maxThreads) {
		if err := r.Resize(n); err != nil {
			log.Printf("[tuner] resize to %d failed: %v; stopping probe", n, err)
			break
		}

		start := time.Now()
		if err := r.Run(workload); err != nil {
			return 0, fmt.Errorf("tuning workload at %d threads: %w", n, err)
		}
		elapsed := time.Since(start)

		s := Sample{
			Threads:    n,
			Elapsed:    elapsed,
			Throughput: float64(len(workload)) / elapsed.Seconds(),
		}
		samples = append(samples, s)
		log.Printf("[tuner] %d threads: %d ms => %.1f items/sec",
			s.Threads, s.Elapsed.Milliseconds(), s.Throughput)
	}

	if len(samples) == 0 {
		return 0, fmt.Errorf("autotune: no candidate probed: %w", api.ErrResourceExhausted)
	}

	best := SelectBest(samples, threshold)
	log.Printf("[tuner] optimal thread count: %d", best)
	return best, nil
}
