// Copyright 2025 momentics@gmail.com
// License: Apache 2.0

// processor_test.go — order preservation, fault isolation, and aggregation
// integrity for the batch pipeline.
package batch_test

import (
	"fmt"
	"testing"

	"github.com/momentics/parabola/api"
	"github.com/momentics/parabola/batch"
	"github.com/momentics/parabola/control"
	"github.com/momentics/parabola/internal/concurrency"
)

// echoEngine returns the request timestamp in Values[0] so tests can verify
// each result sits at its request's index. Negative subjects fail; the
// crashSubject panics mid-slice to simulate a dying worker.
type echoEngine struct {
	crashSubject int
}

func (e *echoEngine) Configure(path string) error { return nil }
func (e *echoEngine) BindWorker(id int) error     { return nil }
func (e *echoEngine) Close() error                { return nil }

func (e *echoEngine) Compute(timestamp float64, subject int) api.Result {
	if e.crashSubject != 0 && subject == e.crashSubject {
		panic("engine crash")
	}
	if subject < 0 {
		return api.Result{
			Subject: subject,
			Code:    -1,
			Message: fmt.Sprintf("unknown subject %d", subject),
		}
	}
	return api.Result{Subject: subject, Values: [6]float64{timestamp}}
}

func newProcessor(t *testing.T, workers int, eng api.Engine) (*batch.Processor, *concurrency.Executor[[]api.Result]) {
	t.Helper()
	ex, err := concurrency.NewExecutor[[]api.Result](workers, concurrency.Options{})
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	t.Cleanup(ex.Close)
	return batch.NewProcessor(ex, eng, control.NewMetricsRegistry()), ex
}

func TestProcess_OrderPreservation(t *testing.T) {
	for _, workers := range []int{1, 2, 5, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			proc, _ := newProcessor(t, workers, &echoEngine{})

			reqs := make([]api.Request, 237)
			for i := range reqs {
				reqs[i] = api.Request{Timestamp: float64(i), Subject: i % 10}
			}

			res, err := proc.Process(reqs)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if len(res) != len(reqs) {
				t.Fatalf("got %d results, want %d", len(res), len(reqs))
			}
			for i, r := range res {
				if r.Values[0] != float64(i) {
					t.Fatalf("result %d corresponds to request %v, want %d", i, r.Values[0], i)
				}
			}
		})
	}
}

func TestProcess_FaultIsolation(t *testing.T) {
	proc, _ := newProcessor(t, 4, &echoEngine{})

	reqs := make([]api.Request, 100)
	for i := range reqs {
		reqs[i] = api.Request{Timestamp: float64(i), Subject: i}
	}
	reqs[50].Subject = -1 // engine rejects this one

	res, err := proc.Process(reqs)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	for i, r := range res {
		if i == 50 {
			if !r.Failed() {
				t.Error("result 50: want failure, got success")
			}
			continue
		}
		if r.Failed() {
			t.Errorf("result %d: unexpected failure: %s", i, r.Message)
		}
	}
	if got := api.CountFailed(res); got != 1 {
		t.Errorf("failed count: got %d, want 1", got)
	}
}

func TestProcess_WorkerCrashFailsBatch(t *testing.T) {
	proc, _ := newProcessor(t, 2, &echoEngine{crashSubject: 77})

	reqs := make([]api.Request, 120)
	for i := range reqs {
		reqs[i] = api.Request{Timestamp: float64(i), Subject: i}
	}

	// A crash mid-slice must fail the whole batch, never return a
	// truncated result set.
	res, err := proc.Process(reqs)
	if err == nil {
		t.Fatalf("want fatal batch error, got %d results", len(res))
	}
	if res != nil {
		t.Errorf("want nil results on fatal error, got %d", len(res))
	}
}

func TestProcess_Empty(t *testing.T) {
	proc, _ := newProcessor(t, 2, &echoEngine{})
	res, err := proc.Process(nil)
	if err != nil || res != nil {
		t.Errorf("Process(nil): got (%v, %v), want (nil, nil)", res, err)
	}
}

func TestProcess_SubmitAfterCloseFails(t *testing.T) {
	proc, ex := newProcessor(t, 2, &echoEngine{})
	ex.Close()
	if _, err := proc.Process(make([]api.Request, 30)); err == nil {
		t.Error("want submit error on closed pool, got nil")
	}
}
