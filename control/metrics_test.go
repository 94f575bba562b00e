// Copyright 2025 momentics@gmail.com
// License: Apache 2.0

package control_test

import (
	"sync"
	"testing"

	"github.com/momentics/parabola/control"
)

func TestMetricsRegistry_SetAndAdd(t *testing.T) {
	mr := control.NewMetricsRegistry()

	mr.Set("pool_threads", int64(8))
	mr.Add("batches", 1)
	mr.Add("batches", 2)

	if v, ok := mr.Get("pool_threads"); !ok || v.(int64) != 8 {
		t.Errorf("pool_threads: got %v", v)
	}
	snap := mr.GetSnapshot()
	if snap["batches"].(int64) != 3 {
		t.Errorf("batches: got %v, want 3", snap["batches"])
	}
	if mr.Updated().IsZero() {
		t.Error("Updated not set")
	}
}

func TestMetricsRegistry_Concurrent(t *testing.T) {
	mr := control.NewMetricsRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				mr.Add("requests", 1)
			}
		}()
	}
	wg.Wait()
	if v, _ := mr.Get("requests"); v.(int64) != 800 {
		t.Errorf("requests: got %v, want 800", v)
	}
}
