// Copyright 2025 momentics@gmail.com
// License: Apache 2.0

// mismatch_test.go — aggregation integrity: a slice coming back short or
// over-long must fail the whole batch with ErrCountMismatch.
package batch

import (
	"errors"
	"testing"

	"github.com/momentics/parabola/api"
	"github.com/momentics/parabola/internal/concurrency"
)

func sliceHandle(t *testing.T, ex *concurrency.Executor[[]api.Result], n int) *concurrency.Handle[[]api.Result] {
	t.Helper()
	h, err := ex.Submit(func() ([]api.Result, error) {
		return make([]api.Result, n), nil
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return h
}

func TestMergeResults_CountMismatch(t *testing.T) {
	ex, err := concurrency.NewExecutor[[]api.Result](1, concurrency.Options{})
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	t.Cleanup(ex.Close)

	cases := []struct {
		name   string
		slices []int
		want   int
	}{
		{"short slice", []int{10, 7}, 20},
		{"extra results", []int{10, 13}, 20},
		{"lost slice", []int{10}, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handles := make([]*concurrency.Handle[[]api.Result], 0, len(tc.slices))
			for _, n := range tc.slices {
				handles = append(handles, sliceHandle(t, ex, n))
			}
			res, err := mergeResults("test-batch", tc.want, handles)
			if !errors.Is(err, api.ErrCountMismatch) {
				t.Fatalf("got err %v, want ErrCountMismatch", err)
			}
			if res != nil {
				t.Errorf("want nil results on mismatch, got %d", len(res))
			}
		})
	}
}

func TestMergeResults_ExactCount(t *testing.T) {
	ex, err := concurrency.NewExecutor[[]api.Result](1, concurrency.Options{})
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	t.Cleanup(ex.Close)

	handles := []*concurrency.Handle[[]api.Result]{
		sliceHandle(t, ex, 10),
		sliceHandle(t, ex, 10),
	}
	res, err := mergeResults("test-batch", 20, handles)
	if err != nil {
		t.Fatalf("mergeResults: %v", err)
	}
	if len(res) != 20 {
		t.Errorf("got %d results, want 20", len(res))
	}
}
