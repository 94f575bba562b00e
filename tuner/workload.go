// File: tuner/workload.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Synthetic representative workload generation for autotuning.

package tuner

import "github.com/momentics/parabola/api"

// BaseEpoch is the J2000.0 epoch (2000-01-01 12:00 TT) as a Julian day,
// the known-good instant every ephemeris data set covers.
const BaseEpoch = 2451545.0

// stepMinute is one minute expressed in days.
const stepMinute = 1.0 / 1440.0

// Workload builds a synthetic batch spanning steps one-minute time steps
// with one request per subject per step. Subjects are numbered 0..subjects-1.
func Workload(steps, subjects int) []api.Request {
	if steps < 1 {
		steps = 1
	}
	if subjects < 1 {
		subjects = 1
	}
	reqs := make([]api.Request, 0, steps*subjects)
	for i := 0; i < steps; i++ {
		ts := BaseEpoch + float64(i)*stepMinute
		for s := 0; s < subjects; s++ {
			reqs = append(reqs, api.Request{Timestamp: ts, Subject: s})
		}
	}
	return reqs
}

// DefaultWorkload covers 1000 steps of 10 subjects each.
func DefaultWorkload() []api.Request {
	return Workload(1000, 10)
}
