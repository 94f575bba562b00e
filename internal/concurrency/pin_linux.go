// File: internal/concurrency/pin_linux.go
//go:build linux
// +build linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux CPU pinning via sched_setaffinity, pure Go through x/sys.

package concurrency

import "golang.org/x/sys/unix"

// PinCurrentThread binds the calling OS thread to the given CPU core. The
// caller must already hold runtime.LockOSThread.
func PinCurrentThread(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	// tid 0 targets the calling thread.
	return unix.SchedSetaffinity(0, &set)
}
