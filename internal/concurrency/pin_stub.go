// File: internal/concurrency/pin_stub.go
//go:build !linux
// +build !linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// No-op pinning fallback for platforms without sched_setaffinity.

package concurrency

// PinCurrentThread is a no-op on this platform.
func PinCurrentThread(cpuID int) error {
	return nil
}
