// File: overlay/mmap_stub.go
//go:build !linux
// +build !linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback for platforms without the mmap backend: whole-file read.

package overlay

import (
	"fmt"
	"os"
)

func mapFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overlay: %w", err)
	}
	return data, nil
}

func unmapFile(data []byte) error {
	return nil
}
