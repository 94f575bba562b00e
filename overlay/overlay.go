// File: overlay/overlay.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package overlay serves the engine's file reads from a memory-mapped image
// instead of disk. Only files carrying the .swevid extension are handled;
// everything else gets a negative code so the engine falls back to its
// normal file I/O.

package overlay

import (
	"strings"
	"sync"

	"github.com/momentics/parabola/api"
)

// Extension marks files the overlay is willing to serve.
const Extension = ".swevid"

// Overlay is a read-only memory-mapped image of one ephemeris data file.
type Overlay struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

var _ api.FileOverlay = (*Overlay)(nil)

// Load maps the file at path into memory.
func Load(path string) (*Overlay, error) {
	data, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	return &Overlay{data: data}, nil
}

// Read fills p with len(p) bytes starting at off and returns api.OverlayOK.
// Reads for names without the .swevid extension, or after Close, return
// api.OverlayNotHandled; reads past the mapping return
// api.OverlayOutOfBounds.
func (o *Overlay) Read(name string, p []byte, off int64) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.data == nil {
		return api.OverlayNotHandled
	}
	if !strings.HasSuffix(name, Extension) {
		return api.OverlayNotHandled
	}
	if off < 0 || off+int64(len(p)) > int64(len(o.data)) {
		return api.OverlayOutOfBounds
	}
	copy(p, o.data[off:])
	return api.OverlayOK
}

// Size reports the mapped length in bytes.
func (o *Overlay) Size() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return int64(len(o.data))
}

// Close unmaps the image. Safe to call more than once.
func (o *Overlay) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	data := o.data
	o.data = nil
	return unmapFile(data)
}
