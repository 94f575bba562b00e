// Copyright 2025 momentics@gmail.com
// License: Apache 2.0

package overlay_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/momentics/parabola/api"
	"github.com/momentics/parabola/overlay"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "de440.swevid")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	return path
}

func TestOverlay_Read(t *testing.T) {
	content := []byte("0123456789abcdef")
	o, err := overlay.Load(writeTemp(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer o.Close()

	if o.Size() != int64(len(content)) {
		t.Errorf("Size: got %d, want %d", o.Size(), len(content))
	}

	buf := make([]byte, 6)
	if code := o.Read("de440.swevid", buf, 4); code != api.OverlayOK {
		t.Fatalf("Read: got code %d, want 0", code)
	}
	if !bytes.Equal(buf, content[4:10]) {
		t.Errorf("Read: got %q, want %q", buf, content[4:10])
	}
}

func TestOverlay_NotHandled(t *testing.T) {
	o, err := overlay.Load(writeTemp(t, []byte("payload")))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer o.Close()

	buf := make([]byte, 4)
	// Wrong extension falls back to normal file I/O.
	if code := o.Read("sepl_18.se1", buf, 0); code != api.OverlayNotHandled {
		t.Errorf("foreign extension: got code %d, want %d", code, api.OverlayNotHandled)
	}
}

func TestOverlay_OutOfBounds(t *testing.T) {
	o, err := overlay.Load(writeTemp(t, []byte("short")))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer o.Close()

	buf := make([]byte, 16)
	if code := o.Read("x.swevid", buf, 0); code != api.OverlayOutOfBounds {
		t.Errorf("overrun: got code %d, want %d", code, api.OverlayOutOfBounds)
	}
	if code := o.Read("x.swevid", buf[:1], -1); code != api.OverlayOutOfBounds {
		t.Errorf("negative offset: got code %d, want %d", code, api.OverlayOutOfBounds)
	}
}

func TestOverlay_CloseIdempotent(t *testing.T) {
	o, err := overlay.Load(writeTemp(t, []byte("payload")))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := o.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := o.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if code := o.Read("x.swevid", make([]byte, 1), 0); code != api.OverlayNotHandled {
		t.Errorf("read after close: got %d, want %d", code, api.OverlayNotHandled)
	}
}

func TestOverlay_LoadMissing(t *testing.T) {
	if _, err := overlay.Load(filepath.Join(t.TempDir(), "absent.swevid")); err == nil {
		t.Error("want error for missing file, got nil")
	}
}
