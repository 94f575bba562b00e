// Copyright 2025 momentics@gmail.com
// License: Apache 2.0

package control_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/momentics/parabola/control"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parabola.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := control.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := control.DefaultConfig()
	if cfg.Batch != def.Batch || cfg.Tuning != def.Tuning || cfg.EphePath != def.EphePath {
		t.Errorf("got %+v, want defaults %+v", cfg, def)
	}
}

func TestLoadConfig_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
ephe_path: /var/lib/ephe
threads: 6
batch:
  min_slice: 20
  max_slice: 200
tuning:
  max_threads: 32
  workload_steps: 500
  workload_subjects: 10
  improvement_threshold: 0.1
`)
	cfg, err := control.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.EphePath != "/var/lib/ephe" || cfg.Threads != 6 {
		t.Errorf("top level: %+v", cfg)
	}
	if cfg.Batch.MinSlice != 20 || cfg.Batch.MaxSlice != 200 {
		t.Errorf("batch: %+v", cfg.Batch)
	}
	if cfg.Tuning.MaxThreads != 32 || cfg.Tuning.ImprovementThreshold != 0.1 {
		t.Errorf("tuning: %+v", cfg.Tuning)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Tuning.WorkloadSteps != 500 || cfg.OverlayPath != "" {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"negative threads", "threads: -2\n"},
		{"zero min slice", "batch:\n  min_slice: 0\n"},
		{"max below min", "batch:\n  min_slice: 50\n  max_slice: 10\n"},
		{"threshold out of range", "tuning:\n  improvement_threshold: 1.5\n"},
		{"bad yaml", "threads: [\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := control.LoadConfig(writeConfig(t, c.body)); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := control.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("want error for missing file, got nil")
	}
}
