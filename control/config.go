// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Typed runtime configuration with YAML file loading, defaults, and
// validation. Pool size is never mutated through this struct at runtime;
// only explicit Resize/Autotune calls change the live pool.

package control

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds parameters immutable per run.
type Config struct {
	// EphePath is the engine's data directory, passed to Engine.Configure.
	EphePath string `yaml:"ephe_path"`

	// OverlayPath optionally names a memory-mapped .swevid file that
	// intercepts the engine's file reads.
	OverlayPath string `yaml:"overlay_path"`

	// Threads is the initial pool size; 0 selects hardware parallelism.
	Threads int `yaml:"threads"`

	// PinCPU pins worker threads to cores (Linux only).
	PinCPU bool `yaml:"pin_cpu"`

	Batch  BatchConfig  `yaml:"batch"`
	Tuning TuningConfig `yaml:"tuning"`
}

// BatchConfig bounds the splitter's slice size.
type BatchConfig struct {
	MinSlice int `yaml:"min_slice"`
	MaxSlice int `yaml:"max_slice"`
}

// TuningConfig parameterizes the autotuner.
type TuningConfig struct {
	// MaxThreads caps probing; 0 selects 2x hardware parallelism.
	MaxThreads int `yaml:"max_threads"`

	// WorkloadSteps and WorkloadSubjects shape the synthetic workload:
	// one request per subject per simulated time step.
	WorkloadSteps    int `yaml:"workload_steps"`
	WorkloadSubjects int `yaml:"workload_subjects"`

	// ImprovementThreshold is the relative throughput gain a candidate must
	// show to displace the current best (noise rejection).
	ImprovementThreshold float64 `yaml:"improvement_threshold"`
}

// DefaultConfig returns sane defaults supporting typical use without tuning.
func DefaultConfig() *Config {
	return &Config{
		EphePath: "./ephe",
		Threads:  0, // hardware parallelism
		PinCPU:   false,
		Batch: BatchConfig{
			MinSlice: 10,
			MaxSlice: 100,
		},
		Tuning: TuningConfig{
			MaxThreads:           0, // 2x hardware parallelism
			WorkloadSteps:        1000,
			WorkloadSubjects:     10,
			ImprovementThreshold: 0.05,
		},
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the executor cannot honor.
func (c *Config) Validate() error {
	if c.Threads < 0 {
		return fmt.Errorf("threads must be >= 0, got %d", c.Threads)
	}
	if c.Batch.MinSlice < 1 {
		return fmt.Errorf("batch.min_slice must be >= 1, got %d", c.Batch.MinSlice)
	}
	if c.Batch.MaxSlice < c.Batch.MinSlice {
		return fmt.Errorf("batch.max_slice (%d) must be >= batch.min_slice (%d)",
			c.Batch.MaxSlice, c.Batch.MinSlice)
	}
	if c.Tuning.MaxThreads < 0 {
		return fmt.Errorf("tuning.max_threads must be >= 0, got %d", c.Tuning.MaxThreads)
	}
	if c.Tuning.WorkloadSteps < 1 || c.Tuning.WorkloadSubjects < 1 {
		return fmt.Errorf("tuning workload must have at least one step and one subject")
	}
	if c.Tuning.ImprovementThreshold < 0 || c.Tuning.ImprovementThreshold >= 1 {
		return fmt.Errorf("tuning.improvement_threshold must be in [0, 1), got %g",
			c.Tuning.ImprovementThreshold)
	}
	return nil
}
