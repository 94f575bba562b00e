// File: cmd/parabola/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package main is the standalone tuning executable for the parabola
// executor. It drives the full pipeline with the simulation engine, so the
// printed thread count reflects scheduling behavior on the host machine
// rather than any particular ephemeris data set.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/momentics/parabola/control"
	"github.com/momentics/parabola/engine/synthetic"
	"github.com/momentics/parabola/facade"
)

var version = "dev"

func main() {
	var (
		tune        = flag.Bool("tune", false, "run thread autotuning and print the optimal count")
		showVersion = flag.Bool("version", false, "print version and exit")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `parabola - parallel ephemeris batch executor

Usage:
  parabola --tune [ephePath] [configPath]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Autotune with the default data path
  parabola --tune

  # Autotune against a specific data directory and config file
  parabola --tune ./ephe parabola.yaml
`)
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("parabola %s\n", version)
		return
	}
	if !*tune {
		flag.Usage()
		os.Exit(1)
	}

	if err := runTune(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "parabola: %v\n", err)
		os.Exit(1)
	}
}

// runTune initializes the engine, runs the autotuner, and prints the
// selected thread count. args is [ephePath [configPath]].
func runTune(args []string) error {
	cfg := control.DefaultConfig()
	if len(args) > 1 {
		loaded, err := control.LoadConfig(args[1])
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.EphePath = args[0]
	}

	p, err := facade.New(synthetic.New(), cfg)
	if err != nil {
		return err
	}
	defer p.Shutdown()

	if err := p.Init(); err != nil {
		return err
	}
	if cfg.OverlayPath != "" {
		if err := p.LoadOverlay(cfg.OverlayPath); err != nil {
			return err
		}
	}

	best, err := p.Autotune()
	if err != nil {
		return err
	}
	fmt.Printf("Optimal thread count: %d\n", best)
	return nil
}
