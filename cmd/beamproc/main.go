// Package main provides the beamproc command, which converts raw tapered-beam
// sensor logs into touch-event tables and an audit log of deletions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/d-jones99/beam-task/internal/constants"
	"github.com/d-jones99/beam-task/internal/log"
	"github.com/d-jones99/beam-task/internal/processor"
	"github.com/d-jones99/beam-task/internal/storage/sqlite"
	"github.com/d-jones99/beam-task/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "", "Path to a YAML rig configuration file (optional)")
	threshold := flag.Float64("threshold", 0.1, "Delete touches shorter than this duration in seconds, instead of warning about them")
	noFilter := flag.Bool("no-filter", false, "Do not delete any touches; skips the repeated-touch and double-electrode filters")
	dbFile := flag.String("db", "", "Also record processed trials in this SQLite results database")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("beamproc %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// The threshold flag matters by presence, not value: without it short
	// touches are only warned about.
	thresholdSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "threshold" {
			thresholdSet = true
		}
	})
	if thresholdSet && *noFilter {
		log.Errorf("-threshold and -no-filter cannot be combined")
		os.Exit(1)
	}
	if thresholdSet && *threshold > 0.1 {
		fmt.Printf("Warning: threshold option is set at %g s. This may accidentally exclude many foot faults.\n", *threshold)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: beamproc [flags] RAW_FILE_OR_FOLDER")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	opts := processor.Options{
		Threshold:    *threshold,
		ThresholdSet: thresholdSet,
		NoFilter:     *noFilter,
		RunID:        uuid.NewString(),
	}
	if *dbFile != "" {
		store, err := sqlite.Open(*dbFile)
		if err != nil {
			log.Errorf("Failed to open results database: %v", err)
			os.Exit(1)
		}
		defer store.Close()
		opts.Store = store
	}

	batch, err := processor.New(cfg, opts).Run(context.Background(), flag.Arg(0))
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	if total := len(batch.Results) + len(batch.Failed); total > 1 {
		fmt.Printf("\nDone processing %d files.\n", total)
	} else if len(batch.Results) == 1 {
		res := batch.Results[0]
		fmt.Printf("\nProcessed %s with %d MPR121 sensor(s) (%d channels).\n", res.Path, res.Sensors, res.Channels)
	}
	if len(batch.Failed) > 0 {
		os.Exit(1)
	}
}
