// Package processor drives the per-file pipeline: decode a raw sensor log,
// extract touch events, apply the touch filters, and write the touch table
// and audit log entries, with an optional results-database sink.
package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/d-jones99/beam-task/internal/auditlog"
	"github.com/d-jones99/beam-task/internal/decoder"
	"github.com/d-jones99/beam-task/internal/extractor"
	"github.com/d-jones99/beam-task/internal/filters"
	"github.com/d-jones99/beam-task/internal/log"
	"github.com/d-jones99/beam-task/internal/storage"
	"github.com/d-jones99/beam-task/internal/summary"
	"github.com/d-jones99/beam-task/internal/touches"
	"github.com/d-jones99/beam-task/internal/types"
	"github.com/d-jones99/beam-task/pkg/config"
)

var (
	// ErrInputNotFound means the input argument names neither a raw data
	// file nor a folder.
	ErrInputNotFound = errors.New("input file or folder does not exist")

	// ErrNoRawFiles means the input folder holds no *_raw.txt files.
	ErrNoRawFiles = errors.New("no *_raw.txt files found in input folder")
)

// Options selects the run-wide processing behavior.
type Options struct {
	// Threshold is the short-touch duration limit in seconds; it only takes
	// effect (deleting instead of warning) when ThresholdSet is true.
	Threshold    float64
	ThresholdSet bool

	// NoFilter disables the repeated-touch and double-electrode filters and
	// the short-touch deletion, keeping every extracted touch.
	NoFilter bool

	// RunID tags the trials recorded by this run in the results database.
	RunID string

	// Store, when non-nil, receives every processed trial.
	Store storage.TrialStore
}

// FileResult describes one successfully processed raw data file.
type FileResult struct {
	Path     string
	Sensors  int
	Channels int
	Events   int
	Deleted  int
}

// BatchResult collects the outcome of a processing run.
type BatchResult struct {
	Results []FileResult
	Failed  []string
}

// Processor converts raw sensor logs into touch tables.
type Processor struct {
	cfg  *config.Config
	opts Options
}

// New returns a Processor for the given rig configuration and options.
func New(cfg *config.Config, opts Options) *Processor {
	return &Processor{cfg: cfg, opts: opts}
}

// DiscoverInputs resolves the input argument into the raw data files to
// process: either a single *_raw.txt file, or every such file in a folder,
// alphabetically.
func DiscoverInputs(input string) ([]string, error) {
	info, err := os.Stat(input)
	switch {
	case err == nil && !info.IsDir() && strings.HasSuffix(input, touches.RawSuffix):
		return []string{input}, nil
	case err == nil && info.IsDir():
		matches, err := filepath.Glob(filepath.Join(input, "*"+touches.RawSuffix))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, ErrNoRawFiles
		}
		sort.Strings(matches)
		return matches, nil
	default:
		return nil, ErrInputNotFound
	}
}

// Run processes every raw data file named by input. A file that fails is
// reported and skipped; the rest of the batch still runs. The audit log is
// shared by the whole batch and lives in the input folder.
func (p *Processor) Run(ctx context.Context, input string) (*BatchResult, error) {
	files, err := DiscoverInputs(input)
	if err != nil {
		return nil, err
	}

	audit := auditlog.New(filepath.Join(filepath.Dir(files[0]), auditlog.FileName))

	batch := &BatchResult{}
	for _, path := range files {
		res, err := p.ProcessFile(ctx, path, audit)
		if err != nil {
			log.Errorf("Error processing %v: %v", filepath.Base(path), err)
			batch.Failed = append(batch.Failed, path)
			continue
		}
		batch.Results = append(batch.Results, *res)
	}
	return batch, nil
}

// ProcessFile runs the pipeline for a single raw data file and writes its
// touch table next to it.
func (p *Processor) ProcessFile(ctx context.Context, path string, audit *auditlog.Logger) (*FileResult, error) {
	dec, err := decoder.ReadFile(path)
	if err != nil {
		return nil, err
	}

	res, err := extractor.Extract(dec.Samples, extractor.Params{
		StartChannel:      p.cfg.Rig.StartChannel,
		FinishChannel:     p.cfg.Rig.FinishChannel,
		DurationThreshold: p.threshold(),
		ThresholdSet:      p.opts.ThresholdSet,
	})
	if err != nil {
		return nil, err
	}

	base := filepath.Base(path)
	for _, w := range res.Warnings {
		if err := audit.Warning(base, w); err != nil {
			return nil, err
		}
	}
	deletions := res.Deletions
	for _, d := range deletions {
		if err := audit.Deletion(base, d); err != nil {
			return nil, err
		}
	}

	events := res.Events
	if !p.opts.NoFilter {
		fp := filters.Params{
			StartChannel:   p.cfg.Rig.StartChannel,
			FinishChannel:  p.cfg.Rig.FinishChannel,
			RepeatedWindow: p.cfg.Filters.RepeatedTouchWindow,
		}

		var removed []types.Deletion
		events, removed = filters.RepeatedTouches(events, fp)
		for _, d := range removed {
			if err := audit.Deletion(base, d); err != nil {
				return nil, err
			}
		}
		deletions = append(deletions, removed...)

		events, removed = filters.DoubleElectrode(events, fp)
		for _, d := range removed {
			if err := audit.Deletion(base, d); err != nil {
				return nil, err
			}
		}
		deletions = append(deletions, removed...)
	}

	events = touches.Renumber(events)
	outPath := touches.OutputPath(path, !p.opts.NoFilter)
	if err := touches.WriteFile(outPath, events); err != nil {
		return nil, err
	}
	log.Debugf("wrote %d touches to %v (%d deleted)", len(events), outPath, len(deletions))

	if p.opts.Store != nil {
		if err := p.saveTrial(ctx, path, dec, events, deletions); err != nil {
			return nil, err
		}
	}

	return &FileResult{
		Path:     path,
		Sensors:  dec.Sensors,
		Channels: dec.Channels,
		Events:   len(events),
		Deleted:  len(deletions),
	}, nil
}

// threshold is the effective short-touch limit: the configured one when set,
// otherwise the warn-only default.
func (p *Processor) threshold() float64 {
	if p.opts.ThresholdSet {
		return p.opts.Threshold
	}
	return extractor.DefaultParams().DurationThreshold
}

func (p *Processor) saveTrial(ctx context.Context, path string, dec *decoder.Result, events []types.TouchEvent, deletions []types.Deletion) error {
	base := filepath.Base(path)
	subject, trial, ok := touches.ParseRawName(base)
	if !ok {
		log.Warnf("not recording %v: filename does not follow subject_NNN%v", base, touches.RawSuffix)
		return nil
	}

	stats, _ := summary.Compute(events, summary.Params{
		StartChannel:     p.cfg.Rig.StartChannel,
		FinishChannel:    p.cfg.Rig.FinishChannel,
		BeamLengthCM:     p.cfg.Rig.BeamLengthCM,
		ElectrodePitchCM: p.cfg.Rig.ElectrodePitchCM,
	})

	var threshold *float64
	if p.opts.ThresholdSet {
		t := p.opts.Threshold
		threshold = &t
	}

	rec := &types.TrialRecord{
		RunID:       p.opts.RunID,
		Day:         filepath.Base(filepath.Dir(path)),
		Subject:     subject,
		Trial:       trial,
		SourceFile:  path,
		ProcessedAt: time.Now(),
		Sensors:     dec.Sensors,
		Filtered:    !p.opts.NoFilter,
		Threshold:   threshold,
		Events:      events,
		Deletions:   deletions,
		Stats:       stats,
	}
	if err := p.opts.Store.SaveTrial(ctx, rec); err != nil {
		return fmt.Errorf("error recording trial in results database: %v", err)
	}
	return nil
}
