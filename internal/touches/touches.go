// Package touches owns the per-trial touch tables derived from raw sensor
// logs: the file naming convention, the table format, and the final
// renumbering of events that survived filtering.
package touches

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/d-jones99/beam-task/internal/types"
)

// RawSuffix is the filename suffix of raw sensor data files. Everything else
// about a trial's files is derived from the part before it.
const RawSuffix = "_raw.txt"

// Renumber returns a copy of events with 1-based indices assigned in slice
// order, which after filtering is chronological order.
func Renumber(events []types.TouchEvent) []types.TouchEvent {
	out := make([]types.TouchEvent, len(events))
	for i, e := range events {
		e.Index = i + 1
		out[i] = e
	}
	return out
}

// OutputPath maps a raw data file to the touch table written for it:
// <stem>_touches.txt, or <stem>_touches_no_filter.txt when filtering was
// disabled so the unfiltered table never shadows a filtered one.
func OutputPath(rawPath string, filtered bool) string {
	stem := strings.TrimSuffix(rawPath, RawSuffix)
	if filtered {
		return stem + "_touches.txt"
	}
	return stem + "_touches_no_filter.txt"
}

// TablePath returns the filtered touch table path for a subject's trial
// inside dir, e.g. dir/m12_003_touches.txt.
func TablePath(dir, subject string, trial int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%03d_touches.txt", subject, trial))
}

// ParseRawName splits a raw data filename like m12_003_raw.txt into its
// subject and trial number. ok is false when base does not follow the
// convention.
func ParseRawName(base string) (subject string, trial int, ok bool) {
	stem, found := strings.CutSuffix(base, RawSuffix)
	if !found {
		return "", 0, false
	}
	return splitTrial(stem)
}

// ParseTableName is ParseRawName for filtered touch table filenames.
func ParseTableName(base string) (subject string, trial int, ok bool) {
	stem, found := strings.CutSuffix(base, "_touches.txt")
	if !found {
		return "", 0, false
	}
	return splitTrial(stem)
}

// splitTrial separates the trailing _NNN trial number from the subject name.
// Subjects may themselves contain underscores, so only the last segment is
// taken as the trial.
func splitTrial(stem string) (string, int, bool) {
	i := strings.LastIndex(stem, "_")
	if i <= 0 || i == len(stem)-1 {
		return "", 0, false
	}
	trial, err := strconv.Atoi(stem[i+1:])
	if err != nil || trial < 0 {
		return "", 0, false
	}
	return stem[:i], trial, true
}
