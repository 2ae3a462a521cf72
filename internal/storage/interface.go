// Package storage defines the interface for persisting processed trial
// results to an embedded database.
package storage

import (
	"context"
	"errors"

	"github.com/d-jones99/beam-task/internal/types"
)

// ErrNotFound is returned when a requested trial was never stored.
var ErrNotFound = errors.New("trial not found")

// TrialStore persists processed trials and serves them back for reporting.
// The touch tables and audit log on disk remain the canonical record; a
// store is an additional sink.
type TrialStore interface {
	// SaveTrial appends one processed trial with its surviving touches and
	// deletions. Saving the same day/subject/trial again records a new run;
	// reads return the most recent one.
	SaveTrial(ctx context.Context, rec *types.TrialRecord) error

	// Subjects returns, sorted, the subjects with a filtered trial stored
	// for the given day.
	Subjects(ctx context.Context, day string) ([]string, error)

	// Events returns the surviving touches of the most recent filtered run
	// of a trial in table order, or ErrNotFound.
	Events(ctx context.Context, day, subject string, trial int) ([]types.TouchEvent, error)

	// Close releases the underlying database.
	Close() error
}
