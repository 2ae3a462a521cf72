// Package sqlite stores processed trials in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/d-jones99/beam-task/internal/storage"
	"github.com/d-jones99/beam-task/internal/types"
)

// Store is an embedded SQLite results database implementing
// storage.TrialStore.
type Store struct {
	db *sql.DB
}

// Open opens the results database at path, creating it and bringing its
// schema up to date as needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping results database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTrial writes the trial, its touches, and its deletions in one
// transaction.
func (s *Store) SaveTrial(ctx context.Context, rec *types.TrialRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO trials (run_id, day, subject, trial, source_file, processed_at,
		                    sensors, filtered, threshold, total_faults, left_faults,
		                    right_faults, trav_time, time_to_first, dist_to_first)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Day, rec.Subject, rec.Trial, rec.SourceFile, rec.ProcessedAt,
		rec.Sensors, rec.Filtered, rec.Threshold, rec.Stats.TotalFaults,
		rec.Stats.LeftFaults, rec.Stats.RightFaults, rec.Stats.TraversalTime,
		rec.Stats.TimeToFirstFault, rec.Stats.DistToFirstFaultCM)
	if err != nil {
		return fmt.Errorf("failed to insert trial: %w", err)
	}
	trialID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get trial id: %w", err)
	}

	for _, e := range rec.Events {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO touches (trial_id, touch_index, channel, start_time, duration)
			VALUES (?, ?, ?, ?, ?)`,
			trialID, e.Index, e.Channel, e.Start, e.Duration); err != nil {
			return fmt.Errorf("failed to insert touch: %w", err)
		}
	}

	for _, d := range rec.Deletions {
		var paired, threshold any
		switch d.Reason {
		case types.ReasonDoubleElectrode:
			paired = d.PairedChannel
		case types.ReasonShortDuration:
			threshold = d.Threshold
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO deletions (trial_id, reason, channel, start_time, duration,
			                       paired_channel, threshold)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			trialID, string(d.Reason), d.Event.Channel, d.Event.Start, d.Event.Duration,
			paired, threshold); err != nil {
			return fmt.Errorf("failed to insert deletion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trial: %w", err)
	}
	return nil
}

// Subjects returns the subjects with a filtered trial stored for day.
func (s *Store) Subjects(ctx context.Context, day string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT subject FROM trials WHERE day = ? AND filtered = 1 ORDER BY subject`,
		day)
	if err != nil {
		return nil, fmt.Errorf("failed to query subjects: %w", err)
	}
	defer rows.Close()

	var subjects []string
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

// Events returns the touches of the most recent filtered run of a trial.
func (s *Store) Events(ctx context.Context, day, subject string, trial int) ([]types.TouchEvent, error) {
	var trialID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM trials
		WHERE day = ? AND subject = ? AND trial = ? AND filtered = 1
		ORDER BY id DESC LIMIT 1`,
		day, subject, trial).Scan(&trialID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up trial: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT touch_index, channel, start_time, duration
		FROM touches WHERE trial_id = ? ORDER BY touch_index`,
		trialID)
	if err != nil {
		return nil, fmt.Errorf("failed to query touches: %w", err)
	}
	defer rows.Close()

	var events []types.TouchEvent
	for rows.Next() {
		var e types.TouchEvent
		if err := rows.Scan(&e.Index, &e.Channel, &e.Start, &e.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan touch: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
