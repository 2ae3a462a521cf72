package sqlite

import (
	"database/sql"
	"fmt"
)

// migration is one versioned schema step. The results database only ever
// moves forward; nothing here is rolled back in place.
type migration struct {
	version int
	name    string
	up      string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create trials",
		up: `
CREATE TABLE trials (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	day           TEXT NOT NULL,
	subject       TEXT NOT NULL,
	trial         INTEGER NOT NULL,
	source_file   TEXT NOT NULL,
	processed_at  TIMESTAMP NOT NULL,
	sensors       INTEGER NOT NULL,
	filtered      INTEGER NOT NULL,
	threshold     REAL,
	total_faults  INTEGER NOT NULL,
	left_faults   INTEGER NOT NULL,
	right_faults  INTEGER NOT NULL,
	trav_time     REAL,
	time_to_first REAL,
	dist_to_first INTEGER
);
CREATE INDEX idx_trials_key ON trials(day, subject, trial);`,
	},
	{
		version: 2,
		name:    "create touches and deletions",
		up: `
CREATE TABLE touches (
	trial_id    INTEGER NOT NULL REFERENCES trials(id) ON DELETE CASCADE,
	touch_index INTEGER NOT NULL,
	channel     INTEGER NOT NULL,
	start_time  REAL NOT NULL,
	duration    REAL NOT NULL
);
CREATE INDEX idx_touches_trial ON touches(trial_id);

CREATE TABLE deletions (
	trial_id       INTEGER NOT NULL REFERENCES trials(id) ON DELETE CASCADE,
	reason         TEXT NOT NULL,
	channel        INTEGER NOT NULL,
	start_time     REAL NOT NULL,
	duration       REAL NOT NULL,
	paired_channel INTEGER,
	threshold      REAL
);
CREATE INDEX idx_deletions_trial ON deletions(trial_id);`,
	},
}

// migrate brings the schema up to date, applying each pending migration in
// its own transaction.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := apply(db, m); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

func apply(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.up); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
		m.version, m.name); err != nil {
		return err
	}
	return tx.Commit()
}
