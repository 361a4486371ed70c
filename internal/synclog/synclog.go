// Package synclog records sync-cycle outcomes in a small sqlite
// database so degraded behavior (fetch failures, classification
// misses, defaulted dates) stays visible.
package synclog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // pure Go sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS sync_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	accounts_seen INTEGER NOT NULL,
	refreshed INTEGER NOT NULL,
	fetch_failures INTEGER NOT NULL,
	classification_misses INTEGER NOT NULL,
	estimated_dates INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT ''
)`

// Record is one sync cycle's outcome.
type Record struct {
	StartedAt            time.Time
	Duration             time.Duration
	AccountsSeen         int
	Refreshed            int
	FetchFailures        int
	ClassificationMisses int
	EstimatedDates       int
	Error                string // empty for successful cycles
}

// Log is the sqlite-backed sync-run log.
type Log struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (and if needed creates) the sync-run database.
func Open(path string, log zerolog.Logger) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sync log: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sync_runs table: %w", err)
	}
	return &Log{db: db, log: log.With().Str("component", "synclog").Logger()}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Append stores one cycle record.
func (l *Log) Append(rec Record) error {
	_, err := l.db.Exec(`
		INSERT INTO sync_runs
			(started_at, duration_ms, accounts_seen, refreshed, fetch_failures, classification_misses, estimated_dates, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(time.RFC3339),
		rec.Duration.Milliseconds(),
		rec.AccountsSeen,
		rec.Refreshed,
		rec.FetchFailures,
		rec.ClassificationMisses,
		rec.EstimatedDates,
		rec.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting sync run: %w", err)
	}
	return nil
}

// Recent returns up to n most recent records, newest first.
func (l *Log) Recent(n int) ([]Record, error) {
	rows, err := l.db.Query(`
		SELECT started_at, duration_ms, accounts_seen, refreshed, fetch_failures, classification_misses, estimated_dates, error
		FROM sync_runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var startedAt string
		var durationMS int64
		if err := rows.Scan(&startedAt, &durationMS, &rec.AccountsSeen, &rec.Refreshed,
			&rec.FetchFailures, &rec.ClassificationMisses, &rec.EstimatedDates, &rec.Error); err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		ts, err := time.Parse(time.RFC3339, startedAt)
		if err != nil {
			l.log.Warn().Str("started_at", startedAt).Msg("unparseable run timestamp")
		} else {
			rec.StartedAt = ts
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}
