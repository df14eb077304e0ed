package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nyc-trip-stats/analyzer/internal/stats"
	"github.com/nyc-trip-stats/analyzer/internal/trip"
)

// Run is one archived analysis: the run counters plus the 24 per-hour
// summaries of the emitted report.
type Run struct {
	ID             string
	SourceFile     string
	CreatedAt      string // RFC3339 UTC
	Counts         trip.RecordCounts
	DurationMean   float64 // seconds, over recorded durations
	DurationStdDev float64 // seconds
	Entries        []stats.Entry
}

// SaveRun inserts a run and its hourly stats in one transaction.
func (db *DB) SaveRun(ctx context.Context, run Run) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_runs (run_id, source_file, created_at,
			read_count, matched_count, skipped_count,
			duration_mean_seconds, duration_stddev_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.SourceFile, run.CreatedAt,
		run.Counts.Read, run.Counts.Matched, run.Counts.Skipped,
		run.DurationMean, run.DurationStdDev)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	for _, e := range run.Entries {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO analysis_hourly_stats (run_id, hour_of_day,
				minimum_minutes, median_minutes, p95_minutes)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, e.HourOfDay, e.Minimum, e.Median, e.P95)
		if err != nil {
			return fmt.Errorf("failed to insert hourly stats for %s: %w", run.ID, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns archived runs, newest first, without their hourly
// entries.
func (db *DB) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT run_id, source_file, created_at,
			read_count, matched_count, skipped_count,
			duration_mean_seconds, duration_stddev_seconds
		FROM analysis_runs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SourceFile, &r.CreatedAt,
			&r.Counts.Read, &r.Counts.Matched, &r.Counts.Skipped,
			&r.DurationMean, &r.DurationStdDev); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one archived run with its hourly entries, or nil if
// the id is unknown.
func (db *DB) GetRun(ctx context.Context, id string) (*Run, error) {
	var r Run
	err := db.conn.QueryRowContext(ctx, `
		SELECT run_id, source_file, created_at,
			read_count, matched_count, skipped_count,
			duration_mean_seconds, duration_stddev_seconds
		FROM analysis_runs
		WHERE run_id = ?
	`, id).Scan(&r.ID, &r.SourceFile, &r.CreatedAt,
		&r.Counts.Read, &r.Counts.Matched, &r.Counts.Skipped,
		&r.DurationMean, &r.DurationStdDev)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT hour_of_day, minimum_minutes, median_minutes, p95_minutes
		FROM analysis_hourly_stats
		WHERE run_id = ?
		ORDER BY hour_of_day
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var e stats.Entry
		if err := rows.Scan(&e.HourOfDay, &e.Minimum, &e.Median, &e.P95); err != nil {
			return nil, err
		}
		r.Entries = append(r.Entries, e)
	}
	return &r, rows.Err()
}

// PruneRuns deletes archived runs older than the retention window and
// returns how many were removed. Hourly stats cascade.
func (db *DB) PruneRuns(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays < 1 {
		retentionDays = 1
	}
	query := fmt.Sprintf(
		"DELETE FROM analysis_runs WHERE datetime(created_at) < datetime('now', '-%d days')",
		retentionDays)
	result, err := db.conn.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}
