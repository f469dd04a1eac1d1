package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/j-veylop/biliinsight-tui/internal/models"
)

// InsertFetchRun records a finished fetch. An empty ID is filled with a new UUID.
func (db *DB) InsertFetchRun(run *models.FetchRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	query := `
		INSERT INTO fetch_runs (id, mid, started_at, finished_at, status, pages, events, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var finished sql.NullString
	if !run.FinishedAt.IsZero() {
		finished = sql.NullString{String: formatTime(run.FinishedAt), Valid: true}
	}

	_, err := db.ExecContext(context.Background(), query,
		run.ID,
		run.MID,
		formatTime(run.StartedAt),
		finished,
		run.Status.String(),
		run.Pages,
		run.Events,
		nullString(run.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fetch run: %w", err)
	}
	return nil
}

// GetLastFetchRun returns the most recent run for an account, or nil.
func (db *DB) GetLastFetchRun(mid int64) (*models.FetchRun, error) {
	runs, err := db.GetRecentFetchRuns(mid, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// GetRecentFetchRuns returns up to limit runs for an account, newest first.
func (db *DB) GetRecentFetchRuns(mid int64, limit int) ([]models.FetchRun, error) {
	query := `
		SELECT id, mid, started_at, finished_at, status, pages, events, error
		FROM fetch_runs
		WHERE mid = ?
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, mid, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []models.FetchRun
	for rows.Next() {
		run, err := scanFetchRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFetchRun(row rowScanner) (models.FetchRun, error) {
	var run models.FetchRun
	var started, status string
	var finished, errStr sql.NullString

	if err := row.Scan(&run.ID, &run.MID, &started, &finished, &status, &run.Pages, &run.Events, &errStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("failed to scan fetch run: %w", err)
	}

	run.StartedAt, _ = parseTimeString(started)
	if finished.Valid {
		run.FinishedAt, _ = parseTimeString(finished.String)
	}
	run.Status = models.ParseFetchStatus(status)
	run.Error = errStr.String
	return run, nil
}
