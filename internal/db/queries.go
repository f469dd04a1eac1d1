package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/biliinsight-tui/internal/logger"
	"github.com/j-veylop/biliinsight-tui/internal/models"
)

// UpsertWatchEvents stores events for an account. Re-fetched events replace
// the cached copy, so repeated calls with the same events are idempotent.
func (db *DB) UpsertWatchEvents(mid int64, events []models.WatchEvent, fetchedAt time.Time) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO watch_events (
			mid, video_id, business, viewed_at, title, category, author,
			cover, progress, duration, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(mid, video_id, business, viewed_at) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			author = excluded.author,
			cover = excluded.cover,
			progress = excluded.progress,
			duration = excluded.duration,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	stamp := formatTime(fetchedAt)
	for _, e := range events {
		_, err := stmt.ExecContext(ctx,
			mid,
			e.VideoID,
			e.Business,
			e.ViewedAt,
			e.Title,
			nullString(e.Category),
			nullString(e.Author),
			nullString(e.CoverURL),
			e.ProgressSeconds,
			e.DurationSeconds,
			stamp,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert watch event %s: %w", e.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit watch events: %w", err)
	}
	return len(events), nil
}

// GetWatchEventsSince returns the cached events viewed at or after since,
// newest first.
func (db *DB) GetWatchEventsSince(mid int64, since time.Time) ([]models.WatchEvent, error) {
	query := `
		SELECT video_id, business, viewed_at, title, category, author, cover, progress, duration
		FROM watch_events
		WHERE mid = ? AND viewed_at >= ?
		ORDER BY viewed_at DESC, id ASC
	`

	rows, err := db.QueryContext(context.Background(), query, mid, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query watch events: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var events []models.WatchEvent
	for rows.Next() {
		var e models.WatchEvent
		var category, author, cover sql.NullString

		err := rows.Scan(
			&e.VideoID,
			&e.Business,
			&e.ViewedAt,
			&e.Title,
			&category,
			&author,
			&cover,
			&e.ProgressSeconds,
			&e.DurationSeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch event: %w", err)
		}

		e.Category = category.String
		e.Author = author.String
		e.CoverURL = cover.String
		events = append(events, e)
	}

	return events, rows.Err()
}

// CountWatchEvents returns how many events are cached for an account.
func (db *DB) CountWatchEvents(mid int64) (int, error) {
	var n int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM watch_events WHERE mid = ?", mid).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count watch events: %w", err)
	}
	return n, nil
}

// PruneWatchEvents deletes events viewed before the given time.
func (db *DB) PruneWatchEvents(before time.Time) (int64, error) {
	result, err := db.ExecContext(context.Background(),
		"DELETE FROM watch_events WHERE viewed_at < ?", before.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune watch events: %w", err)
	}
	return result.RowsAffected()
}
