package db

import (
	"context"
	"fmt"

	"github.com/j-veylop/biliinsight-tui/internal/logger"
)

// columnMigration adds a column that older cache files were created without.
type columnMigration struct {
	table      string
	column     string
	definition string
}

var columnMigrations = []columnMigration{
	{table: "watch_events", column: "cover", definition: "TEXT"},
}

// migrate brings an existing cache file up to the current schema.
func (db *DB) migrate() error {
	for _, m := range columnMigrations {
		exists, err := db.hasColumn(m.table, m.column)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.table, m.column, m.definition)
		if _, err := db.ExecContext(context.Background(), query); err != nil {
			return fmt.Errorf("failed to add column %s.%s: %w", m.table, m.column, err)
		}
		logger.Info("migrated cache schema", "table", m.table, "column", m.column)
	}

	return nil
}

func (db *DB) hasColumn(table, column string) (bool, error) {
	rows, err := db.QueryContext(context.Background(), fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, fmt.Errorf("failed to scan table info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
