package vocab

import (
	"context"
	"fmt"
	"time"
)

// Copy replaces every lookup in dst with the lookups in src, preserving IDs,
// inside one transaction on dst. It returns the number of rows copied.
func Copy(ctx context.Context, src, dst *DB) (int64, error) {
	tx, err := dst.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Clear the target for idempotent re-runs
	if _, err := tx.ExecContext(ctx, `DELETE FROM lookups`); err != nil {
		return 0, fmt.Errorf("failed to clear lookups: %w", err)
	}

	rows, err := src.QueryContext(ctx, `SELECT `+lookupColumns+` FROM lookups ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("failed to read lookups: %w", err)
	}
	defer rows.Close()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO lookups (`+lookupColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var count int64
	for rows.Next() {
		var (
			id                           int64
			query, translation, explains string
			phonetic                     string
			season, episode              int
			createdAt                    time.Time
		)
		if err := rows.Scan(&id, &query, &translation, &explains, &phonetic, &season, &episode, &createdAt); err != nil {
			return 0, fmt.Errorf("failed to scan lookup: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, id, query, translation, explains, phonetic, season, episode, createdAt); err != nil {
			return 0, fmt.Errorf("failed to insert lookup %d: %w", id, err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if dst.driver == DriverPostgres {
		_, err := tx.ExecContext(ctx,
			`SELECT setval('lookups_id_seq', COALESCE((SELECT MAX(id) FROM lookups), 1), (SELECT COUNT(*) > 0 FROM lookups))`)
		if err != nil {
			return 0, fmt.Errorf("failed to reset sequence: %w", err)
		}
	}

	var copied int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM lookups`).Scan(&copied); err != nil {
		return 0, fmt.Errorf("failed to verify row count: %w", err)
	}
	if copied != count {
		return 0, fmt.Errorf("row count mismatch: read %d, wrote %d", count, copied)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return count, nil
}
