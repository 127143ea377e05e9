package vocab

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Repository handles lookup database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new lookup repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLookup(s scanner) (*Lookup, error) {
	l := &Lookup{}
	var explains string
	err := s.Scan(
		&l.ID, &l.Query, &l.Translation, &explains, &l.Phonetic,
		&l.Season, &l.Episode, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if explains != "" {
		if err := json.Unmarshal([]byte(explains), &l.Explains); err != nil {
			return nil, fmt.Errorf("failed to decode explains: %w", err)
		}
	}
	return l, nil
}

const lookupColumns = `id, query, translation, explains, phonetic, season, episode, created_at`

// Create stores a lookup and fills in its ID and CreatedAt.
func (r *Repository) Create(ctx context.Context, l *Lookup) error {
	explains := l.Explains
	if explains == nil {
		explains = []string{}
	}
	encoded, err := json.Marshal(explains)
	if err != nil {
		return fmt.Errorf("failed to encode explains: %w", err)
	}

	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO lookups (query, translation, explains, phonetic, season, episode, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		l.Query, l.Translation, string(encoded), l.Phonetic, l.Season, l.Episode, l.CreatedAt,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("failed to create lookup: %w", err)
	}
	return nil
}

// GetByID retrieves a lookup by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Lookup, error) {
	l, err := scanLookup(r.db.QueryRowContext(ctx,
		`SELECT `+lookupColumns+` FROM lookups WHERE id = $1`, id,
	))
	if err == sql.ErrNoRows {
		return nil, ErrLookupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lookup: %w", err)
	}
	return l, nil
}

// List returns lookups, newest first.
func (r *Repository) List(ctx context.Context, opts ListOptions) ([]*Lookup, error) {
	var where []string
	var args []interface{}
	if opts.Season > 0 {
		args = append(args, opts.Season)
		where = append(where, "season = $"+strconv.Itoa(len(args)))
	}
	if opts.Episode > 0 {
		args = append(args, opts.Episode)
		where = append(where, "episode = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + lookupColumns + ` FROM lookups`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, opts.limit(), opts.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lookups: %w", err)
	}
	defer rows.Close()

	var lookups []*Lookup
	for rows.Next() {
		l, err := scanLookup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lookup: %w", err)
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}

// Delete removes a lookup by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM lookups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lookup: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete lookup: %w", err)
	}
	if n == 0 {
		return ErrLookupNotFound
	}
	return nil
}

// Count returns the number of stored lookups.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lookups`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count lookups: %w", err)
	}
	return n, nil
}

// CountDistinct returns the number of distinct queries, ignoring case.
func (r *Repository) CountDistinct(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT LOWER(query)) FROM lookups`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count queries: %w", err)
	}
	return n, nil
}
