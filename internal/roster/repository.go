package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEntryNotFound indicates no roster entry has been published for a date.
var ErrEntryNotFound = errors.New("roster: entry not found")

// Repository defines persistence for published roster entries.
type Repository interface {
	Upsert(ctx context.Context, entry Entry) error
	Get(ctx context.Context, date time.Time) (*Entry, error)
	List(ctx context.Context, from, to time.Time) ([]Entry, error)
}

// PGRepository implements Repository using PostgreSQL. roster_entries is
// keyed by duty_date; publishing twice for the same date overwrites
// (last-write-wins on the date key).
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Upsert inserts or overwrites the entry for its date.
func (r *PGRepository) Upsert(ctx context.Context, entry Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO roster_entries (duty_date, team_key, team_name, member_ids, published_by, published_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (duty_date) DO UPDATE SET
			team_key = EXCLUDED.team_key,
			team_name = EXCLUDED.team_name,
			member_ids = EXCLUDED.member_ids,
			published_by = EXCLUDED.published_by,
			published_at = NOW()`,
		dateOnly(entry.Date), string(entry.TeamKey), entry.TeamName, entry.MemberIDs, entry.PublishedBy,
	)
	if err != nil {
		return fmt.Errorf("roster: upsert entry: %w", err)
	}
	return nil
}

// Get fetches the published entry for a date.
func (r *PGRepository) Get(ctx context.Context, date time.Time) (*Entry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT duty_date, team_key, team_name, member_ids, published_by, published_at
		FROM roster_entries WHERE duty_date = $1`, dateOnly(date))
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("roster: get entry: %w", err)
	}
	return entry, nil
}

// List returns published entries within [from, to] ordered by date.
func (r *PGRepository) List(ctx context.Context, from, to time.Time) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT duty_date, team_key, team_name, member_ids, published_by, published_at
		FROM roster_entries WHERE duty_date BETWEEN $1 AND $2 ORDER BY duty_date`,
		dateOnly(from), dateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("roster: list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("roster: scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var (
		e       Entry
		teamKey string
	)
	if err := row.Scan(&e.Date, &teamKey, &e.TeamName, &e.MemberIDs, &e.PublishedBy, &e.PublishedAt); err != nil {
		return nil, err
	}
	e.TeamKey = TeamKey(teamKey)
	return &e, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
