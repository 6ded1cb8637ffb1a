package operations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("operations: record not found")

// Repository defines persistence for the mission log.
type Repository interface {
	Get(ctx context.Context, id int64) (*Occurrence, error)
	List(ctx context.Context, req ListOccurrencesRequest) ([]Occurrence, int, error)
	Create(ctx context.Context, o Occurrence) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const occurrenceColumns = `id, type, address, narrative, vehicle_ids, crew_ids, started_at, ended_at, created_by, created_at, updated_at`

func (r *PGRepository) Get(ctx context.Context, id int64) (*Occurrence, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+occurrenceColumns+` FROM occurrences WHERE id = $1`, id)
	o, err := scanOccurrence(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("operations: get: %w", err)
	}
	return o, nil
}

func (r *PGRepository) List(ctx context.Context, req ListOccurrencesRequest) ([]Occurrence, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if req.From != nil {
		conditions = append(conditions, fmt.Sprintf("started_at >= $%d", argPos))
		args = append(args, *req.From)
		argPos++
	}
	if req.To != nil {
		conditions = append(conditions, fmt.Sprintf("started_at < $%d", argPos))
		args = append(args, *req.To)
		argPos++
	}
	if req.Type != nil && *req.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argPos))
		args = append(args, *req.Type)
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM occurrences`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("operations: count: %w", err)
	}

	query := `SELECT ` + occurrenceColumns + ` FROM occurrences` + where + ` ORDER BY started_at DESC`
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, req.Limit, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("operations: list: %w", err)
	}
	defer rows.Close()

	var out []Occurrence
	for rows.Next() {
		o, err := scanOccurrence(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("operations: scan: %w", err)
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}

func (r *PGRepository) Create(ctx context.Context, o Occurrence) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO occurrences (type, address, narrative, vehicle_ids, crew_ids, started_at, ended_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		o.Type, o.Address, o.Narrative, o.VehicleIDs, o.CrewIDs, o.StartedAt, o.EndedAt, o.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("operations: create: %w", err)
	}
	return id, nil
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	var sets []string
	var args []any
	argPos := 1
	for col, val := range updates {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argPos))
		args = append(args, val)
		argPos++
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf("UPDATE occurrences SET %s WHERE id = $%d", strings.Join(sets, ", "), argPos),
		args...)
	if err != nil {
		return fmt.Errorf("operations: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM occurrences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("operations: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanOccurrence(row pgx.Row) (*Occurrence, error) {
	var o Occurrence
	if err := row.Scan(&o.ID, &o.Type, &o.Address, &o.Narrative, &o.VehicleIDs, &o.CrewIDs, &o.StartedAt, &o.EndedAt, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
