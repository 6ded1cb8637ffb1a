package compliance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("compliance: record not found")

// Repository defines persistence for inspection records.
type Repository interface {
	Get(ctx context.Context, id int64) (*Inspection, error)
	List(ctx context.Context, req ListInspectionsRequest) ([]Inspection, int, error)
	Create(ctx context.Context, i Inspection) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const inspectionColumns = `id, property_name, address, status, scheduled_for, inspector_id, notes, created_by, created_at, updated_at`

func (r *PGRepository) Get(ctx context.Context, id int64) (*Inspection, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+inspectionColumns+` FROM inspections WHERE id = $1`, id)
	i, err := scanInspection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("compliance: get: %w", err)
	}
	return i, nil
}

func (r *PGRepository) List(ctx context.Context, req ListInspectionsRequest) ([]Inspection, int, error) {
	where := ""
	var args []any
	argPos := 1
	if req.Status != nil {
		where = fmt.Sprintf(" WHERE status = $%d", argPos)
		args = append(args, *req.Status)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inspections`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("compliance: count: %w", err)
	}

	query := `SELECT ` + inspectionColumns + ` FROM inspections` + where + ` ORDER BY created_at DESC`
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, req.Limit, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("compliance: list: %w", err)
	}
	defer rows.Close()

	var out []Inspection
	for rows.Next() {
		i, err := scanInspection(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("compliance: scan: %w", err)
		}
		out = append(out, *i)
	}
	return out, total, rows.Err()
}

func (r *PGRepository) Create(ctx context.Context, i Inspection) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO inspections (property_name, address, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		i.PropertyName, i.Address, i.Status, i.Notes, i.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("compliance: create: %w", err)
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
		fmt.Sprintf("UPDATE inspections SET %s WHERE id = $%d", strings.Join(sets, ", "), argPos),
		args...)
	if err != nil {
		return fmt.Errorf("compliance: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanInspection(row pgx.Row) (*Inspection, error) {
	var i Inspection
	if err := row.Scan(&i.ID, &i.PropertyName, &i.Address, &i.Status, &i.ScheduledFor, &i.InspectorID, &i.Notes, &i.CreatedBy, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}
