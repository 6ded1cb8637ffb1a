package instruction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("instruction: record not found")

// Repository defines persistence for training materials.
type Repository interface {
	Get(ctx context.Context, id int64) (*Material, error)
	List(ctx context.Context, req ListMaterialsRequest) ([]Material, int, error)
	Create(ctx context.Context, m Material) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const materialColumns = `id, title, category, description, attachment_url, checksum, uploaded_by, created_at, updated_at`

func (r *PGRepository) Get(ctx context.Context, id int64) (*Material, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+materialColumns+` FROM training_materials WHERE id = $1`, id)
	m, err := scanMaterial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("instruction: get: %w", err)
	}
	return m, nil
}

func (r *PGRepository) List(ctx context.Context, req ListMaterialsRequest) ([]Material, int, error) {
	where := ""
	var args []any
	argPos := 1
	if req.Category != nil && *req.Category != "" {
		where = fmt.Sprintf(" WHERE category = $%d", argPos)
		args = append(args, *req.Category)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM training_materials`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("instruction: count: %w", err)
	}

	query := `SELECT ` + materialColumns + ` FROM training_materials` + where + ` ORDER BY category, title`
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, req.Limit, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("instruction: list: %w", err)
	}
	defer rows.Close()

	var out []Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("instruction: scan: %w", err)
		}
		out = append(out, *m)
	}
	return out, total, rows.Err()
}

func (r *PGRepository) Create(ctx context.Context, m Material) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO training_materials (title, category, description, attachment_url, checksum, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		m.Title, m.Category, m.Description, m.AttachmentURL, m.Checksum, m.UploadedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("instruction: create: %w", err)
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
		fmt.Sprintf("UPDATE training_materials SET %s WHERE id = $%d", strings.Join(sets, ", "), argPos),
		args...)
	if err != nil {
		return fmt.Errorf("instruction: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM training_materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("instruction: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMaterial(row pgx.Row) (*Material, error) {
	var m Material
	if err := row.Scan(&m.ID, &m.Title, &m.Category, &m.Description, &m.AttachmentURL, &m.Checksum, &m.UploadedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
