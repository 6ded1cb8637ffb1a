package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("social: record not found")

// Repository defines persistence for post drafts.
type Repository interface {
	Get(ctx context.Context, id int64) (*Post, error)
	List(ctx context.Context, req ListPostsRequest) ([]Post, int, error)
	Create(ctx context.Context, p Post) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const postColumns = `id, title, body, caption, image_url, status, created_by, created_at, updated_at`

func (r *PGRepository) Get(ctx context.Context, id int64) (*Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM social_posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("social: get: %w", err)
	}
	return p, nil
}

func (r *PGRepository) List(ctx context.Context, req ListPostsRequest) ([]Post, int, error) {
	where := ""
	var args []any
	argPos := 1
	if req.Status != nil {
		where = fmt.Sprintf(" WHERE status = $%d", argPos)
		args = append(args, *req.Status)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM social_posts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("social: count: %w", err)
	}

	query := `SELECT ` + postColumns + ` FROM social_posts` + where + ` ORDER BY created_at DESC`
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, req.Limit, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("social: list: %w", err)
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("social: scan: %w", err)
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *PGRepository) Create(ctx context.Context, p Post) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO social_posts (title, body, caption, image_url, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.Title, p.Body, p.Caption, p.ImageURL, p.Status, p.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("social: create: %w", err)
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
		fmt.Sprintf("UPDATE social_posts SET %s WHERE id = $%d", strings.Join(sets, ", "), argPos),
		args...)
	if err != nil {
		return fmt.Errorf("social: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM social_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("social: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &p.Caption, &p.ImageURL, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
