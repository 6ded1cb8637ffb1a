package notices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("notices: record not found")

// Repository defines persistence for notices and acknowledgements.
type Repository interface {
	Get(ctx context.Context, id int64) (*Notice, error)
	List(ctx context.Context, req ListNoticesRequest) ([]Notice, int, error)
	Create(ctx context.Context, n Notice) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	Acknowledge(ctx context.Context, noticeID, userID int64) error
	PendingFor(ctx context.Context, userID int64) ([]Notice, error)
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const noticeColumns = `id, title, body, pinned, expires_at, author_id, created_at, updated_at`

func (r *PGRepository) Get(ctx context.Context, id int64) (*Notice, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+noticeColumns+` FROM notices WHERE id = $1`, id)
	n, err := scanNotice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("notices: get: %w", err)
	}
	return n, nil
}

func (r *PGRepository) List(ctx context.Context, req ListNoticesRequest) ([]Notice, int, error) {
	where := ""
	if !req.IncludeExpired {
		where = " WHERE expires_at IS NULL OR expires_at > NOW()"
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notices`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("notices: count: %w", err)
	}

	query := `SELECT ` + noticeColumns + ` FROM notices` + where + ` ORDER BY pinned DESC, created_at DESC`
	var args []any
	if req.Limit > 0 {
		query += " LIMIT $1 OFFSET $2"
		args = append(args, req.Limit, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("notices: list: %w", err)
	}
	defer rows.Close()

	var out []Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("notices: scan: %w", err)
		}
		out = append(out, *n)
	}
	return out, total, rows.Err()
}

func (r *PGRepository) Create(ctx context.Context, n Notice) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notices (title, body, pinned, expires_at, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		n.Title, n.Body, n.Pinned, n.ExpiresAt, n.AuthorID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("notices: create: %w", err)
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
		fmt.Sprintf("UPDATE notices SET %s WHERE id = $%d", strings.Join(sets, ", "), argPos),
		args...)
	if err != nil {
		return fmt.Errorf("notices: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("notices: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Acknowledge is idempotent: acking twice keeps the first timestamp.
func (r *PGRepository) Acknowledge(ctx context.Context, noticeID, userID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notice_acks (notice_id, user_id, acked_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (notice_id, user_id) DO NOTHING`,
		noticeID, userID)
	if err != nil {
		return fmt.Errorf("notices: acknowledge: %w", err)
	}
	return nil
}

// PendingFor returns unexpired notices the user has not acknowledged yet.
func (r *PGRepository) PendingFor(ctx context.Context, userID int64) ([]Notice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+noticeColumns+`
		FROM notices n
		WHERE (n.expires_at IS NULL OR n.expires_at > NOW())
		  AND NOT EXISTS (
			SELECT 1 FROM notice_acks a WHERE a.notice_id = n.id AND a.user_id = $1
		  )
		ORDER BY n.pinned DESC, n.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("notices: pending: %w", err)
	}
	defer rows.Close()

	var out []Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func scanNotice(row pgx.Row) (*Notice, error) {
	var n Notice
	if err := row.Scan(&n.ID, &n.Title, &n.Body, &n.Pinned, &n.ExpiresAt, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}
