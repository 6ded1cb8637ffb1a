package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("analysis: record not found")

// Repository defines persistence for document analyses.
type Repository interface {
	Get(ctx context.Context, id int64) (*Analysis, error)
	List(ctx context.Context, req ListAnalysesRequest) ([]Analysis, int, error)
	Create(ctx context.Context, a Analysis) (int64, error)
	MarkRunning(ctx context.Context, id int64) error
	MarkDone(ctx context.Context, id int64, result string) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const analysisColumns = `id, title, document_text, questions, status, result, error, requested_by, created_at, completed_at`

func (r *PGRepository) Get(ctx context.Context, id int64) (*Analysis, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+analysisColumns+` FROM document_analyses WHERE id = $1`, id)
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("analysis: get: %w", err)
	}
	return a, nil
}

func (r *PGRepository) List(ctx context.Context, req ListAnalysesRequest) ([]Analysis, int, error) {
	where := ""
	var args []any
	argPos := 1
	if req.Status != nil {
		where = fmt.Sprintf(" WHERE status = $%d", argPos)
		args = append(args, *req.Status)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM document_analyses`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("analysis: count: %w", err)
	}

	query := `SELECT ` + analysisColumns + ` FROM document_analyses` + where + ` ORDER BY created_at DESC`
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, req.Limit, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("analysis: list: %w", err)
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("analysis: scan: %w", err)
		}
		out = append(out, *a)
	}
	return out, total, rows.Err()
}

func (r *PGRepository) Create(ctx context.Context, a Analysis) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO document_analyses (title, document_text, questions, status, requested_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		a.Title, a.DocumentText, a.Questions, a.Status, a.RequestedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("analysis: create: %w", err)
	}
	return id, nil
}

// MarkRunning only moves a queued analysis, so a retried task cannot clobber
// a finished row.
func (r *PGRepository) MarkRunning(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE document_analyses SET status = $1 WHERE id = $2 AND status = $3`,
		StatusRunning, id, StatusQueued)
	if err != nil {
		return fmt.Errorf("analysis: mark running: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) MarkDone(ctx context.Context, id int64, result string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE document_analyses SET status = $1, result = $2, error = '', completed_at = NOW() WHERE id = $3`,
		StatusDone, result, id)
	if err != nil {
		return fmt.Errorf("analysis: mark done: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE document_analyses SET status = $1, error = $2, completed_at = NOW() WHERE id = $3`,
		StatusFailed, errMsg, id)
	if err != nil {
		return fmt.Errorf("analysis: mark failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAnalysis(row pgx.Row) (*Analysis, error) {
	var a Analysis
	if err := row.Scan(&a.ID, &a.Title, &a.DocumentText, &a.Questions, &a.Status, &a.Result, &a.Error, &a.RequestedBy, &a.CreatedAt, &a.CompletedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
