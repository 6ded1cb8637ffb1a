package personnel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("personnel: record not found")
	ErrAlreadyExists = errors.New("personnel: record already exists")
)

// Repository defines persistence for firefighter records.
type Repository interface {
	Get(ctx context.Context, id int64) (*Firefighter, error)
	List(ctx context.Context, req ListFirefightersRequest) ([]Firefighter, int, error)
	ActiveIDs(ctx context.Context) ([]int64, error)
	Create(ctx context.Context, f Firefighter) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const firefighterColumns = `id, name, rank, registration_number, email, phone, is_active, created_at, updated_at`

// Get fetches a single record.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Firefighter, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+firefighterColumns+` FROM firefighters WHERE id = $1`, id)
	f, err := scanFirefighter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("personnel: get: %w", err)
	}
	return f, nil
}

// List returns records matching the filters plus the unfiltered match count.
func (r *PGRepository) List(ctx context.Context, req ListFirefightersRequest) ([]Firefighter, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if req.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *req.IsActive)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name_search LIKE $%d", argPos))
		args = append(args, "%"+Fold(*req.Search)+"%")
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM firefighters`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("personnel: count: %w", err)
	}

	query := `SELECT ` + firefighterColumns + ` FROM firefighters` + where + ` ORDER BY name`
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, req.Limit, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("personnel: list: %w", err)
	}
	defer rows.Close()

	var out []Firefighter
	for rows.Next() {
		f, err := scanFirefighter(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("personnel: scan: %w", err)
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ActiveIDs returns the identifiers of active firefighters, used to
// reconcile roster drafts.
func (r *PGRepository) ActiveIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM firefighters WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("personnel: active ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Create inserts a record and returns its ID.
func (r *PGRepository) Create(ctx context.Context, f Firefighter) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO firefighters (name, name_search, rank, registration_number, email, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		f.Name, Fold(f.Name), f.Rank, f.RegistrationNumber, f.Email, f.Phone, f.IsActive,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrAlreadyExists
		}
		return 0, fmt.Errorf("personnel: create: %w", err)
	}
	return id, nil
}

// Update applies the given column updates.
func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	if name, ok := updates["name"].(string); ok {
		updates["name_search"] = Fold(name)
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
		fmt.Sprintf("UPDATE firefighters SET %s WHERE id = $%d", strings.Join(sets, ", "), argPos),
		args...)
	if err != nil {
		return fmt.Errorf("personnel: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanFirefighter(row pgx.Row) (*Firefighter, error) {
	var f Firefighter
	if err := row.Scan(&f.ID, &f.Name, &f.Rank, &f.RegistrationNumber, &f.Email, &f.Phone, &f.IsActive, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
