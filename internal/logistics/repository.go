package logistics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("logistics: record not found")
	ErrAlreadyExists = errors.New("logistics: record already exists")
)

// Repository defines persistence for the fleet, checklists and purchasing.
type Repository interface {
	GetVehicle(ctx context.Context, id int64) (*Vehicle, error)
	ListVehicles(ctx context.Context) ([]Vehicle, error)
	CreateVehicle(ctx context.Context, v Vehicle) (int64, error)
	UpdateVehicle(ctx context.Context, id int64, updates map[string]any) error

	CreateChecklist(ctx context.Context, c Checklist) (int64, error)
	ListChecklists(ctx context.Context, vehicleID int64, since time.Time) ([]Checklist, error)

	CreatePurchase(ctx context.Context, p PurchaseRequest) (int64, error)
	GetPurchase(ctx context.Context, id int64) (*PurchaseRequest, error)
	ListPurchases(ctx context.Context, status *PurchaseStatus) ([]PurchaseRequest, error)
	UpdatePurchaseStatus(ctx context.Context, id int64, status PurchaseStatus) error
}

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const vehicleColumns = `id, callsign, model, plate, status, created_at, updated_at`

func (r *PGRepository) GetVehicle(ctx context.Context, id int64) (*Vehicle, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("logistics: get vehicle: %w", err)
	}
	return v, nil
}

func (r *PGRepository) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY callsign`)
	if err != nil {
		return nil, fmt.Errorf("logistics: list vehicles: %w", err)
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r *PGRepository) CreateVehicle(ctx context.Context, v Vehicle) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO vehicles (callsign, model, plate, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		v.Callsign, v.Model, v.Plate, v.Status,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrAlreadyExists
		}
		return 0, fmt.Errorf("logistics: create vehicle: %w", err)
	}
	return id, nil
}

func (r *PGRepository) UpdateVehicle(ctx context.Context, id int64, updates map[string]any) error {
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
		fmt.Sprintf("UPDATE vehicles SET %s WHERE id = $%d", strings.Join(sets, ", "), argPos),
		args...)
	if err != nil {
		return fmt.Errorf("logistics: update vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Checklist items are stored as a jsonb column; the shape is owned by this
// package, not the schema.
func (r *PGRepository) CreateChecklist(ctx context.Context, c Checklist) (int64, error) {
	items, err := json.Marshal(c.Items)
	if err != nil {
		return 0, fmt.Errorf("logistics: encode checklist: %w", err)
	}
	var id int64
	err = r.pool.QueryRow(ctx, `
		INSERT INTO vehicle_checklists (vehicle_id, performed_by, items, performed_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id`,
		c.VehicleID, c.PerformedBy, items,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("logistics: create checklist: %w", err)
	}
	return id, nil
}

func (r *PGRepository) ListChecklists(ctx context.Context, vehicleID int64, since time.Time) ([]Checklist, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, vehicle_id, performed_by, items, performed_at
		FROM vehicle_checklists
		WHERE vehicle_id = $1 AND performed_at >= $2
		ORDER BY performed_at DESC`, vehicleID, since)
	if err != nil {
		return nil, fmt.Errorf("logistics: list checklists: %w", err)
	}
	defer rows.Close()

	var out []Checklist
	for rows.Next() {
		var c Checklist
		var items []byte
		if err := rows.Scan(&c.ID, &c.VehicleID, &c.PerformedBy, &items, &c.PerformedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &c.Items); err != nil {
			return nil, fmt.Errorf("logistics: decode checklist %d: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const purchaseColumns = `id, item, quantity, status, requested_by, created_at, updated_at`

func (r *PGRepository) CreatePurchase(ctx context.Context, p PurchaseRequest) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO purchase_requests (item, quantity, status, requested_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		p.Item, p.Quantity, p.Status, p.RequestedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("logistics: create purchase: %w", err)
	}
	return id, nil
}

func (r *PGRepository) GetPurchase(ctx context.Context, id int64) (*PurchaseRequest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchase_requests WHERE id = $1`, id)
	p, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("logistics: get purchase: %w", err)
	}
	return p, nil
}

func (r *PGRepository) ListPurchases(ctx context.Context, status *PurchaseStatus) ([]PurchaseRequest, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_requests`
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("logistics: list purchases: %w", err)
	}
	defer rows.Close()

	var out []PurchaseRequest
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PGRepository) UpdatePurchaseStatus(ctx context.Context, id int64, status PurchaseStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE purchase_requests SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("logistics: update purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanVehicle(row pgx.Row) (*Vehicle, error) {
	var v Vehicle
	if err := row.Scan(&v.ID, &v.Callsign, &v.Model, &v.Plate, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func scanPurchase(row pgx.Row) (*PurchaseRequest, error) {
	var p PurchaseRequest
	if err := row.Scan(&p.ID, &p.Item, &p.Quantity, &p.Status, &p.RequestedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
