package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that the requested profile does not exist.
var ErrNotFound = errors.New("access: profile not found")

// Repository defines persistence operations for permission profiles.
type Repository interface {
	Get(ctx context.Context, userID int64) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	Upsert(ctx context.Context, profile Profile) error
}

// PGRepository implements Repository using PostgreSQL. Profiles are stored
// with one explicit column per module so every level has a schema-enforced
// default of 'none'.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const profileColumns = `user_id, manager, notices, operations, compliance, personnel, instruction, logistics, social, updated_at`

// Get fetches a single profile.
func (r *PGRepository) Get(ctx context.Context, userID int64) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM access_profiles WHERE user_id = $1`, userID)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("access: get profile: %w", err)
	}
	return profile, nil
}

// List returns every profile ordered by user ID.
func (r *PGRepository) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM access_profiles ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("access: list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("access: scan profile: %w", err)
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Upsert writes the full profile row, creating it when absent.
func (r *PGRepository) Upsert(ctx context.Context, profile Profile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO access_profiles (user_id, manager, notices, operations, compliance, personnel, instruction, logistics, social, schema_version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			manager = EXCLUDED.manager,
			notices = EXCLUDED.notices,
			operations = EXCLUDED.operations,
			compliance = EXCLUDED.compliance,
			personnel = EXCLUDED.personnel,
			instruction = EXCLUDED.instruction,
			logistics = EXCLUDED.logistics,
			social = EXCLUDED.social,
			schema_version = EXCLUDED.schema_version,
			updated_at = NOW()`,
		profile.UserID,
		profile.Manager,
		string(profile.Level(ModuleNotices)),
		string(profile.Level(ModuleOperations)),
		string(profile.Level(ModuleCompliance)),
		string(profile.Level(ModulePersonnel)),
		string(profile.Level(ModuleInstruction)),
		string(profile.Level(ModuleLogistics)),
		string(profile.Level(ModuleSocial)),
		ProfileSchemaVersion,
	)
	if err != nil {
		return fmt.Errorf("access: upsert profile: %w", err)
	}
	return nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var (
		p      Profile
		levels [7]string
	)
	if err := row.Scan(&p.UserID, &p.Manager, &levels[0], &levels[1], &levels[2], &levels[3], &levels[4], &levels[5], &levels[6], &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Levels = map[Module]Level{
		ModuleNotices:     ParseLevel(levels[0]),
		ModuleOperations:  ParseLevel(levels[1]),
		ModuleCompliance:  ParseLevel(levels[2]),
		ModulePersonnel:   ParseLevel(levels[3]),
		ModuleInstruction: ParseLevel(levels[4]),
		ModuleLogistics:   ParseLevel(levels[5]),
		ModuleSocial:      ParseLevel(levels[6]),
	}
	return &p, nil
}
