package profileinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/textx"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const profileColumns = `
	id, email, name, role, is_admin,
	assigned_states, assigned_cities, assigned_departments,
	password_hash, active, created_at, updated_at`

// PostgresProfileRepository implementación de PostgreSQL para profile.Repository
type PostgresProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresProfileRepository(db *sqlx.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

var _ profile.Repository = (*PostgresProfileRepository)(nil)

func (r *PostgresProfileRepository) FindByID(ctx context.Context, id kernel.UserID) (*profile.Profile, error) {
	var p profile.Profile
	err := r.db.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profile.ErrProfileNotFound().WithDetail("user_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find profile by id", errx.TypeInternal).
			WithDetail("user_id", id.String())
	}
	return &p, nil
}

// FindByEmail compara el email normalizado
func (r *PostgresProfileRepository) FindByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	var p profile.Profile
	err := r.db.GetContext(ctx, &p,
		`SELECT `+profileColumns+` FROM profiles WHERE lower(trim(email)) = $1`,
		textx.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profile.ErrProfileNotFound().WithDetail("email", email)
		}
		return nil, errx.Wrap(err, "failed to find profile by email", errx.TypeInternal).
			WithDetail("email", email)
	}
	return &p, nil
}

func (r *PostgresProfileRepository) List(ctx context.Context) ([]*profile.Profile, error) {
	var rows []profile.Profile
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+profileColumns+` FROM profiles ORDER BY name ASC`); err != nil {
		return nil, errx.Wrap(err, "failed to list profiles", errx.TypeInternal)
	}

	result := make([]*profile.Profile, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

// Save inserta o actualiza el perfil
func (r *PostgresProfileRepository) Save(ctx context.Context, p profile.Profile) error {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES (
			:id, :email, :name, :role, :is_admin,
			:assigned_states, :assigned_cities, :assigned_departments,
			:password_hash, :active, :created_at, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			is_admin = EXCLUDED.is_admin,
			assigned_states = EXCLUDED.assigned_states,
			assigned_cities = EXCLUDED.assigned_cities,
			assigned_departments = EXCLUDED.assigned_departments,
			password_hash = EXCLUDED.password_hash,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return profile.ErrAlreadyExists().WithDetail("email", p.Email)
		}
		return errx.Wrap(err, "failed to save profile", errx.TypeInternal).
			WithDetail("user_id", p.ID.String())
	}
	return nil
}

func (r *PostgresProfileRepository) Delete(ctx context.Context, id kernel.UserID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete profile", errx.TypeInternal).
			WithDetail("user_id", id.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return profile.ErrProfileNotFound().WithDetail("user_id", id.String())
	}
	return nil
}
