package candidateinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate"
	"github.com/Abraxas-365/recruitflow/pkg/textx"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const candidateColumns = `
	id, job_id, source_candidate_id, name, email, phone, city, state,
	resume_url, resume_filename, status, legal_status, legal_comment, restricted,
	has_cnh, cnh_category, vehicle_type, is_pcd, available_to_travel,
	version, created_at, updated_at`

const insertCandidate = `
	INSERT INTO candidates (` + candidateColumns + `)
	VALUES (
		:id, :job_id, :source_candidate_id, :name, :email, :phone, :city, :state,
		:resume_url, :resume_filename, :status, :legal_status, :legal_comment, :restricted,
		:has_cnh, :cnh_category, :vehicle_type, :is_pcd, :available_to_travel,
		:version, :created_at, :updated_at
	)`

// openInvitationsQuery joins the job so only invitations to open processes count
var openInvitationsQuery = `
	SELECT ` + prefixed("c", candidateColumns) + `
	FROM candidates c
	JOIN jobs j ON j.id = c.job_id
	WHERE c.status = 'invited'
	  AND lower(trim(c.email)) = $1
	  AND j.deleted_at IS NULL
	  AND j.status = 'active'
	  AND j.approval_status = 'active'
	  AND j.flow_status = 'active'
	ORDER BY c.created_at DESC`

// PostgresCandidateRepository implementación de PostgreSQL para candidate.Repository
type PostgresCandidateRepository struct {
	db *sqlx.DB
}

func NewPostgresCandidateRepository(db *sqlx.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

var _ candidate.Repository = (*PostgresCandidateRepository)(nil)

func (r *PostgresCandidateRepository) FindByID(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`

	var c candidate.Candidate
	if err := r.db.GetContext(ctx, &c, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find candidate by id", errx.TypeInternal).
			WithDetail("candidate_id", id.String())
	}
	return &c, nil
}

// List pushes job, status and boolean filters to SQL; text filters are
// evaluated in Go so they stay accent-insensitive.
func (r *PostgresCandidateRepository) List(ctx context.Context, filter candidate.Filter) ([]*candidate.Candidate, error) {
	var where []string
	var args []any
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.JobID != nil {
		add("job_id = $%d", filter.JobID.String())
	}
	if filter.WithoutJob {
		where = append(where, "job_id IS NULL")
	}
	if filter.Status != nil {
		add("status = $%d", string(*filter.Status))
	}
	if filter.HasCNH != nil {
		add("has_cnh = $%d", *filter.HasCNH)
	}
	if filter.IsPCD != nil {
		add("is_pcd = $%d", *filter.IsPCD)
	}
	if filter.AvailableToTravel != nil {
		add("available_to_travel = $%d", *filter.AvailableToTravel)
	}

	query := `SELECT ` + candidateColumns + ` FROM candidates`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id ASC`

	var rows []candidate.Candidate
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to list candidates", errx.TypeInternal)
	}

	out := make([]*candidate.Candidate, 0, len(rows))
	for i := range rows {
		if filter.Matches(&rows[i]) {
			out = append(out, &rows[i])
		}
	}
	return out, nil
}

func (r *PostgresCandidateRepository) Create(ctx context.Context, c candidate.Candidate) error {
	if _, err := r.db.NamedExecContext(ctx, insertCandidate, c); err != nil {
		return mapInsertError(err, c.ID)
	}
	return nil
}

func (r *PostgresCandidateRepository) Update(ctx context.Context, c *candidate.Candidate) error {
	query := `
		UPDATE candidates SET
			job_id = :job_id, name = :name, email = :email, phone = :phone,
			city = :city, state = :state, resume_url = :resume_url,
			resume_filename = :resume_filename, status = :status,
			legal_status = :legal_status, legal_comment = :legal_comment,
			restricted = :restricted, has_cnh = :has_cnh, cnh_category = :cnh_category,
			vehicle_type = :vehicle_type, is_pcd = :is_pcd,
			available_to_travel = :available_to_travel,
			updated_at = :updated_at, version = version + 1
		WHERE id = :id AND version = :version`

	result, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return errx.Wrap(err, "failed to update candidate", errx.TypeInternal).
			WithDetail("candidate_id", c.ID.String())
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get affected rows", errx.TypeInternal)
	}
	if rows == 0 {
		if _, err := r.FindByID(ctx, c.ID); err != nil {
			return err
		}
		return candidate.ErrConcurrentModification().
			WithDetail("candidate_id", c.ID.String()).
			WithDetail("expected_version", c.Version)
	}

	c.Version++
	return nil
}

func (r *PostgresCandidateRepository) Delete(ctx context.Context, id kernel.CandidateID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete candidate", errx.TypeInternal).
			WithDetail("candidate_id", id.String())
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get affected rows", errx.TypeInternal)
	}
	if rows == 0 {
		return candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
	}
	return nil
}

// CreateInvitation serializes invitations per normalized e-mail with a
// transaction-scoped advisory lock, then checks and inserts.
func (r *PostgresCandidateRepository) CreateInvitation(ctx context.Context, c candidate.Candidate) error {
	email := c.NormalizedEmail()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer tx.Rollback() // no-op after commit

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "invite:"+email); err != nil {
		return errx.Wrap(err, "failed to lock invitation e-mail", errx.TypeInternal)
	}

	var existing []candidate.Candidate
	if err := tx.SelectContext(ctx, &existing, openInvitationsQuery, email); err != nil {
		return errx.Wrap(err, "failed to check open invitations", errx.TypeInternal)
	}
	if len(existing) > 0 {
		return candidate.ErrDuplicateInvitation().
			WithDetail("email", email).
			WithDetail("existing_candidate_id", existing[0].ID.String())
	}

	if _, err := tx.NamedExecContext(ctx, insertCandidate, c); err != nil {
		return mapInsertError(err, c.ID)
	}

	if err := tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit invitation", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresCandidateRepository) FindOpenInvitations(ctx context.Context, email string) ([]*candidate.Candidate, error) {
	var rows []candidate.Candidate
	if err := r.db.SelectContext(ctx, &rows, openInvitationsQuery, textx.NormalizeEmail(email)); err != nil {
		return nil, errx.Wrap(err, "failed to find open invitations", errx.TypeInternal)
	}
	out := make([]*candidate.Candidate, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func mapInsertError(err error, id kernel.CandidateID) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return candidate.ErrConcurrentModification().WithDetail("candidate_id", id.String())
	}
	return errx.Wrap(err, "failed to create candidate", errx.TypeInternal).
		WithDetail("candidate_id", id.String())
}

func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// ============================================================================
// History
// ============================================================================

type PostgresHistoryRepository struct {
	db *sqlx.DB
}

func NewPostgresHistoryRepository(db *sqlx.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

var _ candidate.HistoryRepository = (*PostgresHistoryRepository)(nil)

func (r *PostgresHistoryRepository) Append(ctx context.Context, entry candidate.HistoryEntry) error {
	query := `
		INSERT INTO candidate_status_history (
			id, candidate_id, job_id, action, from_status, to_status,
			legal_status, comment, actor_id, occurred_at
		) VALUES (
			:id, :candidate_id, :job_id, :action, :from_status, :to_status,
			:legal_status, :comment, :actor_id, :occurred_at
		)
		ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return errx.Wrap(err, "failed to append candidate history", errx.TypeInternal).
			WithDetail("candidate_id", entry.CandidateID.String())
	}
	return nil
}

func (r *PostgresHistoryRepository) ListByCandidate(ctx context.Context, id kernel.CandidateID) ([]candidate.HistoryEntry, error) {
	query := `
		SELECT id, candidate_id, job_id, action, from_status, to_status,
		       legal_status, comment, actor_id, occurred_at
		FROM candidate_status_history
		WHERE candidate_id = $1
		ORDER BY occurred_at ASC, id ASC`

	var entries []candidate.HistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, id.String()); err != nil {
		return nil, errx.Wrap(err, "failed to list candidate history", errx.TypeInternal).
			WithDetail("candidate_id", id.String())
	}
	return entries, nil
}
