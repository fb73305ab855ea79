package jobinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job"
	"github.com/Abraxas-365/recruitflow/pkg/textx"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const jobColumns = `
	id, title, department, city, state, workload, job_type, description, requirements,
	status, approval_status, flow_status, quantity, quantity_filled,
	expires_at, approved_at, approved_by, created_by, rejection_reason,
	requester_name, requester_role, internal_notes, request_type, replaced_employee,
	deleted_at, deleted_by, version, created_at, updated_at`

// PostgresJobRepository implementación de PostgreSQL para job.Repository
type PostgresJobRepository struct {
	db *sqlx.DB
}

func NewPostgresJobRepository(db *sqlx.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

var _ job.Repository = (*PostgresJobRepository)(nil)

func (r *PostgresJobRepository) FindByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	var j job.Job
	if err := r.db.GetContext(ctx, &j, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find job by id", errx.TypeInternal).
			WithDetail("job_id", id.String())
	}
	return &j, nil
}

func (r *PostgresJobRepository) FindByIDs(ctx context.Context, ids []kernel.JobID) ([]*job.Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = ANY($1)`

	var jobs []job.Job
	if err := r.db.SelectContext(ctx, &jobs, query, pq.Array(raw)); err != nil {
		return nil, errx.Wrap(err, "failed to find jobs by ids", errx.TypeInternal)
	}
	return toPointers(jobs), nil
}

// List pushes the status filters to SQL and evaluates the accent-insensitive
// text filters in Go with the same rules as the in-memory repository.
func (r *PostgresJobRepository) List(ctx context.Context, filter job.Filter) ([]*job.Job, error) {
	where := []string{"deleted_at IS NULL"}
	var args []any
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != nil {
		add("status = $%d", string(*filter.Status))
	}
	if filter.ApprovalStatus != nil {
		add("approval_status = $%d", string(*filter.ApprovalStatus))
	}
	if filter.FlowStatus != nil {
		add("flow_status = $%d", string(*filter.FlowStatus))
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, id ASC`

	var jobs []job.Job
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to list jobs", errx.TypeInternal)
	}

	out := make([]*job.Job, 0, len(jobs))
	for i := range jobs {
		if filter.Matches(&jobs[i]) {
			out = append(out, &jobs[i])
		}
	}
	return out, nil
}

func (r *PostgresJobRepository) FindByTitles(ctx context.Context, titles []string) ([]*job.Job, error) {
	folded := make([]string, 0, len(titles))
	for _, t := range titles {
		folded = append(folded, strings.ToLower(strings.TrimSpace(t)))
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE lower(trim(title)) = ANY($1)`

	var jobs []job.Job
	if err := r.db.SelectContext(ctx, &jobs, query, pq.Array(folded)); err != nil {
		return nil, errx.Wrap(err, "failed to find jobs by title", errx.TypeInternal)
	}

	out := make([]*job.Job, 0, len(jobs))
	for i := range jobs {
		if textx.ContainsFold(titles, jobs[i].Title) {
			out = append(out, &jobs[i])
		}
	}
	return out, nil
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES (
			:id, :title, :department, :city, :state, :workload, :job_type, :description, :requirements,
			:status, :approval_status, :flow_status, :quantity, :quantity_filled,
			:expires_at, :approved_at, :approved_by, :created_by, :rejection_reason,
			:requester_name, :requester_role, :internal_notes, :request_type, :replaced_employee,
			:deleted_at, :deleted_by, :version, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, j); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return job.ErrConcurrentModification().WithDetail("job_id", j.ID.String())
		}
		return errx.Wrap(err, "failed to create job", errx.TypeInternal).
			WithDetail("job_id", j.ID.String())
	}
	return nil
}

// Update writes every mutable column except quantity_filled, which only
// RecordFill and ReleaseFill touch
func (r *PostgresJobRepository) Update(ctx context.Context, j *job.Job) error {
	query := `
		UPDATE jobs SET
			title = :title, department = :department, city = :city, state = :state,
			workload = :workload, job_type = :job_type, description = :description,
			requirements = :requirements, status = :status, approval_status = :approval_status,
			flow_status = :flow_status, quantity = :quantity, expires_at = :expires_at,
			approved_at = :approved_at, approved_by = :approved_by,
			rejection_reason = :rejection_reason, requester_name = :requester_name,
			requester_role = :requester_role, internal_notes = :internal_notes,
			request_type = :request_type, replaced_employee = :replaced_employee,
			deleted_at = :deleted_at, deleted_by = :deleted_by,
			updated_at = :updated_at, version = version + 1
		WHERE id = :id AND version = :version`

	result, err := r.db.NamedExecContext(ctx, query, j)
	if err != nil {
		return errx.Wrap(err, "failed to update job", errx.TypeInternal).
			WithDetail("job_id", j.ID.String())
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get affected rows", errx.TypeInternal)
	}
	if rows == 0 {
		if _, err := r.FindByID(ctx, j.ID); err != nil {
			return err
		}
		return job.ErrConcurrentModification().
			WithDetail("job_id", j.ID.String()).
			WithDetail("expected_version", j.Version)
	}

	j.Version++
	return nil
}

// RecordFill inserts the (job, candidate) marker and increments
// quantity_filled in one transaction. The increment is guarded so that a
// full or deleted job fails instead of being clamped.
func (r *PostgresJobRepository) RecordFill(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID, at time.Time) (*job.Job, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer tx.Rollback() // no-op after commit

	res, err := tx.ExecContext(ctx, `
		INSERT INTO job_fills (job_id, candidate_id, counted_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_id, candidate_id) DO NOTHING`,
		jobID.String(), candidateID.String(), at)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, false, job.ErrJobNotFound().WithDetail("job_id", jobID.String())
		}
		return nil, false, errx.Wrap(err, "failed to insert fill marker", errx.TypeInternal)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, errx.Wrap(err, "failed to get affected rows", errx.TypeInternal)
	}

	if inserted == 0 {
		current, err := r.findTx(ctx, tx, jobID)
		if err != nil {
			return nil, false, err
		}
		return current, false, tx.Commit()
	}

	var updated job.Job
	err = tx.GetContext(ctx, &updated, `
		UPDATE jobs
		SET quantity_filled = quantity_filled + 1, updated_at = $2, version = version + 1
		WHERE id = $1 AND deleted_at IS NULL AND quantity_filled < quantity
		RETURNING `+jobColumns,
		jobID.String(), at)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, false, errx.Wrap(err, "failed to increment quantity_filled", errx.TypeInternal)
		}
		current, findErr := r.findTx(ctx, tx, jobID)
		if findErr != nil {
			return nil, false, findErr
		}
		// reuse the entity guard for the precise error
		if guardErr := current.AddFill(at); guardErr != nil {
			return nil, false, guardErr
		}
		return nil, false, job.ErrConcurrentModification().WithDetail("job_id", jobID.String())
	}

	if err := tx.Commit(); err != nil {
		return nil, false, errx.Wrap(err, "failed to commit fill", errx.TypeInternal)
	}
	return &updated, true, nil
}

func (r *PostgresJobRepository) ReleaseFill(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID, at time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM job_fills WHERE job_id = $1 AND candidate_id = $2`,
		jobID.String(), candidateID.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete fill marker", errx.TypeInternal)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE jobs
		SET quantity_filled = quantity_filled - 1, updated_at = $2, version = version + 1
		WHERE id = $1 AND quantity_filled > 0`,
		jobID.String(), at)
	if err != nil {
		return errx.Wrap(err, "failed to decrement quantity_filled", errx.TypeInternal)
	}
	return tx.Commit()
}

// PurgeDeletedBefore hard-deletes jobs soft-deleted at or before cutoff.
// Fill markers go with them; candidates keep their job_id as history.
func (r *PostgresJobRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM jobs WHERE deleted_at IS NOT NULL AND deleted_at <= $1`, cutoff)
	if err != nil {
		return 0, errx.Wrap(err, "failed to purge deleted jobs", errx.TypeInternal).
			WithDetail("cutoff", cutoff.Format(time.RFC3339))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(err, "failed to get affected rows", errx.TypeInternal)
	}
	return int(n), nil
}

func (r *PostgresJobRepository) findTx(ctx context.Context, tx *sqlx.Tx, id kernel.JobID) (*job.Job, error) {
	var j job.Job
	if err := tx.GetContext(ctx, &j, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find job by id", errx.TypeInternal)
	}
	return &j, nil
}

func toPointers(jobs []job.Job) []*job.Job {
	result := make([]*job.Job, len(jobs))
	for i := range jobs {
		result[i] = &jobs[i]
	}
	return result
}
