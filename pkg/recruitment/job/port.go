package job

import (
	"context"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
)

// Repository persists jobs. Update is optimistic: it only succeeds when the
// stored version equals j.Version, then bumps j.Version in place. A lost race
// returns ErrConcurrentModification.
type Repository interface {
	// FindByID returns the job even when soft-deleted
	FindByID(ctx context.Context, id kernel.JobID) (*Job, error)
	FindByIDs(ctx context.Context, ids []kernel.JobID) ([]*Job, error)
	// List never returns soft-deleted jobs
	List(ctx context.Context, filter Filter) ([]*Job, error)
	FindByTitles(ctx context.Context, titles []string) ([]*Job, error)
	Create(ctx context.Context, j Job) error
	Update(ctx context.Context, j *Job) error

	// RecordFill consumes one position for candidateID in a single atomic step
	// guarded by a unique (job, candidate) marker. The returned flag is false
	// when the marker already existed, in which case nothing changes.
	RecordFill(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID, at time.Time) (*Job, bool, error)
	// ReleaseFill removes the marker and frees its position, if present
	ReleaseFill(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID, at time.Time) error

	// PurgeDeletedBefore removes jobs soft-deleted at or before cutoff
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error)
}
