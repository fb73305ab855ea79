package jobinfra

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job"
	"github.com/Abraxas-365/recruitflow/pkg/textx"
)

type fillKey struct {
	jobID       kernel.JobID
	candidateID kernel.CandidateID
}

// MemoryJobRepository keeps jobs in process. A single mutex serializes writes,
// which gives the same guarantees as the Postgres version check and fill
// transaction.
type MemoryJobRepository struct {
	mu    sync.RWMutex
	jobs  map[kernel.JobID]job.Job
	fills map[fillKey]time.Time
}

func NewMemoryJobRepository() *MemoryJobRepository {
	return &MemoryJobRepository{
		jobs:  make(map[kernel.JobID]job.Job),
		fills: make(map[fillKey]time.Time),
	}
}

var _ job.Repository = (*MemoryJobRepository)(nil)

func (r *MemoryJobRepository) FindByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
	}
	return &j, nil
}

func (r *MemoryJobRepository) FindByIDs(ctx context.Context, ids []kernel.JobID) ([]*job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*job.Job, 0, len(ids))
	for _, id := range ids {
		if j, ok := r.jobs[id]; ok {
			out = append(out, &j)
		}
	}
	return out, nil
}

func (r *MemoryJobRepository) List(ctx context.Context, filter job.Filter) ([]*job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*job.Job
	for _, j := range r.jobs {
		if j.IsDeleted() || !filter.Matches(&j) {
			continue
		}
		out = append(out, &j)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID < out[b].ID
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

func (r *MemoryJobRepository) FindByTitles(ctx context.Context, titles []string) ([]*job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*job.Job
	for _, j := range r.jobs {
		if textx.ContainsFold(titles, j.Title) {
			out = append(out, &j)
		}
	}
	return out, nil
}

func (r *MemoryJobRepository) Create(ctx context.Context, j job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[j.ID]; exists {
		return job.ErrConcurrentModification().WithDetail("job_id", j.ID.String())
	}
	r.jobs[j.ID] = j
	return nil
}

func (r *MemoryJobRepository) Update(ctx context.Context, j *job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.jobs[j.ID]
	if !ok {
		return job.ErrJobNotFound().WithDetail("job_id", j.ID.String())
	}
	if stored.Version != j.Version {
		return job.ErrConcurrentModification().
			WithDetail("job_id", j.ID.String()).
			WithDetail("expected_version", j.Version).
			WithDetail("current_version", stored.Version)
	}
	// quantity_filled is owned by RecordFill/ReleaseFill
	j.QuantityFilled = stored.QuantityFilled
	j.Version++
	r.jobs[j.ID] = *j
	return nil
}

func (r *MemoryJobRepository) RecordFill(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID, at time.Time) (*job.Job, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[jobID]
	if !ok {
		return nil, false, job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}
	key := fillKey{jobID, candidateID}
	if _, counted := r.fills[key]; counted {
		return &j, false, nil
	}
	if err := j.AddFill(at); err != nil {
		return nil, false, err
	}
	j.Version++
	r.jobs[jobID] = j
	r.fills[key] = at
	return &j, true, nil
}

func (r *MemoryJobRepository) ReleaseFill(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fillKey{jobID, candidateID}
	if _, counted := r.fills[key]; !counted {
		return nil
	}
	delete(r.fills, key)
	if j, ok := r.jobs[jobID]; ok {
		j.RemoveFill(at)
		j.Version++
		r.jobs[jobID] = j
	}
	return nil
}

func (r *MemoryJobRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	purged := 0
	for id, j := range r.jobs {
		if j.DeletedAt != nil && !j.DeletedAt.After(cutoff) {
			delete(r.jobs, id)
			for key := range r.fills {
				if key.jobID == id {
					delete(r.fills, key)
				}
			}
			purged++
		}
	}
	return purged, nil
}
