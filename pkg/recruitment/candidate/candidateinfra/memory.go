package candidateinfra

import (
	"context"
	"sort"
	"sync"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job"
	"github.com/Abraxas-365/recruitflow/pkg/textx"
)

// MemoryCandidateRepository keeps candidates in process. It reads jobs
// through the job repository to decide which invitations are still open.
type MemoryCandidateRepository struct {
	mu         sync.RWMutex
	jobs       job.Repository
	candidates map[kernel.CandidateID]candidate.Candidate
}

func NewMemoryCandidateRepository(jobs job.Repository) *MemoryCandidateRepository {
	return &MemoryCandidateRepository{
		jobs:       jobs,
		candidates: make(map[kernel.CandidateID]candidate.Candidate),
	}
}

var _ candidate.Repository = (*MemoryCandidateRepository)(nil)

func (r *MemoryCandidateRepository) FindByID(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.candidates[id]
	if !ok {
		return nil, candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
	}
	return &c, nil
}

func (r *MemoryCandidateRepository) List(ctx context.Context, filter candidate.Filter) ([]*candidate.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*candidate.Candidate
	for _, c := range r.candidates {
		if filter.Matches(&c) {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID < out[b].ID
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

func (r *MemoryCandidateRepository) Create(ctx context.Context, c candidate.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.candidates[c.ID]; exists {
		return candidate.ErrConcurrentModification().WithDetail("candidate_id", c.ID.String())
	}
	r.candidates[c.ID] = c
	return nil
}

func (r *MemoryCandidateRepository) Update(ctx context.Context, c *candidate.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.candidates[c.ID]
	if !ok {
		return candidate.ErrCandidateNotFound().WithDetail("candidate_id", c.ID.String())
	}
	if stored.Version != c.Version {
		return candidate.ErrConcurrentModification().
			WithDetail("candidate_id", c.ID.String()).
			WithDetail("expected_version", c.Version).
			WithDetail("current_version", stored.Version)
	}
	c.Version++
	r.candidates[c.ID] = *c
	return nil
}

func (r *MemoryCandidateRepository) Delete(ctx context.Context, id kernel.CandidateID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.candidates[id]; !ok {
		return candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
	}
	delete(r.candidates, id)
	return nil
}

// CreateInvitation holds the write lock across the duplicate check and the
// insert
func (r *MemoryCandidateRepository) CreateInvitation(ctx context.Context, c candidate.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	open, err := r.openInvitations(ctx, c.NormalizedEmail())
	if err != nil {
		return err
	}
	if len(open) > 0 {
		return candidate.ErrDuplicateInvitation().
			WithDetail("email", c.NormalizedEmail()).
			WithDetail("existing_candidate_id", open[0].ID.String())
	}
	if _, exists := r.candidates[c.ID]; exists {
		return candidate.ErrConcurrentModification().WithDetail("candidate_id", c.ID.String())
	}
	r.candidates[c.ID] = c
	return nil
}

func (r *MemoryCandidateRepository) FindOpenInvitations(ctx context.Context, email string) ([]*candidate.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.openInvitations(ctx, textx.NormalizeEmail(email))
}

// openInvitations expects r.mu to be held
func (r *MemoryCandidateRepository) openInvitations(ctx context.Context, email string) ([]*candidate.Candidate, error) {
	var invited []candidate.Candidate
	var jobIDs []kernel.JobID
	for _, c := range r.candidates {
		if c.Status == candidate.StatusInvited && c.HasJob() && c.NormalizedEmail() == email {
			invited = append(invited, c)
			jobIDs = append(jobIDs, *c.JobID)
		}
	}
	if len(invited) == 0 {
		return nil, nil
	}

	jobs, err := r.jobs.FindByIDs(ctx, jobIDs)
	if err != nil {
		return nil, err
	}
	openJobs := make(map[kernel.JobID]bool, len(jobs))
	for _, j := range jobs {
		openJobs[j.ID] = j.IsOpenProcess()
	}

	var out []*candidate.Candidate
	for _, c := range invited {
		if openJobs[*c.JobID] {
			out = append(out, &c)
		}
	}
	return out, nil
}

// ============================================================================
// History
// ============================================================================

type MemoryHistoryRepository struct {
	mu      sync.RWMutex
	entries map[kernel.CandidateID][]candidate.HistoryEntry
}

func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{entries: make(map[kernel.CandidateID][]candidate.HistoryEntry)}
}

var _ candidate.HistoryRepository = (*MemoryHistoryRepository)(nil)

func (r *MemoryHistoryRepository) Append(ctx context.Context, entry candidate.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.CandidateID] = append(r.entries[entry.CandidateID], entry)
	return nil
}

func (r *MemoryHistoryRepository) ListByCandidate(ctx context.Context, id kernel.CandidateID) ([]candidate.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]candidate.HistoryEntry, len(r.entries[id]))
	copy(out, r.entries[id])
	return out, nil
}
