package profileinfra

import (
	"context"
	"sort"
	"sync"

	"github.com/Abraxas-365/recruitflow/pkg/iam/profile"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/textx"
)

// MemoryProfileRepository keeps profiles in process, for tests and local runs
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[kernel.UserID]profile.Profile
}

func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{profiles: make(map[kernel.UserID]profile.Profile)}
}

var _ profile.Repository = (*MemoryProfileRepository)(nil)

func (r *MemoryProfileRepository) FindByID(ctx context.Context, id kernel.UserID) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound().WithDetail("user_id", id.String())
	}
	return &p, nil
}

func (r *MemoryProfileRepository) FindByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := textx.NormalizeEmail(email)
	for _, p := range r.profiles {
		if textx.NormalizeEmail(p.Email) == want {
			return &p, nil
		}
	}
	return nil, profile.ErrProfileNotFound().WithDetail("email", email)
}

func (r *MemoryProfileRepository) List(ctx context.Context) ([]*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*profile.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, &p)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func (r *MemoryProfileRepository) Save(ctx context.Context, p profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := textx.NormalizeEmail(p.Email)
	for id, existing := range r.profiles {
		if id != p.ID && textx.NormalizeEmail(existing.Email) == want {
			return profile.ErrAlreadyExists().WithDetail("email", p.Email)
		}
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *MemoryProfileRepository) Delete(ctx context.Context, id kernel.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[id]; !ok {
		return profile.ErrProfileNotFound().WithDetail("user_id", id.String())
	}
	delete(r.profiles, id)
	return nil
}
