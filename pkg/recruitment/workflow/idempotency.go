package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/logx"
)

// IdempotencyStore records claimed command keys for a limited time
type IdempotencyStore interface {
	// Claim returns true when key was not claimed yet
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// IdempotencyKey identifies a command: the same actor driving the same entity
// to the same target within one time bucket is treated as a replay.
func IdempotencyKey(entityID, action, target, actor string, at time.Time, bucket time.Duration) string {
	slot := at.Unix()
	if bucket > 0 {
		slot = at.Truncate(bucket).Unix()
	}
	return fmt.Sprintf("idem:%s:%s:%s:%s:%d", entityID, action, target, actor, slot)
}

// Idempotency guards commands against replays. Store errors fail open: the
// command proceeds and the optimistic version check still prevents double
// application of a lost race.
type Idempotency struct {
	store  IdempotencyStore
	bucket time.Duration
	ttl    time.Duration
}

func NewIdempotency(store IdempotencyStore, bucket, ttl time.Duration) *Idempotency {
	return &Idempotency{store: store, bucket: bucket, ttl: ttl}
}

func (i *Idempotency) Key(entityID, action, target, actor string, at time.Time) string {
	return IdempotencyKey(entityID, action, target, actor, at, i.bucket)
}

// Claim reports whether the caller should apply the command
func (i *Idempotency) Claim(ctx context.Context, key string) bool {
	if i == nil || i.store == nil {
		return true
	}
	ok, err := i.store.Claim(ctx, key, i.ttl)
	if err != nil {
		logx.WithFields(logx.Fields{"key": key}).WithError(err).Warn("idempotency store unavailable, proceeding")
		return true
	}
	return ok
}

// Release frees a key after a failed command so it can be retried
func (i *Idempotency) Release(ctx context.Context, key string) {
	if i == nil || i.store == nil {
		return
	}
	if err := i.store.Release(ctx, key); err != nil {
		logx.WithFields(logx.Fields{"key": key}).WithError(err).Warn("failed to release idempotency key")
	}
}

// ============================================================================
// In-memory store
// ============================================================================

type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	clock   kernel.Clock
	entries map[string]time.Time
}

func NewMemoryIdempotencyStore(clock kernel.Clock) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		clock:   clock,
		entries: make(map[string]time.Time),
	}
}

func (s *MemoryIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if expires, ok := s.entries[key]; ok && now.Before(expires) {
		return false, nil
	}
	s.entries[key] = now.Add(ttl)

	// opportunistic cleanup
	for k, exp := range s.entries {
		if !now.Before(exp) {
			delete(s.entries, k)
		}
	}
	return true, nil
}

func (s *MemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
