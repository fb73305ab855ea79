package workflowinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/recruitment/workflow"
	"github.com/redis/go-redis/v9"
)

// RedisIdempotencyStore claims command keys with SET NX so that replays are
// detected across every API instance.
type RedisIdempotencyStore struct {
	client *redis.Client
	prefix string
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: client,
		prefix: "recruitflow:",
	}
}

var _ workflow.IdempotencyStore = (*RedisIdempotencyStore)(nil)

func (s *RedisIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key in Redis: %w", err)
	}
	return ok, nil
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key in Redis: %w", err)
	}
	return nil
}
