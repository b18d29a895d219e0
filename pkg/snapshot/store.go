// Package snapshot persists pending samples across restarts.
//
// The store is a write-ahead buffer, not a log: each save overwrites the
// previous snapshot with the full current contents of the normal queue, and
// the snapshot is cleared once a reporting attempt has been made. Every
// operation is best-effort; callers log failures and carry on.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/papci/DiscordHealthBot/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Store is the durable buffer for unreported samples.
type Store interface {
	// Load returns the last saved snapshot, or nil if none exists.
	Load(ctx context.Context) ([]types.HealthSample, error)
	// Save overwrites the snapshot with the given samples.
	Save(ctx context.Context, samples []types.HealthSample) error
	// Clear removes the snapshot.
	Clear(ctx context.Context) error
}

const defaultKey = "healthbot:snapshot:pending"

// RedisStore keeps the snapshot as a JSON blob under a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a store on an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, key: defaultKey}
}

// NewRedisStoreWithKey creates a store under a custom key.
func NewRedisStoreWithKey(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) ([]types.HealthSample, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var samples []types.HealthSample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return samples, nil
}

func (s *RedisStore) Save(ctx context.Context, samples []types.HealthSample) error {
	data, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)
