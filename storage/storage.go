package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/OhASys/sstracker-backend/domain"
)

// RedisStore persists per-user board snapshots in Redis. A zero TTL keeps
// snapshots until overwritten.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a snapshot store using the provided Redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("storage.NewRedisStore: client is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Load fetches the persisted board for userID. ok=false means nothing is
// stored; a corrupt value is treated the same way after evicting it.
func (s *RedisStore) Load(ctx context.Context, userID string) (domain.UserState, bool, error) {
	data, err := s.client.Get(ctx, boardKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.UserState{}, false, nil
		}
		return domain.UserState{}, false, err
	}
	var st domain.UserState
	if err := json.Unmarshal(data, &st); err != nil {
		_ = s.client.Del(ctx, boardKey(userID)).Err()
		return domain.UserState{}, false, nil
	}
	return st, true, nil
}

// Save overwrites the persisted board for userID.
func (s *RedisStore) Save(ctx context.Context, userID string, st domain.UserState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, boardKey(userID), data, s.ttl).Err()
}

func boardKey(userID string) string {
	return "board:" + userID
}
