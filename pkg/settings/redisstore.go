package settings

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps user settings in redis. Deployments that already run
// redis for sessions can use it instead of the relational store.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed settings store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(userID int64, key string) string {
	return fmt.Sprintf("siteward:user:%d:setting:%s", userID, key)
}

// Get returns the stored value, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, userID int64, key string) (string, error) {
	value, err := s.client.Get(ctx, redisKey(userID, key)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return value, nil
}

// Set stores a value without expiry. Settings are durable configuration,
// not session state.
func (s *RedisStore) Set(ctx context.Context, userID int64, key, value string) error {
	if err := s.client.Set(ctx, redisKey(userID, key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	return nil
}
