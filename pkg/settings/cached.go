package settings

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore wraps a Store with a bounded in-process cache. Reads are
// served through the cache; writes invalidate the affected entry before
// hitting the backing store so a failed write never leaves a stale hit.
type CachedStore struct {
	backend Store
	cache   *lru.Cache[string, string]
}

// NewCachedStore creates a caching decorator with the given entry capacity.
func NewCachedStore(backend Store, size int) (*CachedStore, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create settings cache: %w", err)
	}

	return &CachedStore{backend: backend, cache: cache}, nil
}

func cacheKey(userID int64, key string) string {
	return fmt.Sprintf("%d/%s", userID, key)
}

// Get returns the cached value when present, otherwise reads through to the
// backend. ErrNotFound results are not cached; a missing setting is cheap
// to re-check and may be created at any time.
func (s *CachedStore) Get(ctx context.Context, userID int64, key string) (string, error) {
	ck := cacheKey(userID, key)
	if value, ok := s.cache.Get(ck); ok {
		return value, nil
	}

	value, err := s.backend.Get(ctx, userID, key)
	if err != nil {
		return "", err
	}

	s.cache.Add(ck, value)
	return value, nil
}

// Set writes through to the backend and refreshes the cache entry.
func (s *CachedStore) Set(ctx context.Context, userID int64, key, value string) error {
	ck := cacheKey(userID, key)
	s.cache.Remove(ck)

	if err := s.backend.Set(ctx, userID, key, value); err != nil {
		return err
	}

	s.cache.Add(ck, value)
	return nil
}

// Invalidate drops all cached entries for a user.
func (s *CachedStore) Invalidate(userID int64) {
	prefix := fmt.Sprintf("%d/", userID)
	for _, ck := range s.cache.Keys() {
		if len(ck) > len(prefix) && ck[:len(prefix)] == prefix {
			s.cache.Remove(ck)
		}
	}
}
