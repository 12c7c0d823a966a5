package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store abstracts the key-value operations the tracker needs. The Redis
// implementation is the production one; tests supply an in-memory fake.
type Store interface {
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RedisStore adapts a go-redis client to the Store contract. The client is
// injected from the composition root and shared across requests; go-redis
// handles connection pooling internally.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// SetEx stores key=value with the given TTL (SETEX semantics, last write wins).
func (s *RedisStore) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.SetEx(ctx, key, value, ttl).Err()
}

// Exists reports whether the key is still present.
func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Tracker records token session entries with a store-enforced lifetime.
// A token whose entry has expired or been removed is treated as revoked,
// independently of the expiry embedded in the token itself.
type Tracker struct {
	store Store
}

// NewTracker builds a tracker over the given store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// Track records a session entry for the token ID, expiring after ttl.
// Overwrites are idempotent. Store errors propagate to the caller.
func (t *Tracker) Track(ctx context.Context, tokenID, subject string, ttl time.Duration) error {
	return t.store.SetEx(ctx, keyPrefix+tokenID, subject, ttl)
}

// Alive reports whether the session entry for the token ID still exists.
func (t *Tracker) Alive(ctx context.Context, tokenID string) (bool, error) {
	return t.store.Exists(ctx, keyPrefix+tokenID)
}
