package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRegistry tracks which token ids are live. Logout removes the id, so
// a structurally valid JWT stops working the moment its session is revoked.
type TokenRegistry interface {
	Put(ctx context.Context, tokenID, principalID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	Remove(ctx context.Context, tokenID string) error
}

const sessionKeyPrefix = "session:"

// RedisTokenRegistry is the production TokenRegistry.
type RedisTokenRegistry struct {
	client *redis.Client
}

var _ TokenRegistry = (*RedisTokenRegistry)(nil)

// NewRedisTokenRegistry wraps a redis client as a TokenRegistry.
func NewRedisTokenRegistry(client *redis.Client) *RedisTokenRegistry {
	return &RedisTokenRegistry{client: client}
}

func (r *RedisTokenRegistry) Put(ctx context.Context, tokenID, principalID string, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKeyPrefix+tokenID, principalID, ttl).Err()
}

func (r *RedisTokenRegistry) Exists(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, sessionKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisTokenRegistry) Remove(ctx context.Context, tokenID string) error {
	return r.client.Del(ctx, sessionKeyPrefix+tokenID).Err()
}

// MemoryTokenRegistry is an in-process TokenRegistry for tests.
type MemoryTokenRegistry struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

var _ TokenRegistry = (*MemoryTokenRegistry)(nil)

// NewMemoryTokenRegistry creates an empty registry.
func NewMemoryTokenRegistry() *MemoryTokenRegistry {
	return &MemoryTokenRegistry{tokens: map[string]time.Time{}}
}

func (r *MemoryTokenRegistry) Put(_ context.Context, tokenID, _ string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[tokenID] = time.Now().Add(ttl)
	return nil
}

func (r *MemoryTokenRegistry) Exists(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deadline, ok := r.tokens[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(deadline) {
		delete(r.tokens, tokenID)
		return false, nil
	}
	return true, nil
}

func (r *MemoryTokenRegistry) Remove(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, tokenID)
	return nil
}
