package singleflight

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard deduplicates concurrent identical submissions. The original system
// let repeated trigger presses fire overlapping prediction calls; the guard
// admits the first and rejects duplicates until it completes.
type Guard interface {
	// Begin reports whether the call keyed by key may proceed.
	Begin(ctx context.Context, key string) (bool, error)
	// End releases the key once the call finishes, success or not.
	End(ctx context.Context, key string)
}

// Key derives a stable guard key from the submitted payload.
func Key(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Memory is the in-process guard used when Redis is not configured.
type Memory struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{inflight: make(map[string]struct{})}
}

func (m *Memory) Begin(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.inflight[key]; busy {
		return false, nil
	}
	m.inflight[key] = struct{}{}
	return true, nil
}

func (m *Memory) End(ctx context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, key)
}

// Redis guards across gateway replicas with SETNX leases. The TTL bounds
// how long a crashed holder can block a key.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Begin(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, "inflight:"+key, 1, r.ttl).Result()
}

func (r *Redis) End(ctx context.Context, key string) {
	r.client.Del(ctx, "inflight:"+key)
}
