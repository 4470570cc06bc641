// Package lock keeps at most one contact submission in flight per key.
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard is satisfied by both the Redis and in-memory implementations.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), acquired bool, err error)
}

// New returns a Redis-backed guard when client is non-nil, an in-memory guard otherwise.
// ttl is the Redis lease length: a live holder keeps renewing it, a crashed one blocks
// its key for at most ttl.
func New(client *redis.Client, ttl time.Duration) Guard {
	if client != nil {
		return NewRedisGuard(client, ttl)
	}
	return NewMemoryGuard()
}

// MemoryGuard is a process-local Guard. A key stays held until its release runs.
type MemoryGuard struct {
	mu      sync.Mutex
	next    uint64
	holders map[string]uint64
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{holders: make(map[string]uint64)}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (func(), bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.holders[key]; held {
		return nil, false, nil
	}

	g.next++
	token := g.next
	g.holders[key] = token

	var once sync.Once
	release := func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			if g.holders[key] == token {
				delete(g.holders, key)
			}
		})
	}
	return release, true, nil
}
