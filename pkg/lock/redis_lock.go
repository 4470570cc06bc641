package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"portfolio-backend/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// renewScript extends the lease only while it still holds our token.
var renewScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
else
	return 0
end
`)

// RedisGuard shares in-flight state across instances. Each holder owns a SET NX lease
// of length ttl and renews it every ttl/3 until released.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{
		client: client,
		ttl:    ttl,
		prefix: "contact:inflight:",
	}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), bool, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return nil, false, fmt.Errorf("failed to generate lock token: %w", err)
	}
	token := hex.EncodeToString(b)
	fullKey := g.prefix + key

	ok, err := g.client.SetNX(ctx, fullKey, token, g.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", fullKey, err)
	}
	if !ok {
		return nil, false, nil
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go g.renew(fullKey, token, stop, done)

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			<-done
			// The request context may already be done once delivery resolves.
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(ctx, g.client, []string{fullKey}, token).Err()
		})
	}
	return release, true, nil
}

// renew keeps the lease alive until stop is closed or the key is no longer ours.
func (g *RedisGuard) renew(fullKey, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := g.ttl / 3
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			n, err := renewScript.Run(ctx, g.client, []string{fullKey}, token, g.ttl.Milliseconds()).Int()
			cancel()
			if err != nil {
				// Transient; the next tick retries while the lease is still valid.
				logger.Log.Warn("Failed to renew submit lock", "key", fullKey, "error", err)
				continue
			}
			if n == 0 {
				return
			}
		}
	}
}
