package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestNewPicksBackend(t *testing.T) {
	_, client := setupTestRedis(t)
	assert.IsType(t, &RedisGuard{}, New(client, time.Minute))
	assert.IsType(t, &MemoryGuard{}, New(nil, time.Minute))
}

func TestRedisGuard(t *testing.T) {
	mr, client := setupTestRedis(t)
	g := NewRedisGuard(client, time.Minute)
	ctx := context.Background()

	release, ok, err := g.Acquire(ctx, "session-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("contact:inflight:session-1"))

	_, ok, err = g.Acquire(ctx, "session-1")
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must be rejected while the first is held")

	other, ok, err := g.Acquire(ctx, "session-2")
	require.NoError(t, err)
	assert.True(t, ok, "other keys are independent")
	t.Cleanup(other)

	release()
	release()
	assert.False(t, mr.Exists("contact:inflight:session-1"))

	again, ok, err := g.Acquire(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, ok)
	t.Cleanup(again)
}

func TestRedisGuardLeaseExpiresWithoutRenewal(t *testing.T) {
	mr, client := setupTestRedis(t)
	g := NewRedisGuard(client, 30*time.Second)
	ctx := context.Background()

	release, ok, err := g.Acquire(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(release)

	// The renewal ticker has not fired in real time, as for a crashed holder.
	mr.FastForward(31 * time.Second)

	release2, ok, err := g.Acquire(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	t.Cleanup(release2)
}

func TestRedisGuardRenewsLeaseWhileHeld(t *testing.T) {
	mr, client := setupTestRedis(t)
	ttl := 300 * time.Millisecond
	g := NewRedisGuard(client, ttl)
	ctx := context.Background()
	key := "contact:inflight:slow"

	release, ok, err := g.Acquire(ctx, "slow")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(250 * time.Millisecond)
	require.Eventually(t, func() bool { return mr.TTL(key) > 250*time.Millisecond },
		2*time.Second, 10*time.Millisecond, "holder should renew its lease")

	// Past the original ttl, the renewed key still blocks other submits.
	mr.FastForward(250 * time.Millisecond)
	assert.True(t, mr.Exists(key))
	_, ok, err = g.Acquire(ctx, "slow")
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	assert.False(t, mr.Exists(key))
}

func TestRedisGuardReleaseDoesNotStealNewHolder(t *testing.T) {
	mr, client := setupTestRedis(t)
	g := NewRedisGuard(client, 30*time.Second)
	ctx := context.Background()

	staleRelease, ok, err := g.Acquire(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(31 * time.Second)
	release, ok, err := g.Acquire(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(release)

	staleRelease()
	assert.True(t, mr.Exists("contact:inflight:k"))
}

func TestRedisGuardBackendError(t *testing.T) {
	mr, client := setupTestRedis(t)
	mr.Close()

	_, ok, err := NewRedisGuard(client, time.Minute).Acquire(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestMemoryGuardHoldsUntilRelease(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	release, ok, err := g.Acquire(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok, _ = g.Acquire(ctx, "k")
	assert.False(t, ok, "no expiry while the holder is alive")

	_, ok, _ = g.Acquire(ctx, "other")
	assert.True(t, ok)

	release()
	release()
	_, ok, _ = g.Acquire(ctx, "k")
	assert.True(t, ok)
}
