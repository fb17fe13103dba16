package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisLimiter_Allow(t *testing.T) {
	mr, rdb := newRedis(t)
	clock := newClock()
	l := NewRedisLimiter(rdb, Rule{Name: "sensitive", Max: 5, Window: 15 * time.Minute}, clock)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		d, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 5-i, d.Remaining)
	}
	d, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.False(t, d.ResetAt.After(clock.Now().Add(15*time.Minute)))

	assert.True(t, mr.Exists("rl:sensitive:10.0.0.1"))

	mr.FastForward(16 * time.Minute)
	d, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
}

func TestRedisLimiter_Error(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Close()

	l := NewRedisLimiter(rdb, Rule{Name: "general", Max: 1, Window: time.Minute}, nil)
	_, err := l.Allow(context.Background(), "k")
	assert.Error(t, err)
}
