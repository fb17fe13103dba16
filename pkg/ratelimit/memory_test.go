package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryLimiter_SensitiveQuota(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(Rule{Name: "sensitive", Max: 5, Window: 15 * time.Minute}, clock)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		d, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, 5-i, d.Remaining)
		assert.Equal(t, 5, d.Limit)
		clock.Advance(time.Second)
	}

	d, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, time.Date(2026, 1, 1, 12, 15, 0, 0, time.UTC), d.ResetAt)

	other, err := l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestMemoryLimiter_WindowSlides(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(Rule{Name: "t", Max: 2, Window: time.Minute}, clock)
	ctx := context.Background()

	d, _ := l.Allow(ctx, "k")
	assert.True(t, d.Allowed)
	clock.Advance(30 * time.Second)
	d, _ = l.Allow(ctx, "k")
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "k")
	assert.False(t, d.Allowed)

	// first request leaves the window, one slot opens
	clock.Advance(31 * time.Second)
	d, _ = l.Allow(ctx, "k")
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	d, _ = l.Allow(ctx, "k")
	assert.False(t, d.Allowed)

	clock.Advance(2 * time.Minute)
	d, _ = l.Allow(ctx, "k")
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
}

func TestMemoryLimiter_RetryAfterHonouredAfterRefusals(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(Rule{Name: "sensitive", Max: 5, Window: 15 * time.Minute}, clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d, _ := l.Allow(ctx, "k")
		require.True(t, d.Allowed)
		clock.Advance(time.Second)
	}

	var last Decision
	for i := 0; i < 10; i++ {
		last, _ = l.Allow(ctx, "k")
		require.False(t, last.Allowed)
		clock.Advance(time.Second)
	}
	assert.Equal(t, time.Date(2026, 1, 1, 12, 15, 0, 0, time.UTC), last.ResetAt)

	wait := last.RetryAfterSeconds(clock.Now())
	clock.Advance(time.Duration(wait) * time.Second)
	d, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_RefusalsAreNotStored(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(Rule{Name: "t", Max: 5, Window: 15 * time.Minute}, clock)
	ctx := context.Background()

	for i := 0; i < 100000; i++ {
		_, _ = l.Allow(ctx, "k")
		clock.Advance(time.Millisecond)
	}
	assert.Equal(t, 5, l.Entries("k"))
}

func TestMemoryLimiter_KeyCap(t *testing.T) {
	l := NewMemoryLimiterWithCap(Rule{Name: "t", Max: 1, Window: time.Hour}, newClock(), 3)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c", "d"} {
		d, _ := l.Allow(ctx, k)
		assert.True(t, d.Allowed)
	}
	assert.Equal(t, 3, l.KeyCount())
	assert.Equal(t, 0, l.Entries("a"))

	d, _ := l.Allow(ctx, "d")
	assert.False(t, d.Allowed)
}

func TestMemoryLimiter_Cleanup(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(Rule{Name: "t", Max: 10, Window: time.Minute}, clock)
	ctx := context.Background()

	_, _ = l.Allow(ctx, "a")
	_, _ = l.Allow(ctx, "b")
	assert.Equal(t, 2, l.KeyCount())

	clock.Advance(2 * time.Minute)
	_, _ = l.Allow(ctx, "b")
	assert.Equal(t, 1, l.Cleanup())
	assert.Equal(t, 1, l.KeyCount())
}

func TestMemoryLimiter_Concurrent(t *testing.T) {
	l := NewMemoryLimiter(Rule{Name: "t", Max: 50, Window: time.Minute}, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, _ := l.Allow(ctx, "k")
			if d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestDecision_RetryAfterSeconds(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := Decision{ResetAt: now.Add(1500 * time.Millisecond)}
	assert.Equal(t, 2, d.RetryAfterSeconds(now))
	assert.Equal(t, 0, Decision{ResetAt: now.Add(-time.Second)}.RetryAfterSeconds(now))
}
