package ratelimit

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxKeys bounds how many clients a MemoryLimiter tracks at once.
const DefaultMaxKeys = 10000

// MemoryLimiter is a sliding-window log limiter scoped to one process.
// Behind several instances each one enforces its own quota.
type MemoryLimiter struct {
	rule  Rule
	clock Clock

	mu   sync.Mutex
	hits *lru.Cache[string, []time.Time]
}

func NewMemoryLimiter(rule Rule, clock Clock) *MemoryLimiter {
	return NewMemoryLimiterWithCap(rule, clock, DefaultMaxKeys)
}

// NewMemoryLimiterWithCap tracks at most maxKeys keys; the least recently
// seen key is evicted when a new one arrives at capacity.
func NewMemoryLimiterWithCap(rule Rule, clock Clock, maxKeys int) *MemoryLimiter {
	if clock == nil {
		clock = SystemClock{}
	}
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	hits, err := lru.New[string, []time.Time](maxKeys)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &MemoryLimiter{rule: rule, clock: clock, hits: hits}
}

// Allow reports whether the request fits the window and records it only when it does.
// A key never holds more than Max timestamps, and ResetAt is when the oldest one
// leaves the window, i.e. when the next request will be admitted.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.clock.Now()
	cutoff := now.Add(-l.rule.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	ts, _ := l.hits.Get(key)
	kept := prune(ts, cutoff)

	if len(kept) >= l.rule.Max {
		l.hits.Add(key, kept)
		return Decision{
			Allowed:   false,
			Limit:     l.rule.Max,
			Remaining: 0,
			ResetAt:   l.resetAt(kept, now),
		}, nil
	}

	kept = append(kept, now)
	l.hits.Add(key, kept)
	return Decision{
		Allowed:   true,
		Limit:     l.rule.Max,
		Remaining: l.rule.Max - len(kept),
		ResetAt:   l.resetAt(kept, now),
	}, nil
}

func (l *MemoryLimiter) resetAt(kept []time.Time, now time.Time) time.Time {
	if len(kept) == 0 {
		return now.Add(l.rule.Window)
	}
	return kept[0].Add(l.rule.Window)
}

// Cleanup drops keys whose whole window has expired and returns how many were removed.
func (l *MemoryLimiter) Cleanup() int {
	cutoff := l.clock.Now().Add(-l.rule.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for _, key := range l.hits.Keys() {
		ts, ok := l.hits.Peek(key)
		if !ok {
			continue
		}
		kept := prune(ts, cutoff)
		if len(kept) == 0 {
			l.hits.Remove(key)
			removed++
			continue
		}
		if len(kept) != len(ts) {
			l.hits.Add(key, kept)
		}
	}
	return removed
}

// KeyCount returns the number of tracked keys.
func (l *MemoryLimiter) KeyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hits.Len()
}

// Entries returns how many timestamps are held for key.
func (l *MemoryLimiter) Entries(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts, _ := l.hits.Peek(key)
	return len(ts)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (l *MemoryLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

// prune drops timestamps at or before cutoff. ts is sorted ascending.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return ts
	}
	return append(ts[:0:0], ts[i:]...)
}
