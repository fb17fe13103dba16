// Package ratelimit provides per-key request quotas with pluggable storage.
//
// MemoryLimiter keeps a sliding window of timestamps per key inside the process.
// RedisLimiter shares counters across instances through Redis. Admitted requests
// count whatever their eventual outcome; a refused request never pushes the
// reset time further out.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single quota check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfterSeconds returns how long a denied client should wait, rounded up to whole seconds.
func (d Decision) RetryAfterSeconds(now time.Time) int {
	wait := d.ResetAt.Sub(now)
	if wait <= 0 {
		return 0
	}
	return int((wait + time.Second - 1) / time.Second)
}

// Limiter checks and records one request for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Rule is a quota: at most Max requests per Window.
type Rule struct {
	Name   string
	Max    int
	Window time.Duration
}
