package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrExpireScript atomically counts a request and starts the window on the first one.
// Returns {count, pttl}.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisLimiter is a fixed-window counter stored in Redis, shared by every instance.
type RedisLimiter struct {
	rdb    redis.Scripter
	rule   Rule
	prefix string
	clock  Clock
}

func NewRedisLimiter(rdb redis.Scripter, rule Rule, clock Clock) *RedisLimiter {
	if clock == nil {
		clock = SystemClock{}
	}
	return &RedisLimiter{rdb: rdb, rule: rule, prefix: "rl:" + rule.Name + ":", clock: clock}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := incrExpireScript.Run(ctx, l.rdb, []string{l.prefix + key}, l.rule.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	count, ttl := int(res[0]), res[1]
	if ttl < 0 {
		ttl = l.rule.Window.Milliseconds()
	}

	remaining := l.rule.Max - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= l.rule.Max,
		Limit:     l.rule.Max,
		Remaining: remaining,
		ResetAt:   l.clock.Now().Add(time.Duration(ttl) * time.Millisecond),
	}, nil
}
