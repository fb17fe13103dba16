package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/secure-users-api/pkg/apperr"
	"github.com/oksasatya/secure-users-api/pkg/ratelimit"
)

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyByIP returns a key function that limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return ipFromCtx(c)
	}
}

// RateLimitConfig wires one limiter into the pipeline.
type RateLimitConfig struct {
	Name    string
	Limiter ratelimit.Limiter
	Key     KeyFunc
	When    func(*gin.Context) bool
	Metrics ratelimit.Metrics
	Clock   ratelimit.Clock
	Logger  *logrus.Logger
}

// RateLimit with:
// - pluggable storage (memory or redis)
// - per-limiter headers X-RateLimit-<Name>-Limit/-Remaining/-Reset
// - standard headers (limit/remaining/reset) from the last limiter evaluated
// - fail-open when the store errors
func RateLimit(cfg RateLimitConfig) Stage {
	if cfg.Key == nil {
		cfg.Key = KeyByIP()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = ratelimit.NoopMetrics{}
	}
	if cfg.Clock == nil {
		cfg.Clock = ratelimit.SystemClock{}
	}
	prefix := "X-RateLimit-" + headerName(cfg.Name) + "-"

	return Stage{
		Name: cfg.Name + "-rate-limit",
		When: cfg.When,
		Run: func(c *gin.Context) error {
			if c.Request.Method == http.MethodOptions {
				return nil
			}
			d, err := cfg.Limiter.Allow(c.Request.Context(), cfg.Key(c))
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.WithError(err).WithField("limiter", cfg.Name).Warn("rate limiter unavailable, allowing request")
				}
				return nil
			}
			cfg.Metrics.Observe(cfg.Name, d.Allowed)

			now := cfg.Clock.Now()
			reset := strconv.Itoa(d.RetryAfterSeconds(now))
			limit := strconv.Itoa(d.Limit)
			remaining := strconv.Itoa(d.Remaining)

			// https://datatracker.ietf.org/doc/html/rfc6585#section-4
			c.Header(prefix+"Limit", limit)
			c.Header(prefix+"Remaining", remaining)
			c.Header(prefix+"Reset", reset)
			c.Header("X-RateLimit-Limit", limit)
			c.Header("X-RateLimit-Remaining", remaining)
			c.Header("X-RateLimit-Reset", reset)

			if !d.Allowed {
				c.Header("Retry-After", reset)
				return apperr.QuotaExceeded(cfg.Name, d.ResetAt.UTC())
			}
			return nil
		},
	}
}

func headerName(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
