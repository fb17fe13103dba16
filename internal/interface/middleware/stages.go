package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/secure-users-api/pkg/ratelimit"
)

// Limiters holds the three quotas applied to the API.
type Limiters struct {
	General   ratelimit.Limiter
	API       ratelimit.Limiter
	Sensitive ratelimit.Limiter
}

// SecurityOptions configures the standard request pipeline.
type SecurityOptions struct {
	MaxBodyBytes int64
	Production   bool
	// CORSOrigins enables the cors stage; empty leaves cross-origin requests untouched.
	CORSOrigins []string
	// ResourcePrefix is the route prefix of the protected resource, e.g. "/api/users".
	ResourcePrefix string
	Limiters       Limiters
	Metrics        ratelimit.Metrics
	Clock          ratelimit.Clock
	Logger         *logrus.Logger
}

// SecurityStages returns the request pipeline in execution order. Nil limiters are skipped.
func SecurityStages(opts SecurityOptions) []Stage {
	stages := []Stage{HeaderHardener(opts.Production)}
	if len(opts.CORSOrigins) > 0 {
		stages = append(stages, CORS(opts.CORSOrigins))
	}
	stages = append(stages,
		SizeGuard(opts.MaxBodyBytes),
		BodyParser(opts.MaxBodyBytes),
		ParamNormalizer(),
		KeySanitizer(),
		ContentSanitizer(),
		InjectionDetector(),
	)

	limit := func(name string, l ratelimit.Limiter, when func(*gin.Context) bool) {
		if l == nil {
			return
		}
		stages = append(stages, RateLimit(RateLimitConfig{
			Name:    name,
			Limiter: l,
			When:    when,
			Metrics: opts.Metrics,
			Clock:   opts.Clock,
			Logger:  opts.Logger,
		}))
	}
	limit("general", opts.Limiters.General, nil)
	limit("api", opts.Limiters.API, UnderRoute(opts.ResourcePrefix))
	limit("sensitive", opts.Limiters.Sensitive, Mutating(opts.ResourcePrefix))
	return stages
}
