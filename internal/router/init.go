package router

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oksasatya/secure-users-api/config"
	appuser "github.com/oksasatya/secure-users-api/internal/application"
	"github.com/oksasatya/secure-users-api/internal/container"
	repouser "github.com/oksasatya/secure-users-api/internal/domain/repository"
	pginfra "github.com/oksasatya/secure-users-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/secure-users-api/internal/interface/http"
	"github.com/oksasatya/secure-users-api/internal/interface/middleware"
	"github.com/oksasatya/secure-users-api/internal/router/modules"
	"github.com/oksasatya/secure-users-api/pkg/ratelimit"
)

const usersPrefix = "/api/users"

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *appuser.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	repo := container.GetUserRepo()
	if repo == nil {
		repo = pginfra.NewUserRepository(container.GetPGPool())
	}

	service := appuser.NewService(repo, nil, container.GetLogger())
	if pub := container.GetRabbitPub(); pub != nil {
		service.Events = pub
	}

	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, started time.Time) {
	userDeps := buildUserDeps()
	r.AddRoot(modules.NewHealthModule(handlers.NewHealthHandler(started)))
	if container.GetConfig().MetricsEnabled && container.GetMetrics() != nil {
		r.AddRoot(modules.NewMetricsModule(container.GetMetrics()))
	}
	r.Add(modules.NewUserModule(userDeps.Handler))
}

// BuildPipeline assembles the request pipeline from the container config.
// Memory limiters are returned so the caller can run their cleanup loops.
func BuildPipeline() (*middleware.Pipeline, []*ratelimit.MemoryLimiter) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	var memLimiters []*ratelimit.MemoryLimiter
	newLimiter := func(name string, q config.Quota) ratelimit.Limiter {
		rule := ratelimit.Rule{Name: name, Max: q.Max, Window: q.Window}
		if cfg.RateLimitBackend == "redis" && container.GetRedis() != nil {
			return ratelimit.NewRedisLimiter(container.GetRedis(), rule, nil)
		}
		l := ratelimit.NewMemoryLimiter(rule, nil)
		memLimiters = append(memLimiters, l)
		return l
	}

	var metrics ratelimit.Metrics = ratelimit.NoopMetrics{}
	var reg prometheus.Registerer
	if m := container.GetMetrics(); m != nil {
		reg = m
		metrics = ratelimit.NewPrometheusMetrics(m)
	}

	stages := middleware.SecurityStages(middleware.SecurityOptions{
		MaxBodyBytes:   cfg.MaxBodyBytes,
		Production:     cfg.IsProduction(),
		CORSOrigins:    cfg.CORSOrigins(),
		ResourcePrefix: usersPrefix,
		Limiters: middleware.Limiters{
			General:   newLimiter("general", cfg.RateLimitGeneral),
			API:       newLimiter("api", cfg.RateLimitAPI),
			Sensitive: newLimiter("sensitive", cfg.RateLimitSensitive),
		},
		Metrics: metrics,
		Logger:  logger,
	})

	p := middleware.NewPipeline(logger, stages...).Bypass("/health")
	if reg != nil {
		p.WithMetrics(reg)
	}
	return p, memLimiters
}
