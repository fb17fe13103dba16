package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	c := Load()
	assert.Equal(t, Quota{Max: 100, Window: 15 * time.Minute}, c.RateLimitGeneral)
	assert.Equal(t, Quota{Max: 1000, Window: time.Hour}, c.RateLimitAPI)
	assert.Equal(t, Quota{Max: 5, Window: 15 * time.Minute}, c.RateLimitSensitive)
	assert.Equal(t, int64(10240), c.MaxBodyBytes)
	assert.Equal(t, "memory", c.RateLimitBackend)
	assert.False(t, c.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("RATE_LIMIT_SENSITIVE_MAX", "3")
	t.Setenv("RATE_LIMIT_SENSITIVE_WINDOW", "1m")
	t.Setenv("RATE_LIMIT_API_MAX", "lots")
	t.Setenv("RATE_LIMIT_BACKEND", "Redis")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	c := Load()
	assert.True(t, c.IsProduction())
	assert.Equal(t, Quota{Max: 3, Window: time.Minute}, c.RateLimitSensitive)
	assert.Equal(t, 1000, c.RateLimitAPI.Max)
	assert.Equal(t, "redis", c.RateLimitBackend)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins())
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", c.PostgresDSN())
}
