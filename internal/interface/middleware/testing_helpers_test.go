package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/secure-users-api/pkg/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("connection refused")
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestEngine mounts the pipeline and echo routes that return the sanitized request data.
func newTestEngine(opts SecurityOptions) *gin.Engine {
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = 10 << 10
	}
	if opts.ResourcePrefix == "" {
		opts.ResourcePrefix = "/api/users"
	}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	r := gin.New()
	r.Use(RequestIDMiddleware(), RealIP(false))
	r.Use(NewPipeline(opts.Logger, SecurityStages(opts)...).Bypass("/health").Handler())

	echo := func(c *gin.Context) {
		d := Data(c)
		c.JSON(http.StatusOK, gin.H{"body": d.Body, "query": d.Query, "params": d.Params})
	}
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "OK"}) })
	r.GET("/api/users", echo)
	r.POST("/api/users", echo)
	r.GET("/api/users/:id", echo)
	r.PATCH("/api/users/:id", echo)
	r.GET("/other", echo)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
