package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/secure-users-api/internal/interface/middleware"
)

type EngineOptions struct {
	Logger         *logrus.Logger
	AccessLog      bool
	TrustForwarded bool
	Pipeline       *middleware.Pipeline
}

// NewEngine builds the gin engine with the global middleware chain:
// recovery, request id, client ip, access log, then the request pipeline.
func NewEngine(opts EngineOptions) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(opts.Logger),
		middleware.RequestIDMiddleware(),
		middleware.RealIP(opts.TrustForwarded),
	)
	if opts.AccessLog {
		r.Use(middleware.AccessLog(opts.Logger))
	}
	if opts.Pipeline != nil {
		r.Use(opts.Pipeline.Handler())
	}
	r.NoRoute(NotFound)
	return r
}

// NotFound answers every unmatched route or method.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":   "Not Found",
		"message": "Route " + c.Request.Method + " " + c.Request.URL.Path + " not found",
	})
}
