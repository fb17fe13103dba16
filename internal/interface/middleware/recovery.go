package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/secure-users-api/pkg/apperr"
	"github.com/oksasatya/secure-users-api/pkg/response"
)

// Recovery turns a panic into an InternalFailure envelope and logs it.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("request_id"),
			"panic":      recovered,
		}).Error("panic recovered")
		response.Fail(c, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
	})
}
