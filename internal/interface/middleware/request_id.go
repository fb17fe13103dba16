package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

var inboundRequestID = regexp.MustCompile(`^[A-Za-z0-9\-]{8,64}$`)

// RequestIDMiddleware injects a unique request_id into the Gin context for every request.
// A well-formed inbound X-Request-ID is kept so callers can correlate logs.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if !inboundRequestID.MatchString(id) {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
