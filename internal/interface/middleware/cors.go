package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS answers preflight requests and decorates cross-origin responses for the
// given origins. A preflight or a refused origin ends the pipeline without an
// error envelope.
func CORS(origins []string) Stage {
	handler := cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", HeaderRequestID},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After", HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
	return Stage{
		Name:   "cors",
		Always: true,
		Run: func(c *gin.Context) error {
			handler(c)
			return nil
		},
	}
}
