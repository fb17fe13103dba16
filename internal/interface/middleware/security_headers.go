package middleware

import (
	"github.com/gin-gonic/gin"
)

var hardenedHeaders = map[string]string{
	"X-Content-Type-Options":            "nosniff",
	"X-Frame-Options":                   "DENY",
	"X-XSS-Protection":                  "0",
	"X-DNS-Prefetch-Control":            "off",
	"X-Download-Options":                "noopen",
	"X-Permitted-Cross-Domain-Policies": "none",
	"Referrer-Policy":                   "no-referrer",
	"Cross-Origin-Opener-Policy":        "same-origin",
	"Cross-Origin-Resource-Policy":      "same-origin",
	"Content-Security-Policy":           "default-src 'none'; frame-ancestors 'none'; base-uri 'none'",
	"Permissions-Policy":                "camera=(), microphone=(), geolocation=()",
}

// HeaderHardener sets protective response headers and removes the ones that
// reveal the server implementation.
func HeaderHardener(production bool) Stage {
	return Stage{
		Name:   "header-hardener",
		Always: true,
		Run: func(c *gin.Context) error {
			h := c.Writer.Header()
			for k, v := range hardenedHeaders {
				h.Set(k, v)
			}
			if production {
				h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
			}
			h.Del("X-Powered-By")
			h.Del("Server")
			return nil
		},
	}
}
