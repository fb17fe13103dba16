package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UnderRoute matches requests routed to a template starting with prefix.
// Unmatched routes have no template and never match.
func UnderRoute(prefix string) func(*gin.Context) bool {
	return func(c *gin.Context) bool {
		fp := c.FullPath()
		return fp != "" && strings.HasPrefix(fp, prefix)
	}
}

// Mutating matches requests under prefix that create, replace, patch or delete.
func Mutating(prefix string) func(*gin.Context) bool {
	under := UnderRoute(prefix)
	return func(c *gin.Context) bool {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			return under(c)
		}
		return false
	}
}
