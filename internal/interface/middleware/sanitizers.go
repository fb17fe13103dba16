package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/secure-users-api/pkg/apperr"
	"github.com/oksasatya/secure-users-api/pkg/sanitize"
)

// KeySanitizer drops operator-looking keys ("$where", "a.b") from body, query and params.
func KeySanitizer() Stage {
	return Stage{
		Name: "key-sanitizer",
		Run: func(c *gin.Context) error {
			d := Data(c)
			setData(c, &RequestData{
				Body:   sanitize.StripOperatorKeys(d.Body),
				Query:  asObject(sanitize.StripOperatorKeys(d.Query)),
				Params: asObject(sanitize.StripOperatorKeys(d.Params)),
			})
			return nil
		},
	}
}

// ContentSanitizer strips markup from every string leaf and keeps the text.
func ContentSanitizer() Stage {
	return Stage{
		Name: "content-sanitizer",
		Run: func(c *gin.Context) error {
			d := Data(c)
			setData(c, &RequestData{
				Body:   sanitize.StripMarkupTree(d.Body),
				Query:  asObject(sanitize.StripMarkupTree(d.Query)),
				Params: asObject(sanitize.StripMarkupTree(d.Params)),
			})
			return nil
		},
	}
}

// InjectionDetector rejects the request at the first string leaf that looks like
// SQL injection. Body is checked first, then query, then params.
func InjectionDetector() Stage {
	return Stage{
		Name: "injection-detector",
		Run: func(c *gin.Context) error {
			d := Data(c)
			for _, loc := range []struct {
				name string
				tree any
			}{
				{"body", d.Body},
				{"query", d.Query},
				{"params", d.Params},
			} {
				if v, found := sanitize.FindInjection(loc.tree); found {
					return apperr.Suspicious(loc.name, v.Path)
				}
			}
			return nil
		},
	}
}

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
