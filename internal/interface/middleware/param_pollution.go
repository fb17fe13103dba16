package middleware

import (
	"github.com/gin-gonic/gin"
)

// ParamNormalizer collapses repeated query keys, and arrays at the top level of a
// JSON body object, to their last value. Keys in allow keep their arrays.
func ParamNormalizer(allow ...string) Stage {
	keep := make(map[string]struct{}, len(allow))
	for _, k := range allow {
		keep[k] = struct{}{}
	}
	return Stage{
		Name: "param-normalizer",
		Run: func(c *gin.Context) error {
			d := Data(c)
			next := &RequestData{Body: d.Body, Query: collapse(d.Query, keep), Params: d.Params}
			if obj, ok := d.Body.(map[string]any); ok {
				next.Body = collapse(obj, keep)
			}
			setData(c, next)
			return nil
		},
	}
}

func collapse(in map[string]any, keep map[string]struct{}) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		list, isList := v.([]any)
		if _, ok := keep[k]; ok || !isList {
			out[k] = v
			continue
		}
		if len(list) == 0 {
			continue
		}
		out[k] = list[len(list)-1]
	}
	return out
}
