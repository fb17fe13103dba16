package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/secure-users-api/pkg/apperr"
)

const requestDataKey = "request_data"

// RequestData is the decoded request as seen by the pipeline. Stages never
// mutate it in place; each one stores a rebuilt copy.
type RequestData struct {
	Body   any
	Query  map[string]any
	Params map[string]any
}

// Data returns the request data stored by the pipeline. Without a pipeline it
// falls back to the raw query and route params, with no body.
func Data(c *gin.Context) *RequestData {
	if v, ok := c.Get(requestDataKey); ok {
		if d, ok := v.(*RequestData); ok {
			return d
		}
	}
	return &RequestData{Query: rawQuery(c), Params: rawParams(c)}
}

func setData(c *gin.Context, d *RequestData) { c.Set(requestDataKey, d) }

// SizeGuard rejects bodies larger than max bytes before anything reads them.
func SizeGuard(max int64) Stage {
	return Stage{
		Name: "size-guard",
		Run: func(c *gin.Context) error {
			if c.Request.ContentLength > max {
				return apperr.PayloadTooLarge(max)
			}
			if c.Request.Body != nil {
				c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
			}
			return nil
		},
	}
}

// BodyParser decodes the JSON body and snapshots query and route params.
func BodyParser(max int64) Stage {
	return Stage{
		Name: "body-parser",
		Run: func(c *gin.Context) error {
			body, err := decodeBody(c)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					return apperr.PayloadTooLarge(max)
				}
				return err
			}
			setData(c, &RequestData{Body: body, Query: rawQuery(c), Params: rawParams(c)})
			return nil
		},
	}
}

func decodeBody(c *gin.Context) (any, error) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil, nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, apperr.Validation("Invalid JSON payload", map[string]any{"field": "payload", "message": err.Error()})
	}
	if dec.More() {
		return nil, apperr.Validation("Invalid JSON payload", map[string]any{"field": "payload", "message": "unexpected data after JSON value"})
	}
	return body, nil
}

// rawQuery keeps single values as strings and repeated keys as []any.
func rawQuery(c *gin.Context) map[string]any {
	q := c.Request.URL.Query()
	out := make(map[string]any, len(q))
	for k, vs := range q {
		if len(vs) == 1 {
			out[k] = vs[0]
			continue
		}
		list := make([]any, len(vs))
		for i, v := range vs {
			list[i] = v
		}
		out[k] = list
	}
	return out
}

func rawParams(c *gin.Context) map[string]any {
	out := make(map[string]any, len(c.Params))
	for _, p := range c.Params {
		out[p.Key] = p.Value
	}
	return out
}
