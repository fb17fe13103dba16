package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/secure-users-api/pkg/apperr"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// exposeInternal controls whether internal error detail reaches clients.
// Set once at startup from the environment.
var exposeInternal = false

// ExposeInternalErrors toggles internal error detail in 500 responses (development only).
func ExposeInternalErrors(on bool) { exposeInternal = on }

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// ListResponse always carries count and data, even for an empty collection.
type ListResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Count     int       `json:"count"`
	Data      []T       `json:"data"`
}

// List writes a successful collection response including the item count.
func List[T any](ctx *gin.Context, items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	resp := ListResponse[T]{
		Status:    http.StatusOK,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Count:     len(items),
		Data:      items,
	}
	ctx.JSON(http.StatusOK, resp)
	return resp
}

func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}

// Fail classifies err and writes the matching error envelope, aborting the chain.
func Fail(ctx *gin.Context, err error) APIResponse[any] {
	ae := apperr.From(err)
	if ae.Kind == apperr.KindInternal {
		var detail interface{} = ae.Kind.String()
		if exposeInternal && ae.Err != nil {
			detail = ae.Err.Error()
		}
		return Error[any](ctx, ae.Status(), ae.Message, detail)
	}
	body := map[string]interface{}{"type": ae.Kind.String()}
	if ae.Details != nil {
		body["details"] = ae.Details
	}
	return Error[any](ctx, ae.Status(), ae.Message, body)
}
