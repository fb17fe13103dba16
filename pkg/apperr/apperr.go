package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure into one of the error responses the API can produce.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindQuotaExceeded
	KindPayloadTooLarge
	KindSuspicious
)

var kindStatus = map[Kind]int{
	KindInternal:        http.StatusInternalServerError,
	KindValidation:      http.StatusBadRequest,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindQuotaExceeded:   http.StatusTooManyRequests,
	KindPayloadTooLarge: http.StatusRequestEntityTooLarge,
	KindSuspicious:      http.StatusBadRequest,
}

var kindName = map[Kind]string{
	KindInternal:        "InternalFailure",
	KindValidation:      "ValidationFailure",
	KindNotFound:        "NotFound",
	KindConflict:        "Conflict",
	KindQuotaExceeded:   "QuotaExceeded",
	KindPayloadTooLarge: "PayloadTooLarge",
	KindSuspicious:      "SuspiciousContent",
}

func (k Kind) String() string { return kindName[k] }

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int { return kindStatus[k] }

// Error is a classified failure. Details is rendered to clients, Err never is.
type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error.
func (e *Error) Status() int { return e.Kind.Status() }

func Validation(message string, details any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func NotFound(resource string, id any) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found", Details: map[string]any{"resource": resource, "id": id}}
}

func Conflict(message string, details any) *Error {
	return &Error{Kind: KindConflict, Message: message, Details: details}
}

func QuotaExceeded(limiter string, resetAt any) *Error {
	return &Error{Kind: KindQuotaExceeded, Message: "Too many requests, please try again later", Details: map[string]any{"limiter": limiter, "reset": resetAt}}
}

func PayloadTooLarge(limit int64) *Error {
	return &Error{Kind: KindPayloadTooLarge, Message: "Payload too large", Details: map[string]any{"limit_bytes": limit}}
}

// Suspicious reports a value that looks like an injection attempt. location is
// body, query or params; path is the dotted path of the offending leaf.
func Suspicious(location, path string) *Error {
	return &Error{Kind: KindSuspicious, Message: "Suspicious content detected", Details: map[string]any{"location": location, "field": path}}
}

// SuspiciousFields reports markup or script idioms found across a set of fields.
func SuspiciousFields(fields []string, pattern string) *Error {
	return &Error{Kind: KindSuspicious, Message: "Suspicious content detected", Details: map[string]any{"location": "body", "fields": fields, "pattern": pattern}}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// From classifies err. Anything that is not already an *Error is internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}
