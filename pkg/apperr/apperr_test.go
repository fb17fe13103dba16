package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := map[Kind]int{
		KindInternal:        http.StatusInternalServerError,
		KindValidation:      http.StatusBadRequest,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindQuotaExceeded:   http.StatusTooManyRequests,
		KindPayloadTooLarge: http.StatusRequestEntityTooLarge,
		KindSuspicious:      http.StatusBadRequest,
	}
	for k, status := range tests {
		assert.Equal(t, status, k.Status(), k.String())
	}
}

func TestFrom(t *testing.T) {
	nf := NotFound("User", int64(7))
	wrapped := fmt.Errorf("lookup: %w", nf)
	assert.Same(t, nf, From(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))

	cause := errors.New("conn reset")
	ae := From(cause)
	assert.Equal(t, KindInternal, ae.Kind)
	assert.ErrorIs(t, ae, cause)
	assert.False(t, IsKind(cause, KindInternal))
}
