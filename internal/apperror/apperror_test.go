package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("load quotation: %w", NotFound("quotation", "42"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[*Error]int{
		Validation("bad"):                  http.StatusBadRequest,
		ImportFormat(errors.New("eof")):    http.StatusBadRequest,
		NotFound("template", "x"):          http.StatusNotFound,
		StorageUnavailable(nil):            http.StatusServiceUnavailable,
		Conflict("exists"):                 http.StatusConflict,
		Unauthorized("login"):              http.StatusUnauthorized,
		RateLimited("slow down"):           http.StatusTooManyRequests,
		Internal(errors.New("disk broken")): http.StatusInternalServerError,
	}
	for err, status := range cases {
		assert.Equal(t, status, err.HTTPStatus(), err.Error())
	}
}

func TestAsWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("boom")
	appErr := As(cause)

	assert.Equal(t, KindInternal, appErr.Kind)
	assert.ErrorIs(t, appErr, cause)
	assert.Nil(t, As(nil))
}
