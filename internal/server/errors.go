package server

import (
	"net/http"

	"github.com/dovepeak/quotemaster/internal/apperror"
	"github.com/gin-gonic/gin"
)

type errorPayload struct {
	Type    string                `json:"type"`
	Message string                `json:"message"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware writes the last handler error as the JSON error body.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return apperror.Validation("invalid request", apperror.Field("request", "invalid_request", "request body could not be read"))
}

func mapError(err error) (int, errorPayload) {
	appErr := apperror.As(err)
	if appErr == nil {
		appErr = apperror.Internal(nil)
	}
	payload := errorPayload{
		Type:    string(appErr.Kind),
		Message: appErr.Message,
		Errors:  appErr.Fields,
	}
	if appErr.Kind == apperror.KindInternal {
		payload.Message = http.StatusText(http.StatusInternalServerError)
	}
	return appErr.HTTPStatus(), payload
}
