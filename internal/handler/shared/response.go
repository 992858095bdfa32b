package shared

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/kapu/vibecheck-analytics-go/internal/httperror"
	"github.com/kapu/vibecheck-analytics-go/internal/middleware"
)

// WriteError writes the error envelope with the request ID attached.
func WriteError(c *gin.Context, err error) {
	if c == nil {
		return
	}
	status, payload := httperror.Response(err, middleware.GetRequestID(c))
	c.JSON(status, payload)
}

// BindJSON parses the request body as JSON, writing the validation error
// on failure.
func BindJSON(c *gin.Context, out any) bool {
	if c == nil {
		return false
	}
	if err := c.ShouldBindJSON(out); err != nil {
		WriteError(c, httperror.NewValidationError(err))
		return false
	}
	return true
}

// BindJSONAllowEmpty parses like BindJSON but tolerates an empty body.
func BindJSONAllowEmpty(c *gin.Context, out any) bool {
	if c == nil {
		return false
	}
	if err := c.ShouldBindJSON(out); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		WriteError(c, httperror.NewValidationError(err))
		return false
	}
	return true
}
