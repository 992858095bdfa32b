package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kapu/vibecheck-analytics-go/internal/handler/shared"
)

// writeError delegates to shared.WriteError.
func writeError(c *gin.Context, err error) {
	shared.WriteError(c, err)
}

// bindJSON delegates to shared.BindJSON.
func bindJSON(c *gin.Context, out any) bool {
	return shared.BindJSON(c, out)
}

// bindJSONAllowEmpty delegates to shared.BindJSONAllowEmpty.
func bindJSONAllowEmpty(c *gin.Context, out any) bool {
	return shared.BindJSONAllowEmpty(c, out)
}
