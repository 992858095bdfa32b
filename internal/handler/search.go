package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kapu/vibecheck-analytics-go/internal/analytics"
	"github.com/kapu/vibecheck-analytics-go/internal/handler/shared"
	"github.com/kapu/vibecheck-analytics-go/internal/httperror"
)

// SearchHandler serves the message text search.
type SearchHandler struct {
	service *analytics.Service
	logger  *slog.Logger
}

// NewSearchHandler creates the search handler.
func NewSearchHandler(service *analytics.Service, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{service: service, logger: logger}
}

// RegisterRoutes registers the search routes.
func (h *SearchHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/search", h.handleSearch)
}

type searchQuery struct {
	Q     string `json:"q"`
	Limit int    `json:"limit"`
}

func (h *SearchHandler) handleSearch(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	raw := map[string]any{}
	if value := c.Query("q"); value != "" {
		raw["q"] = value
	}
	if value := c.Query("limit"); value != "" {
		raw["limit"] = value
	}

	var query searchQuery
	if err := shared.Decode(raw, &query); err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}
	if query.Q == "" {
		writeError(c, httperror.NewMissingField("q"))
		return
	}

	result, err := h.service.Search(c.Request.Context(), window, query.Q, query.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
