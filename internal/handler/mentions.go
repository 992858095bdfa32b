package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kapu/vibecheck-analytics-go/internal/analytics"
)

// MentionsHandler serves the directed mention graph.
type MentionsHandler struct {
	service *analytics.Service
	logger  *slog.Logger
}

// NewMentionsHandler creates the mentions handler.
func NewMentionsHandler(service *analytics.Service, logger *slog.Logger) *MentionsHandler {
	return &MentionsHandler{service: service, logger: logger}
}

// RegisterRoutes registers the mention routes.
func (h *MentionsHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/mentions/graph", h.handleGraph)
}

func (h *MentionsHandler) handleGraph(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}
	graph, err := h.service.MentionGraph(c.Request.Context(), window)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}
