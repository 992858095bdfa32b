package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kapu/vibecheck-analytics-go/internal/analytics"
)

// LexiconHandler serves the per-participant lemma profiles.
type LexiconHandler struct {
	service *analytics.Service
	logger  *slog.Logger
}

// NewLexiconHandler creates the lexicon handler.
func NewLexiconHandler(service *analytics.Service, logger *slog.Logger) *LexiconHandler {
	return &LexiconHandler{service: service, logger: logger}
}

// RegisterRoutes registers the lexicon routes.
func (h *LexiconHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/lexicon", h.handleLexicon)
}

func (h *LexiconHandler) handleLexicon(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}
	profiles, err := h.service.Lexicon(c.Request.Context(), window)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}
