package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kapu/vibecheck-analytics-go/internal/analytics"
	"github.com/kapu/vibecheck-analytics-go/internal/httperror"
	"github.com/kapu/vibecheck-analytics-go/internal/stats"
)

// StatsHandler serves the summary, leaderboard, rating and activity views.
type StatsHandler struct {
	service *analytics.Service
	logger  *slog.Logger
}

// NewStatsHandler creates the stats handler.
func NewStatsHandler(service *analytics.Service, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{service: service, logger: logger}
}

// RegisterRoutes registers the stats routes.
func (h *StatsHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/stats")
	group.GET("/bounds", h.handleBounds)
	group.GET("/summary", h.handleSummary)
	group.GET("/leaderboards", h.handleLeaderboards)
	group.GET("/leaderboards/:metric", h.handleLeaderboard)
	group.GET("/ratings", h.handleRatings)
	group.GET("/activity", h.handleActivity)
}

func (h *StatsHandler) handleBounds(c *gin.Context) {
	first, last, ok, err := h.service.DateBounds(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"empty": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"empty": false,
		"from":  first.UTC().Format(time.RFC3339),
		"to":    last.UTC().Format(time.RFC3339),
	})
}

func (h *StatsHandler) handleSummary(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), window)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *StatsHandler) handleLeaderboards(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}
	boards, err := h.service.Leaderboards(c.Request.Context(), window)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboards": boards})
}

// handleLeaderboard serves one metric. The optional agg query param
// overrides the metric's default fold.
func (h *StatsHandler) handleLeaderboard(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	var agg stats.AggFunc
	if raw := c.Query("agg"); raw != "" {
		parsed, err := stats.ParseAggFunc(raw)
		if err != nil {
			writeError(c, httperror.NewInvalidInput(err.Error()))
			return
		}
		agg = parsed
	}

	board, err := h.service.Leaderboard(c.Request.Context(), window, c.Param("metric"), agg)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *StatsHandler) handleRatings(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}
	ratings, err := h.service.Ratings(c.Request.Context(), window)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

func (h *StatsHandler) handleActivity(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}
	activity, err := h.service.Activity(c.Request.Context(), window)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}
