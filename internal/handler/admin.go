package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kapu/vibecheck-analytics-go/internal/analytics"
	"github.com/kapu/vibecheck-analytics-go/internal/handler/shared"
	"github.com/kapu/vibecheck-analytics-go/internal/metrics"
	"github.com/kapu/vibecheck-analytics-go/internal/quiz"
)

// AdminHandler serves the operational endpoints.
type AdminHandler struct {
	service *analytics.Service
	store   quiz.Storage
	metrics *metrics.Store
	logger  *slog.Logger
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(service *analytics.Service, store quiz.Storage, metricsStore *metrics.Store, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{service: service, store: store, metrics: metricsStore, logger: logger}
}

// RegisterRoutes registers the admin routes.
func (h *AdminHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/admin")
	group.POST("/refresh", h.handleRefresh)
	group.GET("/metrics", h.handleMetrics)
}

// handleRefresh drops the memoized snapshots so the next query re-reads
// the archive.
func (h *AdminHandler) handleRefresh(c *gin.Context) {
	h.service.Refresh()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) handleMetrics(c *gin.Context) {
	snapshot := h.metrics.Snapshot()

	sessions, err := h.store.Count(c.Request.Context())
	if err != nil {
		shared.LogError(h.logger, "admin_metrics", err)
		sessions = -1
	}

	c.JSON(http.StatusOK, gin.H{
		"queries":       snapshot,
		"quiz_sessions": sessions,
	})
}
