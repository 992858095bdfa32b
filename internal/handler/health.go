package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kapu/vibecheck-analytics-go/internal/quiz"
	"github.com/kapu/vibecheck-analytics-go/internal/repository"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	repo  *repository.Repository
	store quiz.Storage
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(repo *repository.Repository, store quiz.Storage) *HealthHandler {
	return &HealthHandler{repo: repo, store: store}
}

// RegisterRoutes registers the health routes.
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.handleHealth)
	router.GET("/health/ready", h.handleReady)
}

func (h *HealthHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "vibecheck-analytics",
	})
}

// handleReady checks the record store and the session store. Readiness
// fails when either backing store is unreachable.
func (h *HealthHandler) handleReady(c *gin.Context) {
	ctx := c.Request.Context()
	components := gin.H{}
	healthy := true

	if err := h.repo.Ping(ctx); err != nil {
		components["record_store"] = err.Error()
		healthy = false
	} else {
		components["record_store"] = "ok"
	}

	if err := h.store.Ping(ctx); err != nil {
		components["session_store"] = err.Error()
		healthy = false
	} else {
		components["session_store"] = "ok"
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "components": components})
}
