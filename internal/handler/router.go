// Package handler exposes the analytics engine over HTTP.
package handler

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/kapu/vibecheck-analytics-go/internal/config"
	"github.com/kapu/vibecheck-analytics-go/internal/middleware"
)

// RouteRegistrar attaches one handler's routes to the engine.
type RouteRegistrar interface {
	RegisterRoutes(router *gin.Engine)
}

// NewRouter builds the gin engine with the middleware chain and every
// registered handler's routes.
func NewRouter(cfg *config.Config, logger *slog.Logger, handlers ...RouteRegistrar) *gin.Engine {
	setGinMode(cfg.Logging.Level)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		middleware.APIKeyAuth(cfg),
		middleware.RateLimit(cfg),
	)
	if cfg.HTTP.GzipEnabled {
		router.Use(gzip.Gzip(gzip.DefaultCompression))
	}

	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	return router
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
