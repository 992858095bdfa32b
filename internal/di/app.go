// Package di assembles the application object graph.
package di

import (
	"log/slog"
	"net/http"

	"github.com/kapu/vibecheck-analytics-go/internal/analytics"
	"github.com/kapu/vibecheck-analytics-go/internal/config"
	"github.com/kapu/vibecheck-analytics-go/internal/quiz"
	"github.com/kapu/vibecheck-analytics-go/internal/repository"
)

// App bundles the running application's components.
type App struct {
	Server       *http.Server
	Logger       *slog.Logger
	Config       *config.Config
	Service      *analytics.Service
	Repository   *repository.Repository
	SessionStore *quiz.Store
}

// NewApp creates the App instance.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	service *analytics.Service,
	repo *repository.Repository,
	sessionStore *quiz.Store,
) *App {
	return &App{
		Server:       server,
		Logger:       logger,
		Config:       cfg,
		Service:      service,
		Repository:   repo,
		SessionStore: sessionStore,
	}
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.SessionStore != nil {
		a.SessionStore.Close()
	}
	if a.Repository != nil {
		_ = a.Repository.Close()
	}
}
