package di

import (
	"fmt"

	"github.com/kapu/vibecheck-analytics-go/internal/analytics"
	"github.com/kapu/vibecheck-analytics-go/internal/config"
	"github.com/kapu/vibecheck-analytics-go/internal/handler"
	"github.com/kapu/vibecheck-analytics-go/internal/lexicon"
	"github.com/kapu/vibecheck-analytics-go/internal/mentions"
	"github.com/kapu/vibecheck-analytics-go/internal/metrics"
	"github.com/kapu/vibecheck-analytics-go/internal/quiz"
	"github.com/kapu/vibecheck-analytics-go/internal/repository"
	"github.com/kapu/vibecheck-analytics-go/internal/rulepack"
	"github.com/kapu/vibecheck-analytics-go/internal/server"
	"github.com/kapu/vibecheck-analytics-go/internal/stats"
)

// InitializeApp builds the full dependency graph and returns the App.
func InitializeApp() (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	participants, err := config.LoadParticipants(cfg.Participants.Path)
	if err != nil {
		return nil, fmt.Errorf("participants: %w", err)
	}

	repo, err := repository.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("record store: %w", err)
	}

	sessionStore, err := quiz.NewStore(cfg)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("session store: %w", err)
	}

	pack := rulepack.Load(cfg.Lexicon.RulepackDir, logger)
	enricher := stats.NewEnricher(pack)
	engine := stats.NewEngine(cfg.Stats)
	extractor := lexicon.NewExtractor(ProvideAnalyzer(), pack, cfg.Lexicon)
	graphBuilder := mentions.NewBuilder(participants, cfg.Mentions)

	rng := ProvideRand()
	generator := quiz.NewGenerator(engine, rng, cfg.Quiz)
	metricsStore := metrics.NewStore()

	service := analytics.NewService(
		repo,
		enricher,
		engine,
		extractor,
		graphBuilder,
		generator,
		participants,
		metricsStore,
		cfg.Cache,
		logger,
	)

	router := handler.NewRouter(cfg, logger,
		handler.NewHealthHandler(repo, sessionStore),
		handler.NewStatsHandler(service, logger),
		handler.NewLexiconHandler(service, logger),
		handler.NewMentionsHandler(service, logger),
		handler.NewSearchHandler(service, logger),
		handler.NewQuizHandler(service, sessionStore, rng, logger),
		handler.NewAdminHandler(service, sessionStore, metricsStore, logger),
	)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, service, repo, sessionStore), nil
}
