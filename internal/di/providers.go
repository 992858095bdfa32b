package di

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/kapu/vibecheck-analytics-go/internal/config"
	"github.com/kapu/vibecheck-analytics-go/internal/logging"
	"github.com/kapu/vibecheck-analytics-go/internal/morph"
	"github.com/kapu/vibecheck-analytics-go/internal/randx"
)

// ProvideLogger configures and returns the process logger.
func ProvideLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// ProvideAnalyzer builds the cached Russian morphological analyzer.
func ProvideAnalyzer() morph.Analyzer {
	return morph.NewCached(morph.NewRussian(), 4096, time.Hour)
}

// ProvideRand builds the process-wide locked random source.
func ProvideRand() *randx.LockedRand {
	return randx.New(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}
