package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var (
	configOnce  sync.Once
	configValue *Config
)

// Load loads the environment-based configuration once per process.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig loads and validates the configuration.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown db driver: %s", c.Database.Driver)
	}
	if c.Lexicon.TopK <= 0 {
		return fmt.Errorf("lexicon top_k must be positive: %d", c.Lexicon.TopK)
	}
	if c.Quiz.MaxQuestions <= 0 {
		return fmt.Errorf("quiz max_questions must be positive: %d", c.Quiz.MaxQuestions)
	}
	return nil
}

// LogEnvStatus logs the effective environment configuration.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	envFilePresent := fileExists(".env")
	logger.Debug(
		"env_status",
		"env_file", envFilePresent,
		"db_driver", cfg.Database.Driver,
		"db_sqlite_path", cfg.Database.SQLitePath,
		"db_host", cfg.Database.Host,
		"db_name", cfg.Database.Name,
		"db_password", maskSecret(cfg.Database.Password),
		"session_store_url", cfg.SessionStore.URL,
		"session_store_enabled", cfg.SessionStore.Enabled,
		"participants_path", cfg.Participants.Path,
		"lexicon_top_k", cfg.Lexicon.TopK,
		"cache_ttl", cfg.Cache.TTLSeconds,
	)

	if cfg.Participants.Path == "" {
		logger.Warn("env_missing_participants_config")
	}
}

func buildConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:         getEnvString("HTTP_HOST", "127.0.0.1"),
			Port:         getEnvInt("HTTP_PORT", 40811),
			HTTP2Enabled: getEnvBool("HTTP2_ENABLED", true),
			GzipEnabled:  getEnvBool("HTTP_GZIP_ENABLED", true),
		},
		HTTPAuth: HTTPAuthConfig{
			APIKey:   getEnvString("HTTP_API_KEY", ""),
			Required: getEnvBool("HTTP_API_KEY_REQUIRED", false),
		},
		HTTPRateLimit: HTTPRateLimitConfig{
			RequestsPerMinute: getEnvNonNegativeInt("HTTP_RATE_LIMIT_RPM", 0),
			CacheSize:         max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_SIZE", 10000)),
			CacheTTLSeconds:   max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_TTL_SECONDS", 120)),
		},
		Database: DatabaseConfig{
			Driver:                 getEnvString("DB_DRIVER", "sqlite"),
			SQLitePath:             getEnvString("DB_SQLITE_PATH", "vibecheck.db"),
			Host:                   getEnvString("DB_HOST", "localhost"),
			Port:                   getEnvInt("DB_PORT", 5432),
			Name:                   getEnvString("DB_NAME", "vibecheck"),
			User:                   getEnvString("DB_USER", "vibecheck"),
			Password:               getEnvString("DB_PASSWORD", ""),
			MaxPool:                getEnvInt("DB_MAX_POOL", 5),
			ConnMaxLifetimeMinutes: getEnvNonNegativeInt("DB_CONN_MAX_LIFETIME_MINUTES", 60),
		},
		Cache: CacheConfig{
			MaxSize:    getEnvInt("CACHE_MAX_SIZE", 256),
			TTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 300),
		},
		Quiz: QuizConfig{
			SessionTTLMinutes: getEnvInt("QUIZ_SESSION_TTL_MINUTES", 120),
			QuotePoolSize:     getEnvNonNegativeInt("QUIZ_QUOTE_POOL_SIZE", 10),
			MaxQuestions:      getEnvInt("QUIZ_MAX_QUESTIONS", 15),
		},
		SessionStore: SessionStoreConfig{
			URL:          getEnvString("SESSION_STORE_URL", "redis://localhost:6379"),
			Enabled:      getEnvBool("SESSION_STORE_ENABLED", false),
			Required:     getEnvBool("SESSION_STORE_REQUIRED", false),
			DisableCache: getEnvBool("SESSION_STORE_DISABLE_CACHE", false),
		},
		Lexicon: LexiconConfig{
			TopK:        getEnvInt("LEXICON_TOP_K", 10),
			RulepackDir: getEnvString("LEXICON_RULEPACK_DIR", ""),
			Workers:     max(1, getEnvInt("LEXICON_WORKERS", 4)),
		},
		Mentions: MentionsConfig{
			MatrixDescending: getEnvBool("MENTIONS_MATRIX_DESCENDING", false),
			TopN:             max(1, getEnvInt("MENTIONS_TOP_N", 10)),
		},
		Stats: StatsConfig{
			ForwardedReactions: getEnvBool("STATS_FORWARDED_REACTIONS", true),
		},
		Participants: ParticipantsConfig{
			Path: getEnvString("PARTICIPANTS_PATH", "participants.yml"),
		},
	}
}
