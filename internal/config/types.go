package config

import (
	"net"
	"net/url"
	"strconv"
)

// LoggingConfig: logging settings.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig: HTTP server settings.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
	GzipEnabled  bool
}

// HTTPAuthConfig: API key auth settings.
type HTTPAuthConfig struct {
	APIKey   string
	Required bool
}

// HTTPRateLimitConfig: request throttling settings.
type HTTPRateLimitConfig struct {
	RequestsPerMinute int
	CacheSize         int
	CacheTTLSeconds   int
}

// DatabaseConfig: record store connection settings.
// Driver selects between the archive sqlite file (default) and postgres.
type DatabaseConfig struct {
	Driver                 string // "sqlite" or "postgres"
	SQLitePath             string
	Host                   string
	Port                   int
	Name                   string
	User                   string
	Password               string
	MaxPool                int
	ConnMaxLifetimeMinutes int
}

// PostgresDSN: postgres connection string.
func (d DatabaseConfig) PostgresDSN() string {
	host := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	u := &url.URL{
		Scheme: "postgresql",
		Host:   host,
		Path:   "/" + d.Name,
	}
	if d.Password == "" {
		u.User = url.User(d.User)
	} else {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// CacheConfig: derived-result memoization settings.
type CacheConfig struct {
	MaxSize    int
	TTLSeconds int
}

// QuizConfig: quiz session settings.
type QuizConfig struct {
	SessionTTLMinutes int
	QuotePoolSize     int
	MaxQuestions      int
}

// SessionStoreConfig: Valkey-backed quiz session storage settings.
// When disabled the in-memory backend is used.
type SessionStoreConfig struct {
	URL          string
	Enabled      bool
	Required     bool
	DisableCache bool
}

// LexiconConfig: lexical extraction settings.
type LexiconConfig struct {
	TopK        int
	RulepackDir string // optional override of the embedded lexical rulepack
	Workers     int
}

// MentionsConfig: mention graph presentation policy.
// Matrix axes sort ascending by volume unless MatrixDescending is set.
type MentionsConfig struct {
	MatrixDescending bool
	TopN             int
}

// StatsConfig: aggregation policy knobs.
type StatsConfig struct {
	// ForwardedReactions keeps forwarded messages in the reaction leaderboard,
	// the single exception to the forwarded exclusion rule.
	ForwardedReactions bool
}

// ParticipantsConfig: location of the participants YAML document.
type ParticipantsConfig struct {
	Path string
}

// Config: whole application settings.
type Config struct {
	Logging       LoggingConfig
	HTTP          HTTPConfig
	HTTPAuth      HTTPAuthConfig
	HTTPRateLimit HTTPRateLimitConfig
	Database      DatabaseConfig
	Cache         CacheConfig
	Quiz          QuizConfig
	SessionStore  SessionStoreConfig
	Lexicon       LexiconConfig
	Mentions      MentionsConfig
	Stats         StatsConfig
	Participants  ParticipantsConfig
}
