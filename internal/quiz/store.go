package quiz

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/kapu/vibecheck-analytics-go/internal/config"
)

var (
	// ErrSessionNotFound marks a missing or expired quiz session.
	ErrSessionNotFound = errors.New("quiz session not found")
)

// Storage persists quiz sessions between answer submissions.
// Tests inject mock implementations through this interface.
type Storage interface {
	Create(ctx context.Context, session Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, session Session) error
	Delete(ctx context.Context, sessionID string) error
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close()
}

type storeBackend int

const (
	storeBackendMemory storeBackend = iota
	storeBackendValkey
)

// Store keeps quiz sessions in Valkey, or in memory when the external store
// is disabled. Sessions are stored as one zstd-compressed JSON blob under a
// TTL; a session that outlives the TTL simply restarts.
type Store struct {
	client  valkey.Client
	backend storeBackend
	ttl     time.Duration

	memory *memoryStore
}

var _ Storage = (*Store)(nil)

// NewStore builds the configured backend.
func NewStore(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	ttl := time.Duration(cfg.Quiz.SessionTTLMinutes) * time.Minute

	if !cfg.SessionStore.Enabled {
		if cfg.SessionStore.Required {
			return nil, errors.New("session store required but disabled")
		}
		return &Store{
			backend: storeBackendMemory,
			ttl:     ttl,
			memory:  newMemoryStore(ttl),
		}, nil
	}

	conn, err := parseStoreURL(cfg.SessionStore.URL)
	if err != nil {
		return nil, fmt.Errorf("parse session store url: %w", err)
	}

	var tlsConfig *tls.Config
	if conn.useTLS {
		host, _, splitErr := net.SplitHostPort(conn.addr)
		if splitErr != nil {
			return nil, fmt.Errorf("parse session store addr: %w", splitErr)
		}
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		TLSConfig:    tlsConfig,
		Username:     conn.username,
		Password:     conn.password,
		InitAddress:  []string{conn.addr},
		SelectDB:     conn.selectDB,
		DisableCache: cfg.SessionStore.DisableCache,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to valkey: %w", err)
	}

	return &Store{
		client:  client,
		backend: storeBackendValkey,
		ttl:     ttl,
	}, nil
}

// Close releases the Valkey connection.
func (s *Store) Close() {
	if s == nil {
		return
	}
	if s.backend == storeBackendValkey && s.client != nil {
		s.client.Close()
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("quiz:%s", sessionID)
}

// Create stores a fresh session under the configured TTL.
func (s *Store) Create(ctx context.Context, session Session) error {
	if s.backend == storeBackendMemory {
		return s.memory.set(session)
	}
	return s.write(ctx, session)
}

// Get loads a session; expired or unknown IDs yield ErrSessionNotFound.
func (s *Store) Get(ctx context.Context, sessionID string) (*Session, error) {
	if s.backend == storeBackendMemory {
		return s.memory.get(sessionID)
	}

	cmd := s.client.B().Get().Key(sessionKey(sessionID)).Build()
	blob, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get quiz session: %w", err)
	}

	data, err := decompressZstd(blob)
	if err != nil {
		return nil, fmt.Errorf("decode quiz session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal quiz session: %w", err)
	}
	return &session, nil
}

// Update rewrites the session and refreshes its TTL.
func (s *Store) Update(ctx context.Context, session Session) error {
	session.UpdatedAt = time.Now()
	if s.backend == storeBackendMemory {
		return s.memory.set(session)
	}
	return s.write(ctx, session)
}

// Delete drops the session. Deleting an unknown ID is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if s.backend == storeBackendMemory {
		return s.memory.delete(sessionID)
	}

	cmd := s.client.B().Del().Key(sessionKey(sessionID)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil && !valkey.IsValkeyNil(err) {
		return fmt.Errorf("delete quiz session: %w", err)
	}
	return nil
}

// Count reports the live session count, SCAN-based to avoid blocking KEYS.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.backend == storeBackendMemory {
		return s.memory.count(), nil
	}

	var count int
	var cursor uint64
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match("quiz:*").Count(100).Build()
		result, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return 0, fmt.Errorf("scan quiz sessions: %w", err)
		}
		count += len(result.Elements)
		cursor = result.Cursor
		if cursor == 0 {
			break
		}
	}
	return count, nil
}

// Ping verifies the backend connection.
func (s *Store) Ping(ctx context.Context) error {
	if s.backend == storeBackendMemory {
		return nil
	}
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping valkey: %w", err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal quiz session: %w", err)
	}
	blob, err := compressZstd(data)
	if err != nil {
		return fmt.Errorf("compress quiz session: %w", err)
	}

	builder := s.client.B().Set().Key(sessionKey(session.ID)).Value(valkey.BinaryString(blob))
	var cmd valkey.Completed
	if s.ttl > 0 {
		cmd = builder.Ex(s.ttl).Build()
	} else {
		cmd = builder.Build()
	}
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("write quiz session: %w", err)
	}
	return nil
}
