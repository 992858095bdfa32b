package quiz

import (
	"strings"
	"sync"
	"time"
)

// memoryStore: fallback backend when Valkey is disabled. TTL handling
// mirrors the external store so behavior does not depend on the backend.
type memoryStore struct {
	ttl time.Duration

	mu        sync.Mutex
	sessions  map[string]Session
	expiresAt map[string]time.Time
}

func newMemoryStore(ttl time.Duration) *memoryStore {
	return &memoryStore{
		ttl:       ttl,
		sessions:  make(map[string]Session),
		expiresAt: make(map[string]time.Time),
	}
}

func (m *memoryStore) set(session Session) error {
	now := time.Now()
	m.mu.Lock()
	m.pruneLocked(now)
	m.sessions[session.ID] = session
	if m.ttl > 0 {
		m.expiresAt[session.ID] = now.Add(m.ttl)
	} else {
		delete(m.expiresAt, session.ID)
	}
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) get(sessionID string) (*Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionNotFound
	}

	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked(now)

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := session
	copied.Questions = append([]Question(nil), session.Questions...)
	return &copied, nil
}

func (m *memoryStore) delete(sessionID string) error {
	m.mu.Lock()
	m.pruneLocked(time.Now())
	delete(m.sessions, sessionID)
	delete(m.expiresAt, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked(time.Now())
	return len(m.sessions)
}

func (m *memoryStore) pruneLocked(now time.Time) {
	for sessionID, expiresAt := range m.expiresAt {
		if expiresAt.IsZero() || now.Before(expiresAt) {
			continue
		}
		delete(m.expiresAt, sessionID)
		delete(m.sessions, sessionID)
	}
}
