package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kapu/vibecheck-analytics-go/internal/config"
)

func newValkeyStore(t *testing.T) *Store {
	mini := miniredis.RunT(t)
	cfg := &config.Config{
		SessionStore: config.SessionStoreConfig{
			URL:          "redis://" + mini.Addr(),
			Enabled:      true,
			DisableCache: true,
		},
		Quiz: config.QuizConfig{SessionTTLMinutes: 1},
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		mini.Close()
	})
	return store
}

func newMemoryBackedStore(t *testing.T) *Store {
	cfg := &config.Config{
		SessionStore: config.SessionStoreConfig{Enabled: false},
		Quiz:         config.QuizConfig{SessionTTLMinutes: 1},
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("failed to create memory store: %v", err)
	}
	return store
}

func TestNewStoreRequiredButDisabled(t *testing.T) {
	cfg := &config.Config{
		SessionStore: config.SessionStoreConfig{Enabled: false, Required: true},
	}
	if _, err := NewStore(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range map[string]*Store{
		"valkey": newValkeyStore(t),
		"memory": newMemoryBackedStore(t),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			session := NewSession(threeQuestions())

			if err := store.Create(ctx, session); err != nil {
				t.Fatalf("create: %v", err)
			}

			loaded, err := store.Get(ctx, session.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if loaded.ID != session.ID || len(loaded.Questions) != 3 {
				t.Fatalf("unexpected loaded session: %+v", loaded)
			}
			if loaded.Questions[0].Answer != "Alice" {
				t.Fatalf("answers must survive the round trip")
			}

			loaded.Submit("Alice")
			if err := store.Update(ctx, *loaded); err != nil {
				t.Fatalf("update: %v", err)
			}
			reloaded, err := store.Get(ctx, session.ID)
			if err != nil {
				t.Fatalf("get after update: %v", err)
			}
			if reloaded.Index != 1 || reloaded.Score != 1 {
				t.Fatalf("progress lost: %+v", reloaded)
			}

			count, err := store.Count(ctx)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if count != 1 {
				t.Fatalf("expected 1 session, got %d", count)
			}

			if err := store.Delete(ctx, session.ID); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Get(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
				t.Fatalf("expected ErrSessionNotFound, got %v", err)
			}
		})
	}
}

func TestStoreGetUnknownSession(t *testing.T) {
	store := newMemoryBackedStore(t)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := store.Get(context.Background(), ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for empty ID, got %v", err)
	}
}

func TestStorePing(t *testing.T) {
	if err := newValkeyStore(t).Ping(context.Background()); err != nil {
		t.Fatalf("valkey ping: %v", err)
	}
	if err := newMemoryBackedStore(t).Ping(context.Background()); err != nil {
		t.Fatalf("memory ping: %v", err)
	}
}
