package testsupport

import (
	"context"
	"testing"

	"plenum/internal/config"
	"plenum/internal/queue"
	"plenum/internal/session"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// BeginSession marks a session as processing for tests.
func BeginSession(t testing.TB, store *queue.Store, id session.ID, runID string) {
	t.Helper()

	if err := store.Begin(context.Background(), id, runID); err != nil {
		t.Fatalf("store.Begin: %v", err)
	}
}
