package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
)

// setupTestSessionStore creates a test Redis client and SessionStore
func setupTestSessionStore(t *testing.T) (*SessionStore, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewSessionStore(client)

	return store, mr, func() {
		client.Close()
		mr.Close()
	}
}

// createTestSession creates a test session with default values
func createTestSession(id, userID string) *domain.Session {
	return &domain.Session{
		ID:           id,
		UserID:       userID,
		Token:        "token-" + id,
		RefreshToken: "refresh-" + id,
		ExpiresAt:    time.Now().Add(24 * time.Hour),
		CreatedAt:    time.Now(),
		UserAgent:    "Mozilla/5.0",
		IPAddress:    "192.168.1.1",
	}
}

func TestSessionStore_Save_Success(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()

	ctx := context.Background()
	session := createTestSession("session-1", "user-1")

	err := store.Save(ctx, session)
	if err != nil {
		t.Fatalf("unexpected error saving session: %v", err)
	}

	retrieved, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("failed to retrieve saved session: %v", err)
	}

	if retrieved.ID != session.ID {
		t.Errorf("expected ID %s, got %s", session.ID, retrieved.ID)
	}
	if retrieved.UserID != session.UserID {
		t.Errorf("expected UserID %s, got %s", session.UserID, retrieved.UserID)
	}
	if retrieved.Token != session.Token {
		t.Errorf("expected Token %s, got %s", session.Token, retrieved.Token)
	}
}

func TestSessionStore_Save_ExpiredSession(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()

	ctx := context.Background()
	session := createTestSession("session-1", "user-1")
	session.ExpiresAt = time.Now().Add(-1 * time.Hour) // Already expired

	err := store.Save(ctx, session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Expired sessions are not stored.
	if _, err := store.Get(ctx, session.ID); err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionStore_Get_NotFound(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "nonexistent")
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionStore_GetByRefreshToken(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()

	ctx := context.Background()
	session := createTestSession("session-1", "user-1")
	_ = store.Save(ctx, session)

	retrieved, err := store.GetByRefreshToken(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retrieved.ID != session.ID {
		t.Errorf("expected ID %s, got %s", session.ID, retrieved.ID)
	}

	if _, err := store.GetByRefreshToken(ctx, "unknown-refresh"); err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()

	ctx := context.Background()
	session := createTestSession("session-1", "user-1")
	_ = store.Save(ctx, session)

	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Get(ctx, session.ID); err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Refresh token index is cleaned up too.
	if _, err := store.GetByRefreshToken(ctx, session.RefreshToken); err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound via refresh token, got %v", err)
	}

	// Deleting a missing session is a no-op.
	if err := store.Delete(ctx, "nonexistent"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSessionStore_DeleteByUser(t *testing.T) {
	store, _, cleanup := setupTestSessionStore(t)
	defer cleanup()

	ctx := context.Background()
	_ = store.Save(ctx, createTestSession("session-1", "user-1"))
	_ = store.Save(ctx, createTestSession("session-2", "user-1"))
	other := createTestSession("session-3", "user-2")
	_ = store.Save(ctx, other)

	if err := store.DeleteByUser(ctx, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []string{"session-1", "session-2"} {
		if _, err := store.Get(ctx, id); err != domain.ErrNotFound {
			t.Errorf("expected %s deleted, got %v", id, err)
		}
	}

	// Other users' sessions survive.
	if _, err := store.Get(ctx, other.ID); err != nil {
		t.Errorf("expected other user's session to remain, got %v", err)
	}
}

func TestSessionStore_TTLExpiry(t *testing.T) {
	store, mr, cleanup := setupTestSessionStore(t)
	defer cleanup()

	ctx := context.Background()
	session := createTestSession("session-1", "user-1")
	session.ExpiresAt = time.Now().Add(1 * time.Minute)
	_ = store.Save(ctx, session)

	// Advance miniredis past the TTL.
	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, session.ID); err != domain.ErrNotFound {
		t.Errorf("expected session expired via TTL, got %v", err)
	}
}
