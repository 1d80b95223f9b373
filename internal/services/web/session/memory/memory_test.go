package memory

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/razzo/internal/services/web/session"
)

func TestCreateGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New()
	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	sess := session.Session{ID: "s1", Token: "tok", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, ok, err := store.Get(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if got.Token != "tok" {
		t.Fatalf("Token = %q, want tok", got.Token)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, "s1"); ok {
		t.Fatal("session still present after Delete")
	}
}

func TestGetDropsExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New()
	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if err := store.Create(ctx, session.Session{ID: "s1", Token: "tok", ExpiresAt: now}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, ok, err := store.Get(ctx, "s1"); ok || err != nil {
		t.Fatalf("Get() = %v, %v, want miss", ok, err)
	}
	if len(store.sessions) != 0 {
		t.Fatalf("expired session not removed")
	}
}

func TestCreateRejectsInvalidSession(t *testing.T) {
	t.Parallel()

	if err := New().Create(context.Background(), session.Session{ID: "s1"}); err == nil {
		t.Fatal("expected missing token error")
	}
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := New().Get(ctx, "s1"); err == nil {
		t.Fatal("expected context error")
	}
}
