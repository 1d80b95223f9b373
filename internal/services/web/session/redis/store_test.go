package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/louisbranch/razzo/internal/services/web/session"
)

type fakeEntry struct {
	value []byte
	ttl   time.Duration
}

type fakeRedis struct {
	mu      sync.Mutex
	entries map[string]fakeEntry
	failGet error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{entries: map[string]fakeEntry{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}
	entry, ok := f.entries[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(entry.value), nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = fakeEntry{value: value.([]byte), ttl: expiration}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := f.entries[key]; ok {
			delete(f.entries, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func newTestStore(now time.Time) (*Store, *fakeRedis) {
	fake := newFakeRedis()
	return &Store{rdb: fake, now: func() time.Time { return now }}, fake
}

func TestCreateSetsRemainingLifetimeTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	store, fake := newTestStore(now)
	sess := session.Session{ID: "s1", Token: "tok", CreatedAt: now, ExpiresAt: now.Add(90 * time.Minute)}
	if err := store.Create(context.Background(), sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	entry, ok := fake.entries[KeyPrefix+"s1"]
	if !ok {
		t.Fatalf("key %q not written", KeyPrefix+"s1")
	}
	if entry.ttl != 90*time.Minute {
		t.Fatalf("ttl = %v, want 90m", entry.ttl)
	}

	got, ok, err := store.Get(context.Background(), "s1")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if got.ID != "s1" || got.Token != "tok" || !got.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Fatalf("Get() = %+v", got)
	}
}

func TestCreateSkipsExpiredSession(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	store, fake := newTestStore(now)
	if err := store.Create(context.Background(), session.Session{ID: "s1", Token: "tok", ExpiresAt: now.Add(-time.Second)}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(fake.entries) != 0 {
		t.Fatalf("expired session written: %v", fake.entries)
	}
}

func TestGetMissAndDelete(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	store, fake := newTestStore(now)
	if _, ok, err := store.Get(context.Background(), "nope"); ok || err != nil {
		t.Fatalf("Get() = %v, %v, want miss", ok, err)
	}
	if err := store.Create(context.Background(), session.Session{ID: "s1", Token: "tok", ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(fake.entries) != 0 {
		t.Fatal("session not deleted")
	}
}

func TestGetPropagatesBackendErrors(t *testing.T) {
	t.Parallel()

	store, fake := newTestStore(time.Now())
	fake.failGet = errors.New("connection refused")
	if _, _, err := store.Get(context.Background(), "s1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenRequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected missing url error")
	}
	if _, err := Open(context.Background(), "http://not-redis"); err == nil {
		t.Fatal("expected invalid scheme error")
	}
}
