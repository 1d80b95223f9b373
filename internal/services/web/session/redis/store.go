// Package redis provides a Redis-backed web session store.
//
// Each session is one JSON value whose TTL is the session's remaining
// lifetime, so Redis expires sessions on its own.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/louisbranch/razzo/internal/platform/timeouts"
	"github.com/louisbranch/razzo/internal/services/web/session"
)

// KeyPrefix namespaces session keys.
const KeyPrefix = "razzo:session:"

// commands is the subset of the go-redis client the store uses.
type commands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type record struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists sessions in Redis.
type Store struct {
	rdb    commands
	closer func() error
	now    func() time.Time
}

// Open connects to the Redis server named by rawURL (redis://...).
func Open(ctx context.Context, rawURL string) (*Store, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.StorePing)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{rdb: client, closer: client.Close, now: time.Now}, nil
}

// Close releases the Redis connection pool.
func (s *Store) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}

// Create stores sess with a TTL matching its remaining lifetime. Sessions
// already expired are not written.
func (s *Store) Create(ctx context.Context, sess session.Session) error {
	sess, err := session.Normalize(sess)
	if err != nil {
		return err
	}
	ttl := sess.ExpiresAt.Sub(s.now())
	if sess.ExpiresAt.IsZero() {
		ttl = 0
	} else if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(record{Token: sess.Token, CreatedAt: sess.CreatedAt, ExpiresAt: sess.ExpiresAt})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, KeyPrefix+sess.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get returns the session for id.
func (s *Store) Get(ctx context.Context, id string) (session.Session, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return session.Session{}, false, nil
	}
	raw, err := s.rdb.Get(ctx, KeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Session{}, false, nil
	}
	if err != nil {
		return session.Session{}, false, fmt.Errorf("get session: %w", err)
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return session.Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	sess := session.Session{ID: id, Token: rec.Token, CreatedAt: rec.CreatedAt.UTC(), ExpiresAt: rec.ExpiresAt.UTC()}
	if sess.Expired(s.now()) {
		return session.Session{}, false, nil
	}
	return sess, true, nil
}

// Delete removes one session.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, KeyPrefix+strings.TrimSpace(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
