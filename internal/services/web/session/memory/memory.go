// Package memory keeps sessions in process memory.
//
// Sessions do not survive a restart; use it for development and tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/razzo/internal/services/web/session"
)

// Store is a mutex-guarded map of sessions.
type Store struct {
	mu       sync.Mutex
	sessions map[string]session.Session
	now      func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{sessions: make(map[string]session.Session), now: time.Now}
}

// Create stores s, replacing any session with the same id.
func (s *Store) Create(ctx context.Context, sess session.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sess, err := session.Normalize(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

// Get returns the session for id. Expired sessions are dropped.
func (s *Store) Get(ctx context.Context, id string) (session.Session, bool, error) {
	if err := ctx.Err(); err != nil {
		return session.Session{}, false, err
	}
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return session.Session{}, false, nil
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, id)
		return session.Session{}, false, nil
	}
	return sess, true, nil
}

// Delete removes the session for id. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, strings.TrimSpace(id))
	return nil
}
