package posts

import (
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	"github.com/louisbranch/razzo/internal/services/web/principal"
)

// postList holds the posts last seen by one browser session. It mirrors the
// last successful list response, amended by successful writes. Until the
// first replace it is not loaded and its contents are only local writes.
type postList struct {
	mu     sync.Mutex
	posts  []blogapi.Post
	loaded bool
}

func (l *postList) replace(posts []blogapi.Post) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.posts = append([]blogapi.Post(nil), posts...)
	l.loaded = true
}

func (l *postList) isLoaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

func (l *postList) prepend(post blogapi.Post) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.posts = append([]blogapi.Post{post}, l.posts...)
}

// update replaces the post with the same id. Unknown ids are ignored.
func (l *postList) update(post blogapi.Post) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.posts {
		if l.posts[i].ID == post.ID {
			l.posts[i] = post
			return
		}
	}
}

func (l *postList) remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.posts[:0]
	for _, post := range l.posts {
		if post.ID != id {
			kept = append(kept, post)
		}
	}
	clear(l.posts[len(kept):])
	l.posts = kept
}

func (l *postList) snapshot() []blogapi.Post {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]blogapi.Post(nil), l.posts...)
}

// anonymousKey is shared by every request without a session.
const anonymousKey = ""

// defaultListIdleTTL bounds how long a list survives without a request from
// its session.
const defaultListIdleTTL = time.Hour

type listEntry struct {
	list     *postList
	lastSeen time.Time
}

// lists keeps one postList per session id. Lists idle longer than the idle
// TTL are dropped on a later lookup.
type lists struct {
	mu        sync.Mutex
	bySession map[string]*listEntry
	idleTTL   time.Duration
	lastPrune time.Time
	now       func() time.Time
}

func newLists() *lists {
	return &lists{
		bySession: make(map[string]*listEntry),
		idleTTL:   defaultListIdleTTL,
		now:       time.Now,
	}
}

func (ls *lists) forViewer(viewer principal.Viewer) *postList {
	key := anonymousKey
	if viewer.Authenticated() {
		key = strings.TrimSpace(viewer.SessionID)
	}
	now := ls.now()
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if now.Sub(ls.lastPrune) >= ls.idleTTL {
		for k, e := range ls.bySession {
			if now.Sub(e.lastSeen) >= ls.idleTTL {
				delete(ls.bySession, k)
			}
		}
		ls.lastPrune = now
	}

	e, ok := ls.bySession[key]
	if !ok {
		e = &listEntry{list: &postList{}}
		ls.bySession[key] = e
	}
	e.lastSeen = now
	return e.list
}

func (ls *lists) release(sessionID string) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == anonymousKey {
		return
	}
	ls.mu.Lock()
	delete(ls.bySession, sessionID)
	ls.mu.Unlock()
}

func (ls *lists) len() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return len(ls.bySession)
}
