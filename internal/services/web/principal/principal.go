// Package principal resolves who the browser is signed in as.
//
// Resolution is per request: session cookie, then session store, then the
// blog API's current-user endpoint. The result is memoized on the request
// context so one request loads the user at most once.
package principal

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	"github.com/louisbranch/razzo/internal/services/web/platform/httpx"
	"github.com/louisbranch/razzo/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/razzo/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/razzo/internal/services/web/session"
)

// UserLoader loads the user that owns a bearer token.
type UserLoader interface {
	Me(ctx context.Context, token string) (blogapi.User, error)
}

// Viewer is the resolved principal for one request. The zero value is anonymous.
type Viewer struct {
	SessionID string
	Token     string
	User      blogapi.User
}

// Authenticated reports whether the request carries a usable token.
func (v Viewer) Authenticated() bool {
	return strings.TrimSpace(v.Token) != ""
}

// DisplayName is the greeting name: username first, then display name.
func (v Viewer) DisplayName() string {
	if name := strings.TrimSpace(v.User.Username); name != "" {
		return name
	}
	return strings.TrimSpace(v.User.Name)
}

// IsAuthor reports whether viewer owns post. It only decides which controls
// to show; the blog API enforces ownership on every write.
func IsAuthor(viewer Viewer, post blogapi.Post) bool {
	if !viewer.Authenticated() {
		return false
	}
	userID := strings.TrimSpace(viewer.User.ID)
	return userID != "" && userID == strings.TrimSpace(post.Author.ID)
}

// Config wires a Resolver.
type Config struct {
	Store        session.Store
	Users        UserLoader
	SchemePolicy requestmeta.SchemePolicy
	SessionTTL   time.Duration
}

// Resolver resolves and mutates the request principal.
type Resolver struct {
	store      session.Store
	users      UserLoader
	policy     requestmeta.SchemePolicy
	sessionTTL time.Duration
	now        func() time.Time

	hooksMu      sync.Mutex
	discardHooks []func(sessionID string)
}

// OnDiscard registers fn to run with the id of each session the resolver
// drops without a sign-out: rejected tokens and ids the store no longer holds.
func (r *Resolver) OnDiscard(fn func(sessionID string)) {
	if fn == nil {
		return
	}
	r.hooksMu.Lock()
	r.discardHooks = append(r.discardHooks, fn)
	r.hooksMu.Unlock()
}

func (r *Resolver) discarded(sessionID string) {
	r.hooksMu.Lock()
	hooks := append(([]func(string))(nil), r.discardHooks...)
	r.hooksMu.Unlock()
	for _, fn := range hooks {
		fn(sessionID)
	}
}

// New builds a Resolver.
func New(cfg Config) (*Resolver, error) {
	if cfg.Store == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Users == nil {
		return nil, errors.New("user loader is required")
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	return &Resolver{
		store:      cfg.Store,
		users:      cfg.Users,
		policy:     cfg.SchemePolicy,
		sessionTTL: ttl,
		now:        time.Now,
	}, nil
}

type requestStateKey struct{}

type requestState struct {
	mu       sync.Mutex
	resolved bool
	viewer   Viewer
}

// Middleware installs per-request memoization state.
func (r *Resolver) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), requestStateKey{}, &requestState{})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func stateFromRequest(req *http.Request) *requestState {
	if req == nil {
		return nil
	}
	state, _ := req.Context().Value(requestStateKey{}).(*requestState)
	return state
}

// Viewer returns the request principal, resolving it once per request.
func (r *Resolver) Viewer(w http.ResponseWriter, req *http.Request) Viewer {
	state := stateFromRequest(req)
	if state == nil {
		return r.resolve(w, req)
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	if !state.resolved {
		state.viewer = r.resolve(w, req)
		state.resolved = true
	}
	return state.viewer
}

func (r *Resolver) remember(req *http.Request, viewer Viewer) {
	state := stateFromRequest(req)
	if state == nil {
		return
	}
	state.mu.Lock()
	state.viewer = viewer
	state.resolved = true
	state.mu.Unlock()
}

func (r *Resolver) resolve(w http.ResponseWriter, req *http.Request) Viewer {
	if req == nil {
		return Viewer{}
	}
	sessionID, ok := sessioncookie.Read(req)
	if !ok {
		return Viewer{}
	}
	ctx := req.Context()
	sess, found, err := r.store.Get(ctx, sessionID)
	if err != nil {
		log.Printf("principal: load session: %v", err)
		return Viewer{}
	}
	if !found {
		sessioncookie.Clear(w, req, r.policy)
		r.discarded(sessionID)
		return Viewer{}
	}
	user, err := r.users.Me(ctx, sess.Token)
	if err != nil {
		if blogapi.IsUnauthorized(err) {
			if delErr := r.store.Delete(ctx, sess.ID); delErr != nil {
				log.Printf("principal: discard rejected session: %v", delErr)
			}
			sessioncookie.Clear(w, req, r.policy)
			r.discarded(sess.ID)
			return Viewer{}
		}
		log.Printf("principal: load user: %v", err)
		return Viewer{}
	}
	return Viewer{SessionID: sess.ID, Token: sess.Token, User: user}
}

// SignIn stores a session for token, loads its user and binds the session
// cookie. When the user cannot be loaded the session is discarded and no
// cookie is written.
func (r *Resolver) SignIn(w http.ResponseWriter, req *http.Request, token string) (Viewer, error) {
	ctx := httpx.RequestContext(req)
	now := r.now()
	sess, err := session.New(token, now, r.sessionTTL)
	if err != nil {
		return Viewer{}, err
	}
	if sess.Expired(now) {
		return Viewer{}, session.ErrExpired
	}
	if err := r.store.Create(ctx, sess); err != nil {
		return Viewer{}, err
	}
	user, err := r.users.Me(ctx, sess.Token)
	if err != nil {
		if delErr := r.store.Delete(ctx, sess.ID); delErr != nil {
			log.Printf("principal: discard session after failed user load: %v", delErr)
		}
		return Viewer{}, err
	}
	sessioncookie.Write(w, req, sess.ID, sess.ExpiresAt, r.policy)
	viewer := Viewer{SessionID: sess.ID, Token: sess.Token, User: user}
	r.remember(req, viewer)
	return viewer, nil
}

// SignOut deletes the cookie's session and clears the cookie. It returns the
// session id that was signed out, if any.
func (r *Resolver) SignOut(w http.ResponseWriter, req *http.Request) (string, error) {
	sessionID, ok := sessioncookie.Read(req)
	sessioncookie.Clear(w, req, r.policy)
	r.remember(req, Viewer{})
	if !ok {
		return "", nil
	}
	if err := r.store.Delete(httpx.RequestContext(req), sessionID); err != nil {
		return sessionID, err
	}
	return sessionID, nil
}
