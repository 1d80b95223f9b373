package auth

import (
	"errors"
	"net/http"

	"github.com/louisbranch/razzo/internal/services/web/module"
	"github.com/louisbranch/razzo/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/razzo/internal/services/web/platform/ratelimit"
	"github.com/louisbranch/razzo/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/razzo/internal/services/web/routepath"
)

// Option configures an auth module.
type Option func(*Module)

// WithGateway sets the credential gateway.
func WithGateway(g Gateway) Option {
	return func(m *Module) { m.gateway = g }
}

// WithSessions sets the session binder.
func WithSessions(s Sessions) Option {
	return func(m *Module) { m.sessions = s }
}

// WithBase sets the handler base.
func WithBase(b modulehandler.Base) Option {
	return func(m *Module) { m.base = b }
}

// WithLimiter throttles login and register submissions per client IP.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(m *Module) { m.limiter = l }
}

// WithSchemePolicy sets the proxy trust policy used for client IPs.
func WithSchemePolicy(p requestmeta.SchemePolicy) Option {
	return func(m *Module) { m.policy = p }
}

// WithLogoutHook runs fn with the signed-out session id.
func WithLogoutHook(fn func(sessionID string)) Option {
	return func(m *Module) { m.onLogout = fn }
}

// Module provides register, login and logout routes.
type Module struct {
	gateway  Gateway
	sessions Sessions
	base     modulehandler.Base
	limiter  *ratelimit.Limiter
	policy   requestmeta.SchemePolicy
	onLogout func(string)
}

// New returns an auth module configured by opts.
func New(opts ...Option) Module {
	var m Module
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "auth" }

// Mount wires auth route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.gateway == nil {
		return module.Mount{}, errors.New("auth gateway is required")
	}
	if m.sessions == nil {
		return module.Mount{}, errors.New("auth sessions are required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{
		Base:     m.base,
		service:  newService(m.gateway),
		sessions: m.sessions,
		limiter:  m.limiter,
		policy:   m.policy,
		onLogout: m.onLogout,
	})
	return module.Mount{
		Patterns: []string{routepath.Login, routepath.Register, routepath.Logout},
		Handler:  mux,
	}, nil
}
