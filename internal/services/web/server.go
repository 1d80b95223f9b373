// Package web serves the browser-facing blog client.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/razzo/internal/platform/timeouts"
	"github.com/louisbranch/razzo/internal/services/web/app"
	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	"github.com/louisbranch/razzo/internal/services/web/modules"
	"github.com/louisbranch/razzo/internal/services/web/platform/httpx"
	"github.com/louisbranch/razzo/internal/services/web/platform/metrics"
	"github.com/louisbranch/razzo/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/razzo/internal/services/web/platform/observability"
	"github.com/louisbranch/razzo/internal/services/web/platform/ratelimit"
	"github.com/louisbranch/razzo/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/razzo/internal/services/web/principal"
	"github.com/louisbranch/razzo/internal/services/web/routepath"
	"github.com/louisbranch/razzo/internal/services/web/session"
	"github.com/louisbranch/razzo/internal/services/web/session/memory"
	redisstore "github.com/louisbranch/razzo/internal/services/web/session/redis"
	sqlitestore "github.com/louisbranch/razzo/internal/services/web/session/sqlite"
	"github.com/louisbranch/razzo/internal/services/web/static"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	// APIBaseURL is the blog API root, e.g. http://localhost:5000/api.
	APIBaseURL string
	// AssetBaseURL prefixes relative image paths. Empty uses the API origin.
	AssetBaseURL string
	APITimeout   time.Duration
	// SessionDBPath selects the SQLite session store when set.
	SessionDBPath string
	// RedisURL selects the Redis session store when set and no SQLite path is.
	RedisURL            string
	SessionTTL          time.Duration
	MaxUploadBytes      int64
	AuthRateLimit       float64
	AuthRateBurst       int
	TrustForwardedProto bool
}

// Dependencies are the runtime collaborators the handler is built from.
type Dependencies struct {
	API     *blogapi.Client
	Store   session.Store
	Metrics *metrics.Metrics
	Logger  *log.Logger
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	closers    []io.Closer
}

// NewHandler assembles the root handler: static assets, health, metrics and
// the feature modules behind the shared middleware chain.
func NewHandler(cfg Config, deps Dependencies) (http.Handler, error) {
	if deps.API == nil {
		return nil, errors.New("blog api client is required")
	}
	if deps.Store == nil {
		return nil, errors.New("session store is required")
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	policy := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}

	resolver, err := principal.New(principal.Config{
		Store:        deps.Store,
		Users:        deps.API,
		SchemePolicy: policy,
		SessionTTL:   cfg.SessionTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("build principal resolver: %w", err)
	}
	base := modulehandler.NewBase(resolver.Viewer, policy)

	assetBaseURL := strings.TrimSpace(cfg.AssetBaseURL)
	if assetBaseURL == "" {
		assetBaseURL = deps.API.Origin()
	}

	mux := http.NewServeMux()
	mux.Handle(http.MethodGet+" "+routepath.Static, http.StripPrefix(routepath.Static, http.FileServerFS(static.FS)))
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, handleHealth)
	mux.Handle(http.MethodGet+" "+routepath.Metrics, deps.Metrics.Handler())

	err = app.Compose(mux, modules.Default(modules.Dependencies{
		Base:           base,
		Gateway:        deps.API,
		Sessions:       resolver,
		SessionEvents:  resolver,
		AuthLimiter:    ratelimit.New(cfg.AuthRateLimit, cfg.AuthRateBurst),
		SchemePolicy:   policy,
		AssetBaseURL:   assetBaseURL,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}))
	if err != nil {
		return nil, fmt.Errorf("compose modules: %w", err)
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		base.WriteNotFound(w, r, base.Chrome(w, r))
	})

	return httpx.Chain(metrics.CaptureRoute(mux),
		httpx.RecoverPanic(),
		httpx.RequestID(),
		deps.Metrics.Instrument,
		observability.RequestLogger(deps.Logger),
		resolver.Middleware(),
		httpx.RequireSameOrigin(policy),
	), nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	if err := httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		log.Printf("write health response: %v", err)
	}
}

// NewServer builds the blog API client, opens the session store and
// prepares the HTTP server.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}

	m := metrics.New()
	api, err := blogapi.New(blogapi.Config{
		BaseURL:  cfg.APIBaseURL,
		Timeout:  cfg.APITimeout,
		Observer: m,
	})
	if err != nil {
		return nil, err
	}
	store, closer, err := openSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	server := &Server{httpAddr: httpAddr}
	if closer != nil {
		server.closers = append(server.closers, closer)
	}

	handler, err := NewHandler(cfg, Dependencies{API: api, Store: store, Metrics: m})
	if err != nil {
		server.Close()
		return nil, err
	}
	server.httpServer = &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return server, nil
}

// openSessionStore picks SQLite, then Redis, then the in-memory store.
func openSessionStore(ctx context.Context, cfg Config) (session.Store, io.Closer, error) {
	openCtx, cancel := context.WithTimeout(ctx, timeouts.StorePing)
	defer cancel()

	if path := strings.TrimSpace(cfg.SessionDBPath); path != "" {
		store, err := sqlitestore.Open(openCtx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite session store: %w", err)
		}
		if purged, err := store.PurgeExpired(openCtx); err != nil {
			log.Printf("purge expired sessions: %v", err)
		} else if purged > 0 {
			log.Printf("purged %d expired sessions", purged)
		}
		log.Printf("sessions stored in sqlite at %s", path)
		return store, store, nil
	}
	if rawURL := strings.TrimSpace(cfg.RedisURL); rawURL != "" {
		store, err := redisstore.Open(openCtx, rawURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis session store: %w", err)
		}
		log.Printf("sessions stored in redis")
		return store, store, nil
	}
	log.Printf("sessions stored in memory; they will not survive a restart")
	return memory.New(), nil, nil
}

// ListenAndServe serves HTTP until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the session store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	for _, closer := range s.closers {
		if err := closer.Close(); err != nil {
			log.Printf("close session store: %v", err)
		}
	}
}
