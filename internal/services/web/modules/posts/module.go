package posts

import (
	"errors"
	"net/http"

	"github.com/louisbranch/razzo/internal/services/web/module"
	"github.com/louisbranch/razzo/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/razzo/internal/services/web/routepath"
)

// Option configures a posts module.
type Option func(*Module)

// WithGateway sets the posts gateway.
func WithGateway(g Gateway) Option {
	return func(m *Module) { m.gateway = g }
}

// WithBase sets the handler base.
func WithBase(b modulehandler.Base) Option {
	return func(m *Module) { m.base = b }
}

// WithAssetBaseURL sets the origin relative image paths resolve against.
func WithAssetBaseURL(u string) Option {
	return func(m *Module) { m.assetBaseURL = u }
}

// WithMaxUploadBytes bounds uploaded images. Non-positive values keep the default.
func WithMaxUploadBytes(n int64) Option {
	return func(m *Module) {
		if n > 0 {
			m.maxUpload = n
		}
	}
}

// Module provides the post list, detail and editing routes.
type Module struct {
	gateway      Gateway
	base         modulehandler.Base
	assetBaseURL string
	maxUpload    int64
	lists        *lists
}

// New returns a posts module configured by opts.
func New(opts ...Option) Module {
	m := Module{maxUpload: DefaultMaxUploadBytes, lists: newLists()}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "posts" }

// Release drops the post list held for a signed-out session.
func (m Module) Release(sessionID string) {
	m.lists.release(sessionID)
}

// Mount wires post route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.gateway == nil {
		return module.Mount{}, errors.New("posts gateway is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{
		Base:      m.base,
		service:   newService(m.gateway),
		lists:     m.lists,
		views:     viewMapper{assetBaseURL: m.assetBaseURL},
		maxUpload: m.maxUpload,
	})
	return module.Mount{
		Patterns: []string{routepath.Home, routepath.Posts, routepath.PostsPrefix, routepath.EditPostPrefix},
		Handler:  mux,
	}, nil
}
