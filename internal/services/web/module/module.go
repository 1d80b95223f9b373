// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"

	"github.com/louisbranch/razzo/internal/services/web/principal"
)

// ResolveViewer resolves the request principal, memoized per request.
type ResolveViewer func(http.ResponseWriter, *http.Request) principal.Viewer

// Mount describes the patterns a module serves on the root mux.
type Mount struct {
	Patterns []string
	Handler  http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}
