// Package modulehandler provides a composable base for web module handlers.
//
// Modules share viewer resolution, localization, page rendering and error
// handling. Handlers embed Base rather than duplicating that scaffold.
package modulehandler

import (
	"net/http"

	"github.com/a-h/templ"
	webi18n "github.com/louisbranch/razzo/internal/services/web/i18n"
	"github.com/louisbranch/razzo/internal/services/web/module"
	flashnotice "github.com/louisbranch/razzo/internal/services/web/platform/flash"
	"github.com/louisbranch/razzo/internal/services/web/platform/pagerender"
	"github.com/louisbranch/razzo/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/razzo/internal/services/web/platform/weberror"
	"github.com/louisbranch/razzo/internal/services/web/principal"
)

// Base carries the shared request-scoped helpers used by module handlers.
type Base struct {
	resolveViewer module.ResolveViewer
	renderer      pagerender.Renderer
}

// NewBase builds a handler base.
func NewBase(resolveViewer module.ResolveViewer, policy requestmeta.SchemePolicy) Base {
	return Base{
		resolveViewer: resolveViewer,
		renderer:      pagerender.Renderer{Policy: policy},
	}
}

// NewTestBase builds a base that always resolves an anonymous viewer.
func NewTestBase() Base {
	return NewBase(nil, requestmeta.SchemePolicy{})
}

// Viewer resolves the request principal.
func (b Base) Viewer(w http.ResponseWriter, r *http.Request) principal.Viewer {
	if b.resolveViewer == nil {
		return principal.Viewer{}
	}
	return b.resolveViewer(w, r)
}

// Chrome resolves the viewer and the request localizer once for a handler.
func (b Base) Chrome(w http.ResponseWriter, r *http.Request) pagerender.Chrome {
	loc, lang := webi18n.ResolveLocalizer(w, r)
	return pagerender.Chrome{Viewer: b.Viewer(w, r), Loc: loc, Lang: lang}
}

// WritePage renders a page (HTMX-aware) with the given title and status.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, title string, statusCode int, fragment templ.Component) {
	if err := b.renderer.Write(w, r, chrome, pagerender.Page{
		Title:      title,
		StatusCode: statusCode,
		Fragment:   fragment,
	}); err != nil {
		b.WriteError(w, r, chrome, err)
	}
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, err error) {
	weberror.WriteModuleError(w, r, err, b.renderer, chrome)
}

// WriteNotFound renders the 404 page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b.renderer, chrome)
}

// Flash queues a notice for the next full-page render.
func (b Base) Flash(w http.ResponseWriter, r *http.Request, notice flashnotice.Notice) {
	b.renderer.Flash(w, r, notice)
}
