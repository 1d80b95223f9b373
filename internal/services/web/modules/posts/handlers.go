package posts

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	apperrors "github.com/louisbranch/razzo/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/razzo/internal/services/web/platform/flash"
	"github.com/louisbranch/razzo/internal/services/web/platform/httpx"
	"github.com/louisbranch/razzo/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/razzo/internal/services/web/platform/pagerender"
	"github.com/louisbranch/razzo/internal/services/web/platform/weberror"
	"github.com/louisbranch/razzo/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/razzo/internal/services/web/templates"
)

const (
	htmxCurrentURLHeader = "HX-Current-URL"
	htmxRetargetHeader   = "HX-Retarget"
	htmxReswapHeader     = "HX-Reswap"
	htmxTriggerHeader    = "HX-Trigger"
	closeModalEvent      = "razzo:close-modal"
)

type handlers struct {
	modulehandler.Base
	service   service
	lists     *lists
	views     viewMapper
	maxUpload int64
}

type chromeHandler func(http.ResponseWriter, *http.Request, pagerender.Chrome)

// requireAuth sends anonymous viewers to the login page.
func (h handlers) requireAuth(next chromeHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chrome := h.Chrome(w, r)
		if !chrome.Viewer.Authenticated() {
			httpx.WriteRedirect(w, r, routepath.Login)
			return
		}
		next(w, r, chrome)
	}
}

func (h handlers) withPostID(next func(http.ResponseWriter, *http.Request, pagerender.Chrome, string)) chromeHandler {
	return func(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome) {
		id := strings.TrimSpace(r.PathValue("id"))
		if id == "" {
			h.WriteNotFound(w, r, chrome)
			return
		}
		next(w, r, chrome, id)
	}
}

func (h handlers) withChrome(next chromeHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r, h.Chrome(w, r))
	}
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r, h.Chrome(w, r))
}

// --- Reading ---

func (h handlers) handleHome(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome) {
	title := webtemplates.T(chrome.Loc, "web.nav.home")
	list := h.lists.forViewer(chrome.Viewer)
	posts, err := h.service.refresh(r.Context(), list)
	if err != nil {
		view := webtemplates.HomeView{Error: readMessage(chrome.Loc, err, "error.web.posts.load_list")}
		h.WritePage(w, r, chrome, title, apperrors.HTTPStatus(err), webtemplates.HomePage(view, chrome.Loc))
		return
	}
	view := webtemplates.HomeView{Posts: h.views.postViews(chrome.Viewer, posts)}
	h.WritePage(w, r, chrome, title, http.StatusOK, webtemplates.HomePage(view, chrome.Loc))
}

func (h handlers) handleDetail(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, id string) {
	post, ok := h.loadPost(w, r, chrome, id)
	if !ok {
		return
	}
	view := webtemplates.DetailView{Post: h.views.postView(chrome.Viewer, post)}
	h.WritePage(w, r, chrome, post.Title, http.StatusOK, webtemplates.PostDetail(view, chrome.Loc))
}

// loadPost fetches a post, writing the 404 page or the load error when it
// cannot be read.
func (h handlers) loadPost(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, id string) (blogapi.Post, bool) {
	post, err := h.service.post(r.Context(), id)
	if err == nil {
		return post, true
	}
	if blogapi.IsNotFound(err) {
		h.WriteNotFound(w, r, chrome)
		return blogapi.Post{}, false
	}
	view := webtemplates.DetailView{Error: readMessage(chrome.Loc, err, "error.web.posts.load_post")}
	h.WritePage(w, r, chrome, webtemplates.T(chrome.Loc, "web.nav.home"), apperrors.HTTPStatus(err), webtemplates.PostDetail(view, chrome.Loc))
	return blogapi.Post{}, false
}

// --- Creating ---

func (h handlers) handleNew(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome) {
	h.renderForm(w, r, chrome, http.StatusOK, webtemplates.PostFormView{})
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome) {
	form, err := parsePostForm(w, r, h.maxUpload)
	view := webtemplates.PostFormView{Title: form.Title, Body: form.Body}
	if err != nil {
		view.Error = weberror.FormMessage(chrome.Loc, err, "error.web.posts.create")
		h.renderForm(w, r, chrome, apperrors.HTTPStatus(err), view)
		return
	}
	list := h.lists.forViewer(chrome.Viewer)
	if _, err := h.service.create(r.Context(), chrome.Viewer.Token, list, form); err != nil {
		view.Error = weberror.FormMessage(chrome.Loc, err, "error.web.posts.create")
		h.renderForm(w, r, chrome, apperrors.HTTPStatus(err), view)
		return
	}
	if httpx.IsHTMXRequest(r) && fromHome(r) {
		posts, err := h.service.current(r.Context(), list)
		if err == nil {
			// The list is already on screen: swap it from the holder and close the modal.
			w.Header().Set(htmxRetargetHeader, "#"+webtemplates.PostListID)
			w.Header().Set(htmxReswapHeader, "outerHTML")
			w.Header().Set(htmxTriggerHeader, closeModalEvent)
			h.WritePage(w, r, chrome, "", http.StatusOK, webtemplates.PostList(h.views.postViews(chrome.Viewer, posts), chrome.Loc))
			return
		}
		log.Printf("posts: reload list after create: %v", err)
	}
	h.Flash(w, r, flashnotice.Success("web.flash.post_created"))
	httpx.WriteRedirect(w, r, routepath.Root)
}

// renderForm answers HTMX create requests with the modal and everything
// else with the full form page.
func (h handlers) renderForm(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, status int, view webtemplates.PostFormView) {
	if !view.Editing() && httpx.IsHTMXRequest(r) {
		h.WritePage(w, r, chrome, view.Heading(chrome.Loc), status, webtemplates.PostModal(view, chrome.Loc))
		return
	}
	h.WritePage(w, r, chrome, view.Heading(chrome.Loc), status, webtemplates.PostFormPage(view, chrome.Loc))
}

// --- Editing ---

func (h handlers) handleEdit(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, id string) {
	post, ok := h.loadPost(w, r, chrome, id)
	if !ok {
		return
	}
	h.renderForm(w, r, chrome, http.StatusOK, h.views.formView(post))
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, id string) {
	current, ok := h.loadPost(w, r, chrome, id)
	if !ok {
		return
	}
	form, err := parsePostForm(w, r, h.maxUpload)
	view := h.views.formView(current)
	view.Title, view.Body = form.Title, form.Body
	if err == nil {
		_, err = h.service.update(r.Context(), chrome.Viewer.Token, h.lists.forViewer(chrome.Viewer), current, form)
	}
	if err != nil {
		view.Error = weberror.FormMessage(chrome.Loc, err, "error.web.posts.update")
		h.renderForm(w, r, chrome, apperrors.HTTPStatus(err), view)
		return
	}
	h.Flash(w, r, flashnotice.Success("web.flash.post_updated"))
	httpx.WriteRedirect(w, r, routepath.Root)
}

// --- Deleting ---

func (h handlers) handleDeleteConfirm(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, id string) {
	post, ok := h.loadPost(w, r, chrome, id)
	if !ok {
		return
	}
	title := webtemplates.T(chrome.Loc, "web.posts.delete.heading")
	h.WritePage(w, r, chrome, title, http.StatusOK, webtemplates.DeleteConfirm(h.views.postView(chrome.Viewer, post), "", chrome.Loc))
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, id string) {
	err := h.service.delete(r.Context(), chrome.Viewer.Token, h.lists.forViewer(chrome.Viewer), id)
	if err == nil {
		h.Flash(w, r, flashnotice.Success("web.flash.post_deleted"))
		httpx.WriteRedirect(w, r, routepath.Root)
		return
	}
	post, ok := h.loadPost(w, r, chrome, id)
	if !ok {
		return
	}
	view := webtemplates.DetailView{
		Post:  h.views.postView(chrome.Viewer, post),
		Error: weberror.FormMessage(chrome.Loc, err, "error.web.posts.delete"),
	}
	h.WritePage(w, r, chrome, post.Title, apperrors.HTTPStatus(err), webtemplates.PostDetail(view, chrome.Loc))
}

// fromHome reports whether an HTMX request was issued from the home page.
func fromHome(r *http.Request) bool {
	current, err := url.Parse(strings.TrimSpace(r.Header.Get(htmxCurrentURLHeader)))
	if err != nil || current.String() == "" {
		return false
	}
	return current.Path == "" || current.Path == routepath.Root
}

// readMessage shows the view's own message for failed reads. Errors that
// carry a localization key, such as the unavailable notice, keep theirs.
func readMessage(loc webtemplates.Localizer, err error, fallbackKey string) string {
	if apperrors.LocalizationKey(err) != "" {
		return weberror.PublicMessage(loc, err)
	}
	return webtemplates.T(loc, fallbackKey)
}
