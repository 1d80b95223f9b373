package auth

import (
	"log"
	"net/http"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	apperrors "github.com/louisbranch/razzo/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/razzo/internal/services/web/platform/flash"
	"github.com/louisbranch/razzo/internal/services/web/platform/httpx"
	"github.com/louisbranch/razzo/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/razzo/internal/services/web/platform/pagerender"
	"github.com/louisbranch/razzo/internal/services/web/platform/ratelimit"
	"github.com/louisbranch/razzo/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/razzo/internal/services/web/platform/weberror"
	"github.com/louisbranch/razzo/internal/services/web/principal"
	"github.com/louisbranch/razzo/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/razzo/internal/services/web/templates"
)

// Sessions binds and unbinds tokens to the browser.
type Sessions interface {
	SignIn(w http.ResponseWriter, r *http.Request, token string) (principal.Viewer, error)
	SignOut(w http.ResponseWriter, r *http.Request) (string, error)
}

type handlers struct {
	modulehandler.Base
	service  service
	sessions Sessions
	limiter  *ratelimit.Limiter
	policy   requestmeta.SchemePolicy
	onLogout func(sessionID string)
}

func (h handlers) handleLoginGet(w http.ResponseWriter, r *http.Request) {
	chrome := h.Chrome(w, r)
	if chrome.Viewer.Authenticated() {
		httpx.WriteRedirect(w, r, routepath.Root)
		return
	}
	h.renderLogin(w, r, chrome, http.StatusOK, webtemplates.LoginView{})
}

func (h handlers) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	chrome := h.Chrome(w, r)
	if chrome.Viewer.Authenticated() {
		httpx.WriteRedirect(w, r, routepath.Root)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, chrome, http.StatusBadRequest, webtemplates.LoginView{
			Error: webtemplates.T(chrome.Loc, "error.web.message.invalid_form"),
		})
		return
	}
	view := webtemplates.LoginView{Username: r.PostFormValue("username")}
	if !h.allow(r) {
		view.Error = webtemplates.T(chrome.Loc, "error.web.message.rate_limited")
		h.renderLogin(w, r, chrome, http.StatusTooManyRequests, view)
		return
	}

	token, err := h.service.login(r.Context(), view.Username, r.PostFormValue("password"))
	if err == nil {
		_, err = h.sessions.SignIn(w, r, token)
	}
	if err != nil {
		view.Error = weberror.FormMessage(chrome.Loc, err, "error.web.auth.invalid_credentials")
		h.renderLogin(w, r, chrome, loginFailureStatus(err), view)
		return
	}
	h.Flash(w, r, flashnotice.Success("web.flash.logged_in"))
	httpx.WriteRedirect(w, r, routepath.Root)
}

func (h handlers) handleRegisterGet(w http.ResponseWriter, r *http.Request) {
	chrome := h.Chrome(w, r)
	if chrome.Viewer.Authenticated() {
		httpx.WriteRedirect(w, r, routepath.Root)
		return
	}
	h.renderRegister(w, r, chrome, http.StatusOK, webtemplates.RegisterView{})
}

func (h handlers) handleRegisterPost(w http.ResponseWriter, r *http.Request) {
	chrome := h.Chrome(w, r)
	if chrome.Viewer.Authenticated() {
		httpx.WriteRedirect(w, r, routepath.Root)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderRegister(w, r, chrome, http.StatusBadRequest, webtemplates.RegisterView{
			Error: webtemplates.T(chrome.Loc, "error.web.message.invalid_form"),
		})
		return
	}
	form := registerForm{
		Name:            r.PostFormValue("name"),
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}
	view := webtemplates.RegisterView{Name: form.Name, Username: form.Username}
	if !h.allow(r) {
		view.Error = webtemplates.T(chrome.Loc, "error.web.message.rate_limited")
		h.renderRegister(w, r, chrome, http.StatusTooManyRequests, view)
		return
	}

	token, err := h.service.register(r.Context(), form)
	if err == nil {
		_, err = h.sessions.SignIn(w, r, token)
	}
	if err != nil {
		view.Error = weberror.FormMessage(chrome.Loc, err, "error.web.auth.registration_failed")
		h.renderRegister(w, r, chrome, apperrors.HTTPStatus(err), view)
		return
	}
	h.Flash(w, r, flashnotice.Success("web.flash.registered"))
	httpx.WriteRedirect(w, r, routepath.Root)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID, err := h.sessions.SignOut(w, r)
	if err != nil {
		log.Printf("logout: delete session: %v", err)
	}
	if sessionID != "" && h.onLogout != nil {
		h.onLogout(sessionID)
	}
	h.Flash(w, r, flashnotice.Info("web.flash.logged_out"))
	httpx.WriteRedirect(w, r, routepath.Root)
}

func (h handlers) allow(r *http.Request) bool {
	return h.limiter.Allow(requestmeta.ClientIP(r, h.policy))
}

func (h handlers) renderLogin(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, status int, view webtemplates.LoginView) {
	h.WritePage(w, r, chrome, webtemplates.T(chrome.Loc, "web.title.login"), status, webtemplates.LoginPage(view, chrome.Loc))
}

func (h handlers) renderRegister(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, status int, view webtemplates.RegisterView) {
	h.WritePage(w, r, chrome, webtemplates.T(chrome.Loc, "web.title.register"), status, webtemplates.RegisterPage(view, chrome.Loc))
}

// loginFailureStatus answers 401 for rejected credentials and maps the rest.
func loginFailureStatus(err error) int {
	switch blogapi.StatusOf(err) {
	case http.StatusBadRequest, http.StatusUnauthorized:
		return http.StatusUnauthorized
	}
	return apperrors.HTTPStatus(err)
}
