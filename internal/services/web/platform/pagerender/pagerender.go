// Package pagerender centralizes page rendering for full-page and HTMX flows.
package pagerender

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	webi18n "github.com/louisbranch/razzo/internal/services/web/i18n"
	flashnotice "github.com/louisbranch/razzo/internal/services/web/platform/flash"
	"github.com/louisbranch/razzo/internal/services/web/platform/httpx"
	"github.com/louisbranch/razzo/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/razzo/internal/services/web/principal"
	webtemplates "github.com/louisbranch/razzo/internal/services/web/templates"
)

// Chrome is the per-request state shared by the layout and the page body.
type Chrome struct {
	Viewer principal.Viewer
	Loc    webtemplates.Localizer
	Lang   string
}

// Page describes one page response.
type Page struct {
	Title      string
	StatusCode int
	Fragment   templ.Component
}

// Renderer writes pages inside the application layout.
type Renderer struct {
	Policy requestmeta.SchemePolicy
	Now    func() time.Time
}

// Write renders page. HTMX requests receive the fragment alone; other
// requests receive the full layout with any pending flash notice.
func (rd Renderer) Write(w http.ResponseWriter, r *http.Request, chrome Chrome, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = templ.NopComponent
	}

	ctx := httpx.RequestContext(r)
	var buf bytes.Buffer
	if httpx.IsHTMXRequest(r) {
		if err := fragment.Render(ctx, &buf); err != nil {
			return err
		}
	} else {
		layout := webtemplates.Layout(webtemplates.Page{
			Title: page.Title,
			Lang:  chrome.Lang,
			Loc:   chrome.Loc,
			Nav:   nav(r, chrome),
			Toast: rd.flashToast(w, r, chrome.Loc),
			Year:  rd.now().Year(),
		})
		if err := layout.Render(templ.WithChildren(ctx, fragment), &buf); err != nil {
			return err
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

// Flash queues a notice for the next full-page render.
func (rd Renderer) Flash(w http.ResponseWriter, r *http.Request, notice flashnotice.Notice) {
	flashnotice.Write(w, r, notice, rd.Policy)
}

func (rd Renderer) now() time.Time {
	if rd.Now == nil {
		return time.Now()
	}
	return rd.Now()
}

func nav(r *http.Request, chrome Chrome) webtemplates.Nav {
	options := webi18n.LanguageOptions(r, chrome.Lang)
	links := make([]webtemplates.LanguageLink, 0, len(options))
	for _, option := range options {
		links = append(links, webtemplates.LanguageLink{
			Label:  webtemplates.T(chrome.Loc, option.Key),
			URL:    option.URL,
			Active: option.Active,
		})
	}
	return webtemplates.Nav{
		Authenticated: chrome.Viewer.Authenticated(),
		UserName:      chrome.Viewer.DisplayName(),
		Languages:     links,
	}
}

func (rd Renderer) flashToast(w http.ResponseWriter, r *http.Request, loc webtemplates.Localizer) *webtemplates.Toast {
	notice, ok := flashnotice.ReadAndClear(w, r, rd.Policy)
	if !ok {
		return nil
	}
	message := strings.TrimSpace(webtemplates.T(loc, notice.Key))
	if message == "" {
		return nil
	}
	return &webtemplates.Toast{Kind: string(notice.Kind), Message: message}
}
