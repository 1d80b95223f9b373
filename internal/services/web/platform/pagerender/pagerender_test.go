package pagerender

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	webi18n "github.com/louisbranch/razzo/internal/services/web/i18n"
	flashnotice "github.com/louisbranch/razzo/internal/services/web/platform/flash"
	"github.com/louisbranch/razzo/internal/services/web/principal"
	"golang.org/x/text/language"
)

type textComponent string

func (c textComponent) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, string(c))
	return err
}

func testRenderer() Renderer {
	return Renderer{Now: func() time.Time { return time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC) }}
}

func englishChrome(viewer principal.Viewer) Chrome {
	return Chrome{Viewer: viewer, Loc: webi18n.Printer(language.English), Lang: "en"}
}

func TestWriteRendersHTMXFragmentWithStatus(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/posts/p1", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()

	err := testRenderer().Write(rr, req, englishChrome(principal.Viewer{}), Page{
		Title:      "Post",
		StatusCode: http.StatusCreated,
		Fragment:   textComponent(`<section id="fragment-root">ok</section>`),
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `id="fragment-root"`) {
		t.Fatalf("body missing fragment marker: %q", body)
	}
	if strings.Contains(strings.ToLower(body), "<html") {
		t.Fatal("expected htmx fragment without full document wrapper")
	}
}

func TestWriteRendersFullPageWithLayout(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	viewer := principal.Viewer{Token: "tok", User: blogapi.User{ID: "u1", Username: "ana"}}

	err := testRenderer().Write(rr, req, englishChrome(viewer), Page{
		Title:    "Home",
		Fragment: textComponent(`<section id="fragment-root">ok</section>`),
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content-type = %q", got)
	}
	body := rr.Body.String()
	for _, marker := range []string{"<!doctype html>", `id="fragment-root"`, "Hi, ana", "2026 RAZZO", "/?lang=pt-BR"} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q", marker)
		}
	}
}

func TestWriteConsumesFlashNotice(t *testing.T) {
	t.Parallel()

	rd := testRenderer()
	seed := httptest.NewRecorder()
	rd.Flash(seed, httptest.NewRequest(http.MethodPost, "/login", nil), flashnotice.Success("web.flash.logged_in"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range seed.Result().Cookies() {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	if err := rd.Write(rr, req, englishChrome(principal.Viewer{}), Page{Title: "Home"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(rr.Body.String(), "Welcome back!") {
		t.Fatalf("body missing flash toast: %q", rr.Body.String())
	}
	cleared := false
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == flashnotice.CookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("flash cookie not cleared")
	}
}
