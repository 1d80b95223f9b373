package modulehandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	flashnotice "github.com/louisbranch/razzo/internal/services/web/platform/flash"
	"github.com/louisbranch/razzo/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/razzo/internal/services/web/principal"
)

func TestViewerDelegatesToResolver(t *testing.T) {
	t.Parallel()

	want := principal.Viewer{Token: "tok", User: blogapi.User{ID: "u1"}}
	base := NewBase(func(http.ResponseWriter, *http.Request) principal.Viewer { return want }, requestmeta.SchemePolicy{})

	got := base.Viewer(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got != want {
		t.Fatalf("Viewer() = %+v, want %+v", got, want)
	}
}

func TestTestBaseIsAnonymous(t *testing.T) {
	t.Parallel()

	if NewTestBase().Viewer(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)).Authenticated() {
		t.Fatal("test base must resolve an anonymous viewer")
	}
}

func TestChromeResolvesLanguage(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	chrome := NewTestBase().Chrome(rr, httptest.NewRequest(http.MethodGet, "/?lang=pt-BR", nil))
	if chrome.Lang != "pt-BR" {
		t.Fatalf("Lang = %q, want pt-BR", chrome.Lang)
	}
	if got := chrome.Loc.Sprintf("web.nav.login"); got != "Entrar" {
		t.Fatalf("login label = %q", got)
	}
}

func TestWriteNotFoundRendersErrorPage(t *testing.T) {
	t.Parallel()

	base := NewTestBase()
	req := httptest.NewRequest(http.MethodGet, "/posts/missing", nil)
	rr := httptest.NewRecorder()
	base.WriteNotFound(rr, req, base.Chrome(rr, req))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if !strings.Contains(rr.Body.String(), `data-status="404"`) {
		t.Fatalf("body missing not found state: %q", rr.Body.String())
	}
}

func TestFlashUsesSchemePolicy(t *testing.T) {
	t.Parallel()

	base := NewBase(nil, requestmeta.SchemePolicy{TrustForwardedProto: true})
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr := httptest.NewRecorder()
	base.Flash(rr, req, flashnotice.Info("web.flash.logged_out"))

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != flashnotice.CookieName || !cookies[0].Secure {
		t.Fatalf("cookies = %+v", cookies)
	}
}
