package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveTagOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		target      string
		cookie      string
		accept      string
		want        string
		wantPersist bool
	}{
		{name: "default", target: "/", want: "en"},
		{name: "query wins", target: "/?lang=pt-BR", cookie: "en", accept: "en", want: "pt-BR", wantPersist: true},
		{name: "unsupported query falls through", target: "/?lang=xx", cookie: "pt-BR", want: "pt-BR"},
		{name: "cookie", target: "/", cookie: "pt-BR", accept: "en", want: "pt-BR"},
		{name: "accept language", target: "/", accept: "pt-BR,pt;q=0.9", want: "pt-BR"},
		{name: "unsupported accept language", target: "/", accept: "de-DE", want: "en"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			tag, persist := ResolveTag(req)
			if tag.String() != tc.want || persist != tc.wantPersist {
				t.Fatalf("ResolveTag() = %s, %v; want %s, %v", tag, persist, tc.want, tc.wantPersist)
			}
		})
	}
}

func TestResolveLocalizerPersistsQuerySelection(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	loc, lang := ResolveLocalizer(rr, httptest.NewRequest(http.MethodGet, "/?lang=pt-BR", nil))
	if lang != "pt-BR" {
		t.Fatalf("lang = %q, want pt-BR", lang)
	}
	if got := loc.Sprintf("web.nav.home"); got != "Início" {
		t.Fatalf("home label = %q", got)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != LangCookieName || cookies[0].Value != "pt-BR" {
		t.Fatalf("cookies = %v", cookies)
	}
}

func TestLanguageOptionsKeepPathAndQuery(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/posts/p1?lang=en&x=1", nil)
	options := LanguageOptions(req, "en")
	if len(options) != 2 {
		t.Fatalf("options = %v", options)
	}
	if !options[0].Active || options[1].Active {
		t.Fatalf("active flags = %v", options)
	}
	if options[1].URL != "/posts/p1?lang=pt-BR&x=1" {
		t.Fatalf("pt-BR url = %q", options[1].URL)
	}
	if options[1].Key != "web.nav.lang_pt_br" {
		t.Fatalf("pt-BR key = %q", options[1].Key)
	}
}
