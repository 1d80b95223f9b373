package weberror

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	webi18n "github.com/louisbranch/razzo/internal/services/web/i18n"
	apperrors "github.com/louisbranch/razzo/internal/services/web/platform/errors"
	"github.com/louisbranch/razzo/internal/services/web/platform/pagerender"
	"golang.org/x/text/language"
)

func chrome() pagerender.Chrome {
	return pagerender.Chrome{Loc: webi18n.Printer(language.English), Lang: "en"}
}

func TestWriteModuleErrorRendersErrorPageForNotFound(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/posts/missing", nil)
	rr := httptest.NewRecorder()
	WriteModuleError(rr, req, &blogapi.Error{Status: http.StatusNotFound, Message: "Post not found"}, pagerender.Renderer{}, chrome())
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `class="error-state"`) || !strings.Contains(body, "Page not found") {
		t.Fatalf("body missing error state: %q", body)
	}
}

func TestWriteModuleErrorWritesPlainTextForBadRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/posts/new", nil)
	rr := httptest.NewRecorder()
	WriteModuleError(rr, req, apperrors.E(apperrors.KindInvalidInput, "bad form"), pagerender.Renderer{}, chrome())
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	body := rr.Body.String()
	if !strings.Contains(body, http.StatusText(http.StatusBadRequest)) {
		t.Fatalf("body = %q, want generic bad-request message", body)
	}
	if strings.Contains(body, "bad form") {
		t.Fatalf("body leaked internal error text: %q", body)
	}
}

func TestWriteModuleErrorFoldsUpstreamFailures(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	WriteModuleError(rr, req, &blogapi.Error{Status: http.StatusInternalServerError}, pagerender.Renderer{}, chrome())
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadGateway)
	}
	body := rr.Body.String()
	if strings.Contains(body, "<html") || !strings.Contains(body, `data-status="500"`) {
		t.Fatalf("body = %q, want server error fragment", body)
	}
}

func TestPublicMessageUsesLocalizationKey(t *testing.T) {
	t.Parallel()

	err := apperrors.Wrap(apperrors.KindUnavailable, "error.web.message.blog_api_unavailable", errors.New("dial tcp: refused"))
	got := PublicMessage(chrome().Loc, err)
	if got != "The blog service is unavailable. Please try again later." {
		t.Fatalf("PublicMessage() = %q", got)
	}
	if got := PublicMessage(nil, errors.New("boom")); got != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("PublicMessage(unknown) = %q", got)
	}
}

func TestFormMessagePrecedence(t *testing.T) {
	t.Parallel()

	loc := chrome().Loc
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "localized key", err: apperrors.EK(apperrors.KindInvalidInput, "error.web.auth.passwords_mismatch", "mismatch"), want: "Passwords do not match."},
		{name: "api message", err: &blogapi.Error{Status: http.StatusBadRequest, Message: "Username already taken"}, want: "Username already taken"},
		{name: "fallback", err: &blogapi.Error{Status: http.StatusBadRequest}, want: "Registration failed"},
		{name: "nil", err: nil, want: ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FormMessage(loc, tc.err, "error.web.auth.registration_failed"); got != tc.want {
				t.Fatalf("FormMessage() = %q, want %q", got, tc.want)
			}
		})
	}
}
