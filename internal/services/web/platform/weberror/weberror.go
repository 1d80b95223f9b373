// Package weberror renders shared error responses for web modules.
package weberror

import (
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	apperrors "github.com/louisbranch/razzo/internal/services/web/platform/errors"
	"github.com/louisbranch/razzo/internal/services/web/platform/pagerender"
	webtemplates "github.com/louisbranch/razzo/internal/services/web/templates"
)

// ShouldRenderAppError reports whether status uses the error-page UX.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webtemplates.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	return http.StatusText(statusCode)
}

// FormMessage resolves the message shown above a form after err: a localized
// key first, then the blog API's own message, then the view's fallback key.
func FormMessage(loc webtemplates.Localizer, err error, fallbackKey string) string {
	if err == nil {
		return ""
	}
	if key := apperrors.LocalizationKey(err); key != "" {
		return webtemplates.T(loc, key)
	}
	if message := strings.TrimSpace(blogapi.MessageOf(err)); message != "" {
		return message
	}
	return webtemplates.T(loc, fallbackKey)
}

// WriteAppError writes the localized error page for full-page and HTMX requests.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, rd pagerender.Renderer, chrome pagerender.Chrome) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	err := rd.Write(w, r, chrome, pagerender.Page{
		Title:      webtemplates.ErrorPageTitle(statusCode, chrome.Loc),
		StatusCode: statusCode,
		Fragment:   webtemplates.ErrorState(statusCode, chrome.Loc),
	})
	if err != nil {
		log.Printf("render error page: %v", err)
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteModuleError maps err to a status and writes the matching response.
// Client errors other than 404 are written as plain localized text.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, rd pagerender.Renderer, chrome pagerender.Chrome) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderAppError(statusCode) {
		if statusCode >= http.StatusInternalServerError {
			log.Printf("request failed method=%s path=%s status=%d err=%v", requestMethod(r), requestPath(r), statusCode, err)
		}
		WriteAppError(w, r, statusCode, rd, chrome)
		return
	}
	http.Error(w, PublicMessage(chrome.Loc, err), statusCode)
}

func requestMethod(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.Method
}

func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.Path
}
