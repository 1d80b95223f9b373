package templates

import "net/http"

const (
	errorPageTitleNotFoundKey  = "web.error.page_title_not_found"
	errorPageTitleServerErrKey = "web.error.page_title_server_error"
	errorHeadingNotFoundKey    = "web.error.title_not_found"
	errorHeadingServerErrKey   = "web.error.title_server_error"
	errorMessageNotFoundKey    = "web.error.message_not_found"
	errorMessageServerErrKey   = "web.error.message_server_error"
	errorBackHomeKey           = "web.error.action_back_home"
)

// ErrorPageTitle returns the browser page title for error pages.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, errorPageTitleNotFoundKey)
	}
	return T(loc, errorPageTitleServerErrKey)
}

func errorHeadingKey(statusCode int) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return errorHeadingNotFoundKey
	}
	return errorHeadingServerErrKey
}

func errorMessageKey(statusCode int) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return errorMessageNotFoundKey
	}
	return errorMessageServerErrKey
}

func normalizeErrorStatus(statusCode int) int {
	if statusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
