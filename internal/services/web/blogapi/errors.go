package blogapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrEmptyToken reports a register or login response without a token.
var ErrEmptyToken = errors.New("blog api returned an empty token")

// messagePaths are tried in order when extracting an error message.
var messagePaths = []string{"msg", "message", "error", "errors.0.msg"}

// Error is a non-2xx response from the blog API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("blog api: status %d", e.Status)
	}
	return fmt.Sprintf("blog api: status %d: %s", e.Status, e.Message)
}

// StatusCode returns the upstream HTTP status.
func (e *Error) StatusCode() int {
	return e.Status
}

// StatusOf returns the upstream status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the server-provided message carried by err, if any.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// IsUnauthorized reports whether the API rejected the bearer token.
func IsUnauthorized(err error) bool {
	status := StatusOf(err)
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// IsNotFound reports whether the API answered 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range messagePaths {
		result := gjson.GetBytes(body, path)
		if result.Type != gjson.String {
			continue
		}
		if msg := strings.TrimSpace(result.String()); msg != "" {
			return msg
		}
	}
	return ""
}
