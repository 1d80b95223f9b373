package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

type upstreamErr struct{ status int }

func (e upstreamErr) Error() string   { return "upstream" }
func (e upstreamErr) StatusCode() int { return e.status }

func TestHTTPStatusMapsKnownKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{kind: KindInvalidInput, want: http.StatusBadRequest},
		{kind: KindUnauthorized, want: http.StatusUnauthorized},
		{kind: KindForbidden, want: http.StatusForbidden},
		{kind: KindNotFound, want: http.StatusNotFound},
		{kind: KindConflict, want: http.StatusConflict},
		{kind: KindRateLimited, want: http.StatusTooManyRequests},
		{kind: KindUnavailable, want: http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		if got := HTTPStatus(E(tc.kind, "x")); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestHTTPStatusDefaultsToInternalError(t *testing.T) {
	t.Parallel()

	if got := HTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", got, http.StatusInternalServerError)
	}
	if got := HTTPStatus(nil); got != http.StatusOK {
		t.Fatalf("HTTPStatus(nil) = %d, want %d", got, http.StatusOK)
	}
}

func TestHTTPStatusUsesUpstreamStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		upstream int
		want     int
	}{
		{upstream: http.StatusNotFound, want: http.StatusNotFound},
		{upstream: http.StatusUnauthorized, want: http.StatusUnauthorized},
		{upstream: http.StatusServiceUnavailable, want: http.StatusServiceUnavailable},
		{upstream: http.StatusInternalServerError, want: http.StatusBadGateway},
		{upstream: 0, want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		err := fmt.Errorf("wrapped: %w", upstreamErr{status: tc.upstream})
		if got := HTTPStatus(err); got != tc.want {
			t.Fatalf("HTTPStatus(upstream %d) = %d, want %d", tc.upstream, got, tc.want)
		}
	}
}

func TestUnknownKindFallsThroughToUpstreamStatus(t *testing.T) {
	t.Parallel()

	err := Wrap(KindUnknown, "web.posts.error_load", upstreamErr{status: http.StatusNotFound})
	if got := HTTPStatus(err); got != http.StatusNotFound {
		t.Fatalf("HTTPStatus() = %d, want %d", got, http.StatusNotFound)
	}
	if got := LocalizationKey(err); got != "web.posts.error_load" {
		t.Fatalf("LocalizationKey() = %q", got)
	}
}

func TestErrorStringFallbacks(t *testing.T) {
	t.Parallel()

	if got := (Error{Kind: KindForbidden}).Error(); got != string(KindForbidden) {
		t.Fatalf("Error() = %q, want %q", got, KindForbidden)
	}
	cause := errors.New("cause")
	wrapped := Wrap(KindUnavailable, "", cause)
	if got := wrapped.Error(); got != "cause" {
		t.Fatalf("Error() = %q, want cause", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected wrapped error to unwrap to cause")
	}
}

func TestLocalizationKeyAndKindOf(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("ctx: %w", EK(KindInvalidInput, " web.auth.error_required ", "required"))
	if got := LocalizationKey(err); got != "web.auth.error_required" {
		t.Fatalf("LocalizationKey() = %q", got)
	}
	if got := KindOf(err); got != KindInvalidInput {
		t.Fatalf("KindOf() = %q", got)
	}
	if got := LocalizationKey(errors.New("plain")); got != "" {
		t.Fatalf("LocalizationKey(plain) = %q", got)
	}
	if got := KindOf(nil); got != KindUnknown {
		t.Fatalf("KindOf(nil) = %q", got)
	}
}
