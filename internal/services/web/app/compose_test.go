package app

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	module "github.com/louisbranch/razzo/internal/services/web/module"
)

type stubModule struct {
	id       string
	mount    module.Mount
	mountErr error
}

func (s stubModule) ID() string { return s.id }

func (s stubModule) Mount() (module.Mount, error) {
	return s.mount, s.mountErr
}

func textHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	})
}

func TestComposeMountsEveryPattern(t *testing.T) {
	t.Parallel()

	root := http.NewServeMux()
	err := Compose(root, []module.Module{
		stubModule{id: "one", mount: module.Mount{Patterns: []string{"/{$}", "/one/"}, Handler: textHandler("one")}},
		stubModule{id: "two", mount: module.Mount{Patterns: []string{"/two"}, Handler: textHandler("two")}},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	tests := []struct {
		path string
		want string
	}{
		{path: "/", want: "one"},
		{path: "/one/x", want: "one"},
		{path: "/two", want: "two"},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rr.Body.String() != tc.want {
			t.Fatalf("GET %s body = %q, want %q", tc.path, rr.Body.String(), tc.want)
		}
	}
}

func TestComposeRejectsInvalidModules(t *testing.T) {
	t.Parallel()

	ok := textHandler("ok")
	tests := []struct {
		name    string
		modules []module.Module
		wantErr string
	}{
		{
			name: "duplicate pattern",
			modules: []module.Module{
				stubModule{id: "one", mount: module.Mount{Patterns: []string{"/x/"}, Handler: ok}},
				stubModule{id: "two", mount: module.Mount{Patterns: []string{"/x/"}, Handler: ok}},
			},
			wantErr: `duplicates pattern "/x/" owned by module "one"`,
		},
		{
			name:    "missing leading slash",
			modules: []module.Module{stubModule{id: "bad", mount: module.Mount{Patterns: []string{"x/"}, Handler: ok}}},
			wantErr: "invalid pattern",
		},
		{
			name:    "surrounding whitespace",
			modules: []module.Module{stubModule{id: "bad", mount: module.Mount{Patterns: []string{"/x "}, Handler: ok}}},
			wantErr: "invalid pattern",
		},
		{
			name:    "no patterns",
			modules: []module.Module{stubModule{id: "bad", mount: module.Mount{Handler: ok}}},
			wantErr: "at least one pattern",
		},
		{
			name:    "nil handler",
			modules: []module.Module{stubModule{id: "bad", mount: module.Mount{Patterns: []string{"/x"}}}},
			wantErr: "handler is required",
		},
		{
			name:    "mount error",
			modules: []module.Module{stubModule{id: "bad", mountErr: errors.New("gateway is required")}},
			wantErr: "gateway is required",
		},
		{
			name:    "nil module",
			modules: []module.Module{nil},
			wantErr: "module is nil",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := Compose(http.NewServeMux(), tc.modules)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Compose() error = %v, want %q", err, tc.wantErr)
			}
		})
	}
}
