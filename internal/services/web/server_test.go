package web

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	"github.com/louisbranch/razzo/internal/services/web/platform/httpx"
	"github.com/louisbranch/razzo/internal/services/web/session/memory"
)

const fakeToken = "tok-ana"

// newFakeBlogAPI serves the subset of the blog API the web client reads.
func newFakeBlogAPI(t *testing.T) *httptest.Server {
	t.Helper()

	writeJSON := func(w http.ResponseWriter, status int, payload any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}
	posts := []map[string]any{
		{"_id": "p1", "title": "Hello razzo", "body": "first body", "user": map[string]any{"_id": "u1", "username": "ana", "name": "Ana"}, "createdAt": "2026-10-01T10:00:00Z"},
		{"_id": "p2", "title": "Second thoughts", "body": "second body", "user": "u2", "createdAt": "2026-10-02T10:00:00Z"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Username != "ana" || input.Password != "secret" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": fakeToken})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+fakeToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Token is not valid"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"_id": "u1", "username": "ana", "name": "Ana"})
	})
	mux.HandleFunc("GET /api/posts", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, posts)
	})
	mux.HandleFunc("GET /api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, post := range posts {
			if post["_id"] == r.PathValue("id") {
				writeJSON(w, http.StatusOK, post)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"msg": "Post not found"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	api := newFakeBlogAPI(t)
	client, err := blogapi.New(blogapi.Config{BaseURL: api.URL + "/api"})
	if err != nil {
		t.Fatalf("blogapi.New() error = %v", err)
	}
	handler, err := NewHandler(Config{AuthRateLimit: 100, AuthRateBurst: 100}, Dependencies{
		API:    client,
		Store:  memory.New(),
		Logger: log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return handler
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestNewHandlerRequiresDependencies(t *testing.T) {
	t.Parallel()

	client, err := blogapi.New(blogapi.Config{BaseURL: "http://api.test/api"})
	if err != nil {
		t.Fatalf("blogapi.New() error = %v", err)
	}
	tests := []struct {
		name string
		deps Dependencies
	}{
		{name: "missing api", deps: Dependencies{Store: memory.New()}},
		{name: "missing store", deps: Dependencies{API: client}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewHandler(Config{}, tc.deps); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	rr := get(t, newTestHandler(t), "/up")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Fatalf("content-type = %q", got)
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil || payload["status"] != "ok" {
		t.Fatalf("payload = %v err = %v", payload, err)
	}
}

func TestMetricsEndpointExposesCollectors(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	get(t, h, "/up")
	rr := get(t, h, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	for _, marker := range []string{"razzo_http_inflight_requests", `razzo_http_requests_total{method="GET",route="GET /up",status="200"}`} {
		if !strings.Contains(body, marker) {
			t.Fatalf("metrics missing %q", marker)
		}
	}
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	t.Parallel()

	rr := get(t, newTestHandler(t), "/does-not-exist")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if !strings.Contains(rr.Body.String(), `data-status="404"`) {
		t.Fatalf("body missing not found state: %q", rr.Body.String())
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/up", nil)
	req.Header.Set(httpx.RequestIDHeader, "req-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get(httpx.RequestIDHeader); got != "req-123" {
		t.Fatalf("request id = %q, want req-123", got)
	}

	minted := get(t, h, "/up").Header().Get(httpx.RequestIDHeader)
	if minted == "" {
		t.Fatal("expected a minted request id")
	}
}

func TestCrossOriginPostIsRejected(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	tests := []struct {
		name   string
		origin string
	}{
		{name: "no origin"},
		{name: "foreign origin", origin: "http://evil.test"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("username=ana&password=secret"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
			}
		})
	}
}

func TestLoginThenBrowseHome(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTestHandler(t))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New() error = %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	form := url.Values{"username": {"ana"}, "password": {"secret"}}
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", srv.URL)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("login error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("login status = %d location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, err = client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("home error = %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read home: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("home status = %d", resp.StatusCode)
	}
	for _, marker := range []string{"Hi, ana", "Hello razzo", "Second thoughts", "Welcome back!"} {
		if !strings.Contains(string(body), marker) {
			t.Fatalf("home missing %q", marker)
		}
	}
}

func TestPostDetailAndMissingPost(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rr := get(t, h, "/posts/p1")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "first body") {
		t.Fatalf("detail status = %d body = %q", rr.Code, rr.Body.String())
	}
	rr = get(t, h, "/posts/missing")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}
