package blogapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/razzo/internal/platform/requestctx"
	apperrors "github.com/louisbranch/razzo/internal/services/web/platform/errors"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

type recordedCall struct {
	operation string
	status    int
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (o *recordingObserver) ObserveAPICall(operation string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, recordedCall{operation: operation, status: status})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingObserver) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	observer := &recordingObserver{}
	client, err := New(Config{BaseURL: srv.URL + "/api", Observer: observer})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client, observer
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"ftp://example.com", "http://", "://bad"} {
		if _, err := New(Config{BaseURL: raw}); err == nil {
			t.Fatalf("New(%q) expected error", raw)
		}
	}
}

func TestNewDefaultsBaseURL(t *testing.T) {
	t.Parallel()

	client, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := client.Origin(); got != "http://localhost:5000" {
		t.Fatalf("Origin() = %q, want %q", got, "http://localhost:5000")
	}
}

func TestLoginSendsCredentialsWithoutAuthorization(t *testing.T) {
	t.Parallel()

	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("request = %s %s, want POST /api/auth/login", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want empty", got)
		}
		var body LoginInput
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Username != "ana" || body.Password != "secret" {
			t.Errorf("body = %+v", body)
		}
		_, _ = io.WriteString(w, `{"token":"tok-1"}`)
	})

	token, err := client.Login(context.Background(), LoginInput{Username: "ana", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("token = %q, want %q", token, "tok-1")
	}
	if len(observer.calls) != 1 || observer.calls[0] != (recordedCall{operation: "login", status: 200}) {
		t.Fatalf("observed calls = %+v", observer.calls)
	}
}

func TestRegisterRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users" {
			t.Errorf("path = %q, want /api/users", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"token":""}`)
	})

	_, err := client.Register(context.Background(), RegisterInput{Name: "Ana", Username: "ana", Password: "secret"})
	if !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("Register() error = %v, want ErrEmptyToken", err)
	}
}

func TestMeSendsBearerTokenAndRequestID(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer tok-1")
		}
		if got := r.Header.Get("X-Request-ID"); got != "req-9" {
			t.Errorf("X-Request-ID = %q, want %q", got, "req-9")
		}
		_, _ = io.WriteString(w, `{"_id":"u1","username":"ana","name":"Ana"}`)
	})

	ctx := requestctx.WithRequestID(context.Background(), "req-9")
	user, err := client.Me(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if user != (User{ID: "u1", Username: "ana", Name: "Ana"}) {
		t.Fatalf("user = %+v", user)
	}
}

func TestListPostsDecodesAuthorShapes(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"_id":"p1","title":"One","body":"b1","imageUrl":"/uploads/a.png","user":{"_id":"u1","name":"Ana"},"createdAt":"2026-10-14T15:04:00Z"},
			{"id":"p2","title":"Two","body":"b2","user":"u2","createdAt":"2026-10-13T10:00:00Z"}
		]`)
	})

	posts, err := client.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].ID != "p1" || posts[0].Author.ID != "u1" || posts[0].Author.DisplayName() != "Ana" {
		t.Fatalf("posts[0] = %+v", posts[0])
	}
	if posts[0].ImageURL != "/uploads/a.png" {
		t.Fatalf("posts[0].ImageURL = %q", posts[0].ImageURL)
	}
	if posts[1].ID != "p2" || posts[1].Author.ID != "u2" || posts[1].Author.User != nil {
		t.Fatalf("posts[1] = %+v", posts[1])
	}
	want := time.Date(2026, time.October, 14, 15, 4, 0, 0, time.UTC)
	if !posts[0].CreatedAt.Equal(want) {
		t.Fatalf("CreatedAt = %v, want %v", posts[0].CreatedAt, want)
	}
}

func TestListPostsToleratesBadCreatedAt(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"_id":"p1","title":"One","createdAt":"not-a-date"},
			{"_id":"p2","title":"Two","createdAt":""},
			{"_id":"p3","title":"Three","createdAt":null},
			{"_id":"p4","title":"Four","createdAt":1760454240},
			{"_id":"p5","title":"Five"},
			{"_id":"p6","title":"Six","createdAt":"2026-10-14T15:04:00.123Z"}
		]`)
	})

	posts, err := client.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if len(posts) != 6 {
		t.Fatalf("len(posts) = %d, want 6", len(posts))
	}
	for _, post := range posts[:5] {
		if !post.CreatedAt.IsZero() {
			t.Fatalf("%s CreatedAt = %v, want zero", post.ID, post.CreatedAt)
		}
	}
	want := time.Date(2026, time.October, 14, 15, 4, 0, 123000000, time.UTC)
	if !posts[5].CreatedAt.Equal(want) {
		t.Fatalf("p6 CreatedAt = %v, want %v", posts[5].CreatedAt, want)
	}
}

func TestCallsInjectTraceparentAndRecordSpan(t *testing.T) {
	t.Parallel()

	traceparents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparents <- r.Header.Get("Traceparent")
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(srv.Close)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	client, err := New(Config{
		BaseURL:        srv.URL + "/api",
		TracerProvider: provider,
		Propagator:     propagation.TraceContext{},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := client.ListPosts(context.Background()); err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "blogapi.list_posts" {
		t.Fatalf("span name = %q, want blogapi.list_posts", span.Name())
	}
	if span.SpanKind() != trace.SpanKindClient {
		t.Fatalf("span kind = %v, want client", span.SpanKind())
	}
	sc := span.SpanContext()
	want := "00-" + sc.TraceID().String() + "-" + sc.SpanID().String() + "-01"
	if got := <-traceparents; got != want {
		t.Fatalf("traceparent = %q, want %q", got, want)
	}
}

func TestListPostsEmptyArray(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})
	posts, err := client.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Fatalf("posts = %#v, want empty slice", posts)
	}
}

func TestErrorMessageExtraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "msg", body: `{"msg":"Post not found"}`, want: "Post not found"},
		{name: "message", body: `{"message":"Invalid credentials"}`, want: "Invalid credentials"},
		{name: "error", body: `{"error":"boom"}`, want: "boom"},
		{name: "validation errors", body: `{"errors":[{"msg":"Title is required"}]}`, want: "Title is required"},
		{name: "msg wins", body: `{"message":"second","msg":"first"}`, want: "first"},
		{name: "non string", body: `{"error":{"code":1}}`, want: ""},
		{name: "not json", body: `<html>oops</html>`, want: ""},
		{name: "empty", body: ``, want: ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := errorMessage([]byte(tc.body)); got != tc.want {
				t.Fatalf("errorMessage(%q) = %q, want %q", tc.body, got, tc.want)
			}
		})
	}
}

func TestGetPostNotFound(t *testing.T) {
	t.Parallel()

	client, observer := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts/p 1" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/api/posts/p 1")
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"msg":"Post not found"}`)
	})

	_, err := client.GetPost(context.Background(), "p 1")
	if !IsNotFound(err) {
		t.Fatalf("GetPost() error = %v, want not found", err)
	}
	if got := MessageOf(err); got != "Post not found" {
		t.Fatalf("MessageOf() = %q", got)
	}
	if got := apperrors.HTTPStatus(err); got != http.StatusNotFound {
		t.Fatalf("HTTPStatus() = %d, want 404", got)
	}
	if observer.calls[0].status != http.StatusNotFound {
		t.Fatalf("observed status = %d", observer.calls[0].status)
	}
}

func TestUpdateAndDeleteUseBearerToken(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		methods []string
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		methods = append(methods, r.Method+" "+r.URL.Path)
		mu.Unlock()
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Method == http.MethodPatch {
			var body PostInput
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Title != "New" || body.ImageURL != "" {
				t.Errorf("body = %+v", body)
			}
			_, _ = io.WriteString(w, `{"_id":"p1","title":"New","body":"b","user":"u1"}`)
			return
		}
		_, _ = io.WriteString(w, `{"msg":"Post removed"}`)
	})

	post, err := client.UpdatePost(context.Background(), "tok", "p1", PostInput{Title: "New", Body: "b"})
	if err != nil {
		t.Fatalf("UpdatePost() error = %v", err)
	}
	if post.Title != "New" {
		t.Fatalf("post = %+v", post)
	}
	if err := client.DeletePost(context.Background(), "tok", "p1"); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}
	want := []string{"PATCH /api/posts/p1", "DELETE /api/posts/p1"}
	mu.Lock()
	defer mu.Unlock()
	if strings.Join(methods, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", methods, want)
	}
}

func TestUploadImageSendsMultipartField(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts/upload" {
			t.Errorf("path = %q", r.URL.Path)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("FormFile() error = %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "png-bytes" {
			t.Errorf("content = %q", data)
		}
		if header.Filename != "cat.png" {
			t.Errorf("filename = %q", header.Filename)
		}
		if got := header.Header.Get("Content-Type"); got != "image/png" {
			t.Errorf("part content type = %q", got)
		}
		_, _ = io.WriteString(w, `{"imageUrl":"/uploads/cat.png"}`)
	})

	got, err := client.UploadImage(context.Background(), "tok", Upload{
		Filename:    `C:\pictures\cat.png`,
		ContentType: "image/png",
		Content:     strings.NewReader("png-bytes"),
	})
	if err != nil {
		t.Fatalf("UploadImage() error = %v", err)
	}
	if got != "/uploads/cat.png" {
		t.Fatalf("imageUrl = %q", got)
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	observer := &recordingObserver{}
	client, err := New(Config{BaseURL: baseURL, Observer: observer})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = client.ListPosts(context.Background())
	if got := apperrors.KindOf(err); got != apperrors.KindUnavailable {
		t.Fatalf("KindOf() = %q, want %q", got, apperrors.KindUnavailable)
	}
	if got := apperrors.HTTPStatus(err); got != http.StatusServiceUnavailable {
		t.Fatalf("HTTPStatus() = %d, want 503", got)
	}
	if observer.calls[0].status != 0 {
		t.Fatalf("observed status = %d, want 0", observer.calls[0].status)
	}
}
