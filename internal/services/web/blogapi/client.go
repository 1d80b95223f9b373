// Package blogapi is a typed HTTP client for the blog REST API.
//
// The API owns persistence, authorization and image storage. The client only
// shapes requests, attaches the caller's bearer token and decodes responses.
package blogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/louisbranch/razzo/internal/platform/requestctx"
	"github.com/louisbranch/razzo/internal/platform/timeouts"
	apperrors "github.com/louisbranch/razzo/internal/services/web/platform/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the API root used when none is configured.
	DefaultBaseURL = "http://localhost:5000/api"

	tracerName       = "blogapi"
	requestIDHeader  = "X-Request-ID"
	maxErrorBodySize = 64 << 10
)

// CallObserver records per-call metrics. Status 0 marks a transport failure.
type CallObserver interface {
	ObserveAPICall(operation string, status int, duration time.Duration)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Observer   CallObserver
	// TracerProvider and Propagator default to the otel globals.
	TracerProvider trace.TracerProvider
	Propagator     propagation.TextMapPropagator
}

// Client calls the blog API. It keeps no authorization state: every
// authenticated call takes the token explicitly.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	observer CallObserver
	tracer   trace.Tracer
	prop     propagation.TextMapPropagator
	now      func() time.Time
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse blog api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("blog api base url %q must be http or https", raw)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("blog api base url %q has no host", raw)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = timeouts.APIRequest
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	prop := cfg.Propagator
	if prop == nil {
		prop = otel.GetTextMapPropagator()
	}
	return &Client{
		baseURL:  base,
		http:     httpClient,
		observer: cfg.Observer,
		tracer:   tp.Tracer(tracerName),
		prop:     prop,
		now:      time.Now,
	}, nil
}

// Origin returns scheme://host of the API, the default base for image paths.
func (c *Client) Origin() string {
	return (&url.URL{Scheme: c.baseURL.Scheme, Host: c.baseURL.Host}).String()
}

// Register creates an account and returns its bearer token.
func (c *Client) Register(ctx context.Context, input RegisterInput) (string, error) {
	var resp tokenResponse
	if err := c.doJSON(ctx, "register", http.MethodPost, "users", "", input, &resp); err != nil {
		return "", err
	}
	return tokenOrError(resp.Token)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, input LoginInput) (string, error) {
	var resp tokenResponse
	if err := c.doJSON(ctx, "login", http.MethodPost, "auth/login", "", input, &resp); err != nil {
		return "", err
	}
	return tokenOrError(resp.Token)
}

// Me loads the user the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (User, error) {
	var user User
	if err := c.doJSON(ctx, "me", http.MethodGet, "auth/me", token, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// ListPosts returns every post in the order the API sends them.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.doJSON(ctx, "list_posts", http.MethodGet, "posts", "", nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts, nil
}

// GetPost loads one post.
func (c *Client) GetPost(ctx context.Context, id string) (Post, error) {
	var post Post
	if err := c.doJSON(ctx, "get_post", http.MethodGet, postPath(id), "", nil, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

// CreatePost creates a post owned by the token's user.
func (c *Client) CreatePost(ctx context.Context, token string, input PostInput) (Post, error) {
	var post Post
	if err := c.doJSON(ctx, "create_post", http.MethodPost, "posts", token, input, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

// UpdatePost replaces the writable fields of a post.
func (c *Client) UpdatePost(ctx context.Context, token string, id string, input PostInput) (Post, error) {
	var post Post
	if err := c.doJSON(ctx, "update_post", http.MethodPatch, postPath(id), token, input, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

// DeletePost removes a post. The response body is ignored.
func (c *Client) DeletePost(ctx context.Context, token string, id string) error {
	return c.doJSON(ctx, "delete_post", http.MethodDelete, postPath(id), token, nil, nil)
}

// UploadImage stores an image and returns the path the API serves it from.
func (c *Client) UploadImage(ctx context.Context, token string, upload Upload) (string, error) {
	if upload.Content == nil {
		return "", errors.New("upload content is required")
	}
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, uploadFilename(upload.Filename)))
	contentType := strings.TrimSpace(upload.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := form.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, upload.Content); err != nil {
		return "", fmt.Errorf("copy upload content: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close upload form: %w", err)
	}

	var resp uploadResponse
	if err := c.do(ctx, "upload_image", http.MethodPost, "posts/upload", token, &body, form.FormDataContentType(), &resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.ImageURL), nil
}

func (c *Client) doJSON(ctx context.Context, op, method, rel, token string, in any, out any) error {
	if in == nil {
		return c.do(ctx, op, method, rel, token, nil, "", out)
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}
	return c.do(ctx, op, method, rel, token, bytes.NewReader(payload), "application/json", out)
}

func (c *Client) do(ctx context.Context, op, method, rel, token string, body io.Reader, contentType string, out any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.endpoint(rel)
	ctx, span := c.tracer.Start(ctx, "blogapi."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", endpoint),
		),
	)
	start := c.now()
	status := 0
	defer func() {
		if c.observer != nil {
			c.observer.ObserveAPICall(op, status, c.now().Sub(start))
		}
		if status > 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", status))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token = strings.TrimSpace(token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if requestID := requestctx.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(requestIDHeader, requestID)
	}
	c.prop.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUnavailable, "error.web.message.blog_api_unavailable", fmt.Errorf("%s: %w", op, err))
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if status < 200 || status > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &Error{Status: status, Message: errorMessage(raw)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) endpoint(rel string) string {
	return c.baseURL.JoinPath(rel).String()
}

func postPath(id string) string {
	return "posts/" + url.PathEscape(strings.TrimSpace(id))
}

func tokenOrError(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}

func uploadFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "image"
	}
	return name
}
