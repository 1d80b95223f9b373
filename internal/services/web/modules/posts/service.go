package posts

import (
	"bytes"
	"context"
	"strings"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	apperrors "github.com/louisbranch/razzo/internal/services/web/platform/errors"
)

// Gateway reads and writes posts on the blog API.
type Gateway interface {
	ListPosts(ctx context.Context) ([]blogapi.Post, error)
	GetPost(ctx context.Context, id string) (blogapi.Post, error)
	CreatePost(ctx context.Context, token string, input blogapi.PostInput) (blogapi.Post, error)
	UpdatePost(ctx context.Context, token string, id string, input blogapi.PostInput) (blogapi.Post, error)
	DeletePost(ctx context.Context, token string, id string) error
	UploadImage(ctx context.Context, token string, upload blogapi.Upload) (string, error)
}

// imageFile is an uploaded image already read and sniffed.
type imageFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

type postForm struct {
	Title       string
	Body        string
	Image       *imageFile
	RemoveImage bool
}

type service struct {
	gateway Gateway
}

func newService(gateway Gateway) service {
	return service{gateway: gateway}
}

// refresh loads the list and replaces list on success only.
func (s service) refresh(ctx context.Context, list *postList) ([]blogapi.Post, error) {
	posts, err := s.gateway.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	list.replace(posts)
	return list.snapshot(), nil
}

// current returns list's posts, loading them first when this process has
// never seen a full list response for the session.
func (s service) current(ctx context.Context, list *postList) ([]blogapi.Post, error) {
	if list.isLoaded() {
		return list.snapshot(), nil
	}
	return s.refresh(ctx, list)
}

func (s service) post(ctx context.Context, id string) (blogapi.Post, error) {
	return s.gateway.GetPost(ctx, id)
}

// create uploads the image first; a failed upload creates nothing.
func (s service) create(ctx context.Context, token string, list *postList, form postForm) (blogapi.Post, error) {
	input, err := s.input(ctx, token, form, "")
	if err != nil {
		return blogapi.Post{}, err
	}
	post, err := s.gateway.CreatePost(ctx, token, input)
	if err != nil {
		return blogapi.Post{}, err
	}
	list.prepend(post)
	return post, nil
}

// update keeps current's image unless a new one is uploaded or removal is
// requested.
func (s service) update(ctx context.Context, token string, list *postList, current blogapi.Post, form postForm) (blogapi.Post, error) {
	input, err := s.input(ctx, token, form, current.ImageURL)
	if err != nil {
		return blogapi.Post{}, err
	}
	post, err := s.gateway.UpdatePost(ctx, token, current.ID, input)
	if err != nil {
		return blogapi.Post{}, err
	}
	if post.Author.User == nil && post.Author.ID == current.Author.ID {
		post.Author = current.Author
	}
	list.update(post)
	return post, nil
}

func (s service) delete(ctx context.Context, token string, list *postList, id string) error {
	if err := s.gateway.DeletePost(ctx, token, id); err != nil {
		return err
	}
	list.remove(id)
	return nil
}

func (s service) input(ctx context.Context, token string, form postForm, currentImage string) (blogapi.PostInput, error) {
	input := blogapi.PostInput{
		Title:    strings.TrimSpace(form.Title),
		Body:     strings.TrimSpace(form.Body),
		ImageURL: currentImage,
	}
	if input.Title == "" || input.Body == "" {
		return blogapi.PostInput{}, apperrors.EK(apperrors.KindInvalidInput, "error.web.posts.fields_required", "title and body are required")
	}
	if form.RemoveImage {
		input.ImageURL = ""
	}
	if form.Image != nil {
		imageURL, err := s.gateway.UploadImage(ctx, token, blogapi.Upload{
			Filename:    form.Image.Filename,
			ContentType: form.Image.ContentType,
			Content:     bytes.NewReader(form.Image.Content),
		})
		if err != nil {
			return blogapi.PostInput{}, apperrors.Wrap(apperrors.KindOf(err), "error.web.posts.upload_image", err)
		}
		input.ImageURL = imageURL
	}
	return input, nil
}
