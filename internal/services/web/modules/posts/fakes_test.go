package posts

import (
	"context"
	"io"
	"sync"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
)

type createCall struct {
	token string
	input blogapi.PostInput
}

type updateCall struct {
	token string
	id    string
	input blogapi.PostInput
}

type fakeGateway struct {
	mu sync.Mutex

	posts     []blogapi.Post
	listErr   error
	listCalls int
	getErr    error

	created   blogapi.Post
	createErr error
	creates   []createCall

	updated   blogapi.Post
	updateErr error
	updates   []updateCall

	deleteErr error
	deletes   []string

	uploadURL string
	uploadErr error
	uploads   []blogapi.Upload
	uploaded  [][]byte
}

func (f *fakeGateway) ListPosts(context.Context) ([]blogapi.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]blogapi.Post(nil), f.posts...), nil
}

func (f *fakeGateway) GetPost(_ context.Context, id string) (blogapi.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return blogapi.Post{}, f.getErr
	}
	for _, post := range f.posts {
		if post.ID == id {
			return post, nil
		}
	}
	return blogapi.Post{}, &blogapi.Error{Status: 404, Message: "Post not found"}
}

func (f *fakeGateway) CreatePost(_ context.Context, token string, input blogapi.PostInput) (blogapi.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, createCall{token: token, input: input})
	if f.createErr != nil {
		return blogapi.Post{}, f.createErr
	}
	f.posts = append([]blogapi.Post{f.created}, f.posts...)
	return f.created, nil
}

func (f *fakeGateway) UpdatePost(_ context.Context, token string, id string, input blogapi.PostInput) (blogapi.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{token: token, id: id, input: input})
	return f.updated, f.updateErr
}

func (f *fakeGateway) DeletePost(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func (f *fakeGateway) UploadImage(_ context.Context, _ string, upload blogapi.Upload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, _ := io.ReadAll(upload.Content)
	f.uploads = append(f.uploads, upload)
	f.uploaded = append(f.uploaded, content)
	return f.uploadURL, f.uploadErr
}
