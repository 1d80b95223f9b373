package templates

import (
	"time"

	"github.com/a-h/templ"
)

// PostListID is the DOM id of the post list container; HTMX swaps target it.
const PostListID = "post-list"

// PostView is the display form of one post.
type PostView struct {
	ID         string
	Title      string
	Body       string
	ImageURL   string
	AuthorName string
	CreatedAt  time.Time
	CanEdit    bool
}

// HomeView drives the home page.
type HomeView struct {
	Posts []PostView
	Error string
}

// DetailView drives the post detail page.
type DetailView struct {
	Post  PostView
	Error string
}

// imageSrc sanitizes an image URL the same way templ sanitizes hrefs.
func imageSrc(raw string) string {
	return string(templ.URL(raw))
}

func authorName(post PostView, loc Localizer) string {
	if post.AuthorName == "" {
		return T(loc, "web.posts.author_fallback")
	}
	return post.AuthorName
}

func isoTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
