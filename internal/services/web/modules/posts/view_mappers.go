package posts

import (
	"net/url"
	"strings"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	"github.com/louisbranch/razzo/internal/services/web/principal"
	webtemplates "github.com/louisbranch/razzo/internal/services/web/templates"
)

type viewMapper struct {
	assetBaseURL string
}

func (m viewMapper) postViews(viewer principal.Viewer, posts []blogapi.Post) []webtemplates.PostView {
	views := make([]webtemplates.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, m.postView(viewer, post))
	}
	return views
}

func (m viewMapper) postView(viewer principal.Viewer, post blogapi.Post) webtemplates.PostView {
	return webtemplates.PostView{
		ID:         post.ID,
		Title:      post.Title,
		Body:       post.Body,
		ImageURL:   m.imageURL(post.ImageURL),
		AuthorName: authorName(viewer, post.Author),
		CreatedAt:  post.CreatedAt,
		CanEdit:    principal.IsAuthor(viewer, post),
	}
}

func (m viewMapper) formView(post blogapi.Post) webtemplates.PostFormView {
	return webtemplates.PostFormView{
		PostID:   post.ID,
		Title:    post.Title,
		Body:     post.Body,
		ImageURL: m.imageURL(post.ImageURL),
	}
}

// imageURL resolves a stored image path against the asset base URL.
// Absolute and protocol-relative URLs pass through.
func (m viewMapper) imageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		return raw
	}
	if parsed, err := url.Parse(raw); err == nil && parsed.IsAbs() {
		return raw
	}
	base := strings.TrimRight(strings.TrimSpace(m.assetBaseURL), "/")
	return base + "/" + strings.TrimLeft(raw, "/")
}

// authorName prefers the populated display name, then the username. A bare
// author id owned by the viewer borrows the viewer's name.
func authorName(viewer principal.Viewer, author blogapi.Author) string {
	if name := author.DisplayName(); name != "" {
		return name
	}
	if author.User != nil {
		if username := strings.TrimSpace(author.User.Username); username != "" {
			return username
		}
	}
	if author.ID != "" && author.ID == viewer.User.ID {
		if name := strings.TrimSpace(viewer.User.Name); name != "" {
			return name
		}
		return viewer.DisplayName()
	}
	return ""
}
