// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root     = "/"
	Home     = "/{$}"
	Login    = "/login"
	Register = "/register"
	Logout   = "/logout"
	Health   = "/up"
	Metrics  = "/metrics"
	Static   = "/static/"

	PostsPrefix       = "/posts/"
	Posts             = "/posts"
	PostsNew          = "/posts/new"
	PostPattern       = PostsPrefix + "{id}"
	PostDeletePattern = PostsPrefix + "{id}/delete"

	EditPostPrefix  = "/edit-post/"
	EditPostPattern = EditPostPrefix + "{id}"
)

// Post returns the post detail route.
func Post(id string) string {
	return PostsPrefix + escapeSegment(id)
}

// PostDelete returns the delete confirmation route for a post.
func PostDelete(id string) string {
	return PostsPrefix + escapeSegment(id) + "/delete"
}

// EditPost returns the edit form route for a post.
func EditPost(id string) string {
	return EditPostPrefix + escapeSegment(id)
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
