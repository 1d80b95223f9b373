package posts

import (
	"net/http"

	"github.com/louisbranch/razzo/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Home, h.withChrome(h.handleHome))

	mux.HandleFunc(http.MethodPost+" "+routepath.Posts, h.requireAuth(h.handleCreate))
	mux.HandleFunc(http.MethodGet+" "+routepath.PostsNew, h.requireAuth(h.handleNew))
	mux.HandleFunc(http.MethodGet+" "+routepath.PostPattern, h.withChrome(h.withPostID(h.handleDetail)))
	mux.HandleFunc(http.MethodGet+" "+routepath.PostDeletePattern, h.requireAuth(h.withPostID(h.handleDeleteConfirm)))
	mux.HandleFunc(http.MethodPost+" "+routepath.PostDeletePattern, h.requireAuth(h.withPostID(h.handleDelete)))

	mux.HandleFunc(http.MethodGet+" "+routepath.EditPostPattern, h.requireAuth(h.withPostID(h.handleEdit)))
	mux.HandleFunc(http.MethodPost+" "+routepath.EditPostPattern, h.requireAuth(h.withPostID(h.handleUpdate)))

	mux.HandleFunc(http.MethodGet+" "+routepath.PostsPrefix+"{rest...}", h.handleNotFound)
	mux.HandleFunc(http.MethodGet+" "+routepath.EditPostPrefix+"{rest...}", h.handleNotFound)
}
