package auth

import (
	"net/http"

	"github.com/louisbranch/razzo/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Login, h.handleLoginGet)
	mux.HandleFunc(http.MethodPost+" "+routepath.Login, h.handleLoginPost)
	mux.HandleFunc(http.MethodGet+" "+routepath.Register, h.handleRegisterGet)
	mux.HandleFunc(http.MethodPost+" "+routepath.Register, h.handleRegisterPost)
	mux.HandleFunc(http.MethodPost+" "+routepath.Logout, h.handleLogout)
}
