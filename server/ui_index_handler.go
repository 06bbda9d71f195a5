package server

import (
	"net/http"
)

// IndexHandler describes the service and where to start a login
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"app":          s.config.GetAppName(),
			"login_url":    RouteLogin,
			"redirect_uri": s.sso.RedirectURI(),
			"pkce":         s.sso.UsePKCE(),
		})
	}
}
