package server

import (
	"net/http"

	"github.com/jrsteele09/go-sso-client/flowstore"
	"github.com/jrsteele09/go-sso-client/navigator"
	"github.com/rs/zerolog/log"
)

// LoginHandler starts the SSO flow (GET /auth/login). The state and verifier
// are kept in cookies on the browser and the response redirects it to the
// authorization server.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := flowstore.NewCookieRepo(w, r)
		nav := navigator.NewRedirectNavigator(w, r)

		if err := s.sso.Login(r.Context(), store, nav); err != nil {
			log.Err(err).Str("request_id", RequestID(r.Context())).Msg("Failed to start SSO login")
			if !nav.Redirected() {
				writeJSONError(w, http.StatusInternalServerError, "failed to start login")
			}
		}
	}
}
