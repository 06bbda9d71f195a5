package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-sso-client/flowstore"
	"github.com/rs/zerolog/log"
)

// CallbackHandler completes the SSO flow (GET /auth/callback) from the query
// string the authorization server redirected with.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()

		// Check for authorization errors
		if errorParam := params.Get("error"); errorParam != "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:            errorParam,
				ErrorDescription: params.Get("error_description"),
			})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.config.GetExchangeTimeout())
		defer cancel()

		store := flowstore.NewCookieRepo(w, r)
		result, err := s.sso.HandleCallback(ctx, store, params)
		if err != nil {
			status := callbackStatus(err)
			message := err.Error()
			if status == http.StatusInternalServerError {
				message = "internal error"
			}
			log.Err(err).
				Str("request_id", RequestID(r.Context())).
				Int("status", status).
				Msg("SSO callback failed")
			writeJSONError(w, status, message)
			return
		}

		log.Info().
			Str("request_id", RequestID(r.Context())).
			Str("user_id", result.User.ID).
			Msg("SSO login complete")
		writeJSON(w, http.StatusOK, result)
	}
}
