package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-sso-client/ssoclient"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json"

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to write JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// callbackStatus maps a HandleCallback error onto the status returned to the browser
func callbackStatus(err error) int {
	switch {
	case errors.Is(err, ssoclient.ErrMissingAuthorizationCode),
		errors.Is(err, ssoclient.ErrStateMismatch),
		errors.Is(err, ssoclient.ErrMissingPKCEVerifier):
		return http.StatusBadRequest
	case errors.Is(err, ssoclient.ErrTokenExchangeFailed),
		errors.Is(err, ssoclient.ErrInvalidSessionToken):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
