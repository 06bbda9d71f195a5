package ssoclient

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration     = errors.New("sso: invalid configuration")
	ErrMissingAuthorizationCode = errors.New("missing authorization code in callback URL")
	ErrStateMismatch            = errors.New("state mismatch, possible CSRF attack")
	ErrMissingPKCEVerifier      = errors.New("missing PKCE verifier, login flow may have been interrupted")
	ErrTokenExchangeFailed      = errors.New("token exchange failed")
	ErrInvalidSessionToken      = errors.New("sso: invalid session token")
)

// ExchangeError is returned when the token exchange endpoint answers with a
// non-2xx status. Error() is the server's own message so callers can show it
// unchanged.
type ExchangeError struct {
	StatusCode int
	Message    string
}

func (e *ExchangeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return e.Message
}

// Is makes errors.Is(err, ErrTokenExchangeFailed) match every ExchangeError
func (e *ExchangeError) Is(target error) bool {
	return target == ErrTokenExchangeFailed
}
