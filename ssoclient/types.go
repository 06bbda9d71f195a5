package ssoclient

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SSOUser is the account the authorization server signed in.
type SSOUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenExchangeResult is the body of a successful token exchange.
type TokenExchangeResult struct {
	Success bool    `json:"success"`
	JWT     string  `json:"jwt"`
	User    SSOUser `json:"user"`
}

// SessionClaims are the claims carried by the session JWT.
type SessionClaims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Claims decodes the session JWT without checking its signature. Use a
// TokenVerifier when the signature matters.
func (r *TokenExchangeResult) Claims() (*SessionClaims, error) {
	if r == nil || r.JWT == "" {
		return nil, errors.New("no session token in exchange result")
	}

	claims := &SessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(r.JWT, claims); err != nil {
		return nil, fmt.Errorf("failed to decode session token: %w", err)
	}
	return claims, nil
}
