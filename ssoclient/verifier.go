package ssoclient

import (
	"context"
	"errors"

	"github.com/coreos/go-oidc/v3/oidc"
)

// TokenVerifier checks the session JWT returned by a successful exchange.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) error
}

// JWKSVerifier validates signature, issuer, expiry and optionally audience
// against the authorization server's published key set.
type JWKSVerifier struct {
	verifier *oidc.IDTokenVerifier
}

var _ TokenVerifier = (*JWKSVerifier)(nil)

// NewJWKSVerifier builds a verifier backed by a remote JWKS. An empty audience
// skips the aud check. Keys are fetched lazily on first use with ctx's HTTP
// client (see oidc.ClientContext).
func NewJWKSVerifier(ctx context.Context, issuer, jwksURL, audience string) (*JWKSVerifier, error) {
	if issuer == "" || jwksURL == "" {
		return nil, errors.New("issuer and jwks url are required")
	}

	keySet := oidc.NewRemoteKeySet(ctx, jwksURL)
	return NewKeySetVerifier(issuer, keySet, audience), nil
}

// NewKeySetVerifier builds a verifier from an existing key set. Tests use
// oidc.StaticKeySet.
func NewKeySetVerifier(issuer string, keySet oidc.KeySet, audience string) *JWKSVerifier {
	return &JWKSVerifier{
		verifier: oidc.NewVerifier(issuer, keySet, &oidc.Config{
			ClientID:          audience,
			SkipClientIDCheck: audience == "",
		}),
	}
}

// Verify rejects rawToken unless it is a currently valid JWT signed by the key set
func (v *JWKSVerifier) Verify(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return errors.New("empty session token")
	}
	_, err := v.verifier.Verify(ctx, rawToken)
	return err
}
