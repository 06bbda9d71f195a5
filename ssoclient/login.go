package ssoclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-sso-client/flowstore"
	"github.com/jrsteele09/go-sso-client/navigator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Login starts the flow: it stores a fresh CSRF state (and PKCE verifier when
// enabled) in store, then sends the user agent to the authorization endpoint
// through nav. Earlier values in the slots are overwritten.
func (c *Client) Login(ctx context.Context, store flowstore.Repo, nav navigator.Navigator) error {
	ctx, span := c.tracer.Start(ctx, "ssoclient.Login",
		trace.WithAttributes(attribute.Bool("sso.pkce", c.usePKCE)))
	err := c.login(ctx, store, nav)
	endSpan(span, err)
	return err
}

func (c *Client) login(ctx context.Context, store flowstore.Repo, nav navigator.Navigator) error {
	state, err := GenerateRandomString(c.random)
	if err != nil {
		return fmt.Errorf("[Client Login] state: %w", err)
	}
	if err := store.Set(StateKey, state); err != nil {
		return fmt.Errorf("[Client Login] failed to store state: %w", err)
	}

	var challenge string
	if c.usePKCE {
		verifier, err := GenerateRandomString(c.random)
		if err != nil {
			return fmt.Errorf("[Client Login] code verifier: %w", err)
		}
		if err := store.Set(VerifierKey, verifier); err != nil {
			return fmt.Errorf("[Client Login] failed to store code verifier: %w", err)
		}
		challenge = GenerateCodeChallenge(verifier, c.digest)
	}

	authURL := c.AuthorizeURL(state, challenge)
	c.logger.Debug().
		Str("redirect_uri", c.redirectURI).
		Bool("pkce", c.usePKCE).
		Msg("Redirecting to authorization server")

	if err := nav.Navigate(ctx, authURL); err != nil {
		return fmt.Errorf("[Client Login] navigation failed: %w", err)
	}
	return nil
}

// AuthorizeURL builds the authorization request URL. An empty challenge omits
// the PKCE parameters.
func (c *Client) AuthorizeURL(state, challenge string) string {
	params := url.Values{}
	params.Set("redirect_uri", c.redirectURI)
	params.Set("state", state)
	if challenge != "" {
		params.Set("code_challenge", challenge)
		params.Set("code_challenge_method", CodeChallengeMethodS256)
	}
	return c.Endpoint().AuthURL + "?" + params.Encode()
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
