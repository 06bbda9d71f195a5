package ssoclient

import (
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-sso-client/internal/utils"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const (
	// StateKey is the storage slot holding the CSRF state of the flow in progress.
	StateKey = "ias_sso_state"
	// VerifierKey is the storage slot holding the PKCE code verifier.
	VerifierKey = "ias_sso_pkce_verifier"

	// DefaultCallbackPath is appended to Config.Origin when no RedirectURI is set.
	DefaultCallbackPath = "/auth/callback"

	authorizePath = "/auth/sso/authorize"
	exchangePath  = "/auth/sso/token/exchange"

	tracerName = "github.com/jrsteele09/go-sso-client/ssoclient"
)

// HTTPClient defines the interface for making HTTP requests.
// *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config is the caller supplied configuration for New.
type Config struct {
	// AuthBaseURL is the authorization server, e.g. https://auth.example.com.
	AuthBaseURL string
	// RedirectURI receives the authorization code. Defaults to Origin + "/auth/callback".
	RedirectURI string
	// Origin is the scheme://host[:port] of the application.
	Origin string
	// UsePKCE enables the S256 code challenge. Defaults to true.
	UsePKCE *bool
}

// Client runs the two halves of the authorization code flow. It holds no
// per-flow state; everything that must survive the navigation lives in the
// flowstore.Repo handed to each call. A Client is immutable and safe for
// concurrent use.
type Client struct {
	authBaseURL string
	redirectURI string
	usePKCE     bool

	random     io.Reader
	digest     DigestFunc
	httpClient HTTPClient
	verifier   TokenVerifier
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// Option configures optional Client capabilities
type Option func(*Client)

// WithRandom replaces crypto/rand as the source of states and verifiers
func WithRandom(r io.Reader) Option {
	return func(c *Client) {
		c.random = r
	}
}

// WithDigest replaces SHA-256 as the challenge digest
func WithDigest(d DigestFunc) Option {
	return func(c *Client) {
		c.digest = d
	}
}

// WithHTTPClient sets the client used for the token exchange
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithTokenVerifier verifies the session JWT returned by the exchange
func WithTokenVerifier(v TokenVerifier) Option {
	return func(c *Client) {
		c.verifier = v
	}
}

// WithLogger enables debug logging of flow transitions
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// New validates cfg and builds a Client
func New(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimSpace(cfg.AuthBaseURL)
	if base == "" {
		return nil, fmt.Errorf("%w: auth base url is required", ErrInvalidConfiguration)
	}
	base = strings.TrimSuffix(base, "/")

	redirectURI := strings.TrimSpace(cfg.RedirectURI)
	if redirectURI == "" {
		origin := strings.TrimSpace(cfg.Origin)
		if origin == "" {
			return nil, fmt.Errorf("%w: redirect uri or origin is required", ErrInvalidConfiguration)
		}
		redirectURI = strings.TrimSuffix(origin, "/") + DefaultCallbackPath
	}

	c := &Client{
		authBaseURL: base,
		redirectURI: redirectURI,
		usePKCE:     utils.ValueOr(cfg.UsePKCE, true),
		random:      rand.Reader,
		digest:      SHA256Digest,
		httpClient:  http.DefaultClient,
		logger:      zerolog.Nop(),
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// AuthBaseURL returns the authorization server base without a trailing slash
func (c *Client) AuthBaseURL() string {
	return c.authBaseURL
}

// RedirectURI returns the callback URL sent with every authorization request
func (c *Client) RedirectURI() string {
	return c.redirectURI
}

// UsePKCE reports whether the S256 code challenge is sent
func (c *Client) UsePKCE() bool {
	return c.usePKCE
}

// Endpoint returns the authorization and token exchange URLs of the server
func (c *Client) Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:  c.authBaseURL + authorizePath,
		TokenURL: c.authBaseURL + exchangePath,
	}
}

// ExchangeURL is the token exchange endpoint
func (c *Client) ExchangeURL() string {
	return c.Endpoint().TokenURL
}
