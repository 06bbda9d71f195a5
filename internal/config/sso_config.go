package config

import (
	"time"

	"github.com/jrsteele09/go-sso-client/internal/utils"
	"github.com/jrsteele09/go-sso-client/ssoclient"
)

type SSOConfig interface {
	GetAuthBaseURL() string
	GetRedirectURI() string
	GetOrigin() string
	GetUsePKCE() bool
	GetJWKSURL() string
	GetIssuer() string
	GetAudience() string
	GetExchangeTimeout() time.Duration
	ClientConfig() ssoclient.Config
}

type SSO struct {
	AuthBaseURL     string        `env:"SSO_AUTH_BASE_URL,required"`
	RedirectURI     string        `env:"SSO_REDIRECT_URI"`
	Origin          string        `env:"SSO_ORIGIN" envDefault:"http://localhost:8080"`
	UsePKCE         bool          `env:"SSO_USE_PKCE" envDefault:"true"`
	JWKSURL         string        `env:"SSO_JWKS_URL"`
	Issuer          string        `env:"SSO_ISSUER"`
	Audience        string        `env:"SSO_AUDIENCE"`
	ExchangeTimeout time.Duration `env:"SSO_EXCHANGE_TIMEOUT" envDefault:"15s"`
}

var _ SSOConfig = SSO{}

func (s SSO) GetAuthBaseURL() string {
	return s.AuthBaseURL
}

// GetRedirectURI is empty unless set; the client then derives it from the origin
func (s SSO) GetRedirectURI() string {
	return s.RedirectURI
}

func (s SSO) GetOrigin() string {
	return s.Origin
}

func (s SSO) GetUsePKCE() bool {
	return s.UsePKCE
}

func (s SSO) GetJWKSURL() string {
	return s.JWKSURL
}

// GetIssuer defaults to the auth base URL
func (s SSO) GetIssuer() string {
	if s.Issuer == "" {
		return s.AuthBaseURL
	}
	return s.Issuer
}

func (s SSO) GetAudience() string {
	return s.Audience
}

func (s SSO) GetExchangeTimeout() time.Duration {
	if s.ExchangeTimeout <= 0 {
		return 15 * time.Second
	}
	return s.ExchangeTimeout
}

// ClientConfig maps the environment onto ssoclient.Config
func (s SSO) ClientConfig() ssoclient.Config {
	return ssoclient.Config{
		AuthBaseURL: s.AuthBaseURL,
		RedirectURI: s.RedirectURI,
		Origin:      s.Origin,
		UsePKCE:     utils.Ptr(s.UsePKCE),
	}
}
