package flowstore

import (
	"errors"
	"net/http"
	"time"
)

// DefaultCookieMaxAge bounds how long an abandoned flow keeps its secrets in the browser.
const DefaultCookieMaxAge = 10 * time.Minute

var _ Repo = (*CookieRepo)(nil)

// CookieRepo stores flow values as cookies on the user agent that drives the
// current request. Cookies are shared by every tab of the browser, so two
// concurrent logins overwrite each other's slots.
type CookieRepo struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
	maxAge time.Duration

	// pending holds writes made while serving r; nil marks a deletion.
	pending map[string]*string
}

// CookieOption customises a CookieRepo
type CookieOption func(*CookieRepo)

// WithMaxAge overrides DefaultCookieMaxAge
func WithMaxAge(d time.Duration) CookieOption {
	return func(c *CookieRepo) {
		c.maxAge = d
	}
}

// WithSecure forces the Secure attribute regardless of the request scheme
func WithSecure(secure bool) CookieOption {
	return func(c *CookieRepo) {
		c.secure = secure
	}
}

// NewCookieRepo binds a repo to one request/response pair
func NewCookieRepo(w http.ResponseWriter, r *http.Request, opts ...CookieOption) *CookieRepo {
	c := &CookieRepo{
		w:       w,
		r:       r,
		secure:  isHTTPS(r),
		maxAge:  DefaultCookieMaxAge,
		pending: make(map[string]*string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value written earlier in this request, or else the cookie sent by the browser
func (c *CookieRepo) Get(key string) (string, error) {
	if key == "" {
		return "", errors.New("key cannot be empty")
	}
	if value, ok := c.pending[key]; ok {
		if value == nil || *value == "" {
			return "", ErrNotFound
		}
		return *value, nil
	}

	cookie, err := c.r.Cookie(key)
	if err != nil || cookie.Value == "" {
		return "", ErrNotFound
	}
	return cookie.Value, nil
}

// Set writes the slot as an HttpOnly cookie
func (c *CookieRepo) Set(key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	cookie := c.cookie(key, value, int(c.maxAge.Seconds()))
	if err := cookie.Valid(); err != nil {
		return err
	}

	http.SetCookie(c.w, cookie)
	c.pending[key] = &value
	return nil
}

// Delete expires the slot's cookie
func (c *CookieRepo) Delete(key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	http.SetCookie(c.w, c.cookie(key, "", -1))
	c.pending[key] = nil
	return nil
}

func (c *CookieRepo) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		// Lax so the cookie survives the top-level redirect back from the authorization server.
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
