package navigator

import (
	"context"
	"errors"
	"net/http"
)

var _ Navigator = (*RedirectNavigator)(nil)

// RedirectNavigator answers the in-flight HTTP request with a redirect.
type RedirectNavigator struct {
	w      http.ResponseWriter
	r      *http.Request
	status int
	done   bool
}

// NewRedirectNavigator binds a navigator to one request/response pair
func NewRedirectNavigator(w http.ResponseWriter, r *http.Request) *RedirectNavigator {
	return &RedirectNavigator{w: w, r: r, status: http.StatusFound}
}

// Navigate writes the redirect. HTMX requests get an HX-Redirect header instead
// so the client performs a full page load.
func (n *RedirectNavigator) Navigate(_ context.Context, url string) error {
	if n.done {
		return errors.New("response already redirected")
	}
	n.done = true

	if isHTMXRequest(n.r) {
		n.w.Header().Set("HX-Redirect", url)
		n.w.WriteHeader(http.StatusNoContent)
		return nil
	}
	http.Redirect(n.w, n.r, url, n.status)
	return nil
}

// Redirected reports whether Navigate has written the response
func (n *RedirectNavigator) Redirected() bool {
	return n.done
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
