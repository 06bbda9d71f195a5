// Package navigator moves the user agent to a new URL. How that happens
// depends on the host: a web handler answers with a redirect, a CLI opens the
// desktop browser.
package navigator

import "context"

// Navigator sends the user agent to url. Implementations must not return
// until the navigation has been handed off.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(ctx context.Context, url string) error

// Navigate calls f(ctx, url)
func (f NavigatorFunc) Navigate(ctx context.Context, url string) error {
	return f(ctx, url)
}
