package navigator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/skratchdot/open-golang/open"
)

var _ Navigator = BrowserNavigator{}

// BrowserNavigator opens URLs in the user's default desktop browser.
type BrowserNavigator struct {
	// Open defaults to open.Run
	Open func(input string) error
}

// Navigate launches the browser at url
func (b BrowserNavigator) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	run := b.Open
	if run == nil {
		run = open.Run
	}

	log.Debug().Msg("Opening authorization page in browser")
	if err := run(url); err != nil {
		return fmt.Errorf("[BrowserNavigator Navigate] failed to open browser: %w", err)
	}
	return nil
}
