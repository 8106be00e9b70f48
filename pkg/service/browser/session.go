package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
)

// Session drives one incognito page. Navigation and element lookups take
// their deadlines from the caller's context plus the per-operation timeouts.
type Session struct {
	page *rod.Page
	cfg  Config
	pace *pacer
}

var _ interfaces.BrowserSession = (*Session)(nil)

// Navigate loads the URL, waits for the load event and pauses briefly so
// the page settles before the next interaction.
func (s *Session) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx).Timeout(s.cfg.NavigationTimeout)
	if err := page.Navigate(url); err != nil {
		return goerr.Wrap(err, "navigation failed", goerr.V("url", url))
	}
	if err := page.WaitLoad(); err != nil {
		return goerr.Wrap(err, "page did not finish loading", goerr.V("url", url))
	}
	s.pace.settle(ctx)
	return nil
}

// Find looks the selector up without waiting for it to appear.
func (s *Session) Find(ctx context.Context, selector string) (interfaces.Element, error) {
	el, err := s.page.Context(ctx).Sleeper(rod.NotFoundSleeper).Element(selector)
	if err != nil {
		return nil, goerr.Wrap(err, "element not found", goerr.V("selector", selector))
	}
	return &element{el: el, pace: s.pace}, nil
}

// WaitVisible waits up to timeout for the selector to be attached and
// visible. The selector may contain comma separated alternatives, in which
// case the first one to appear wins.
func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (interfaces.Element, error) {
	page := s.page.Context(ctx).Timeout(timeout)
	el, err := page.Element(selector)
	if err != nil {
		return nil, goerr.Wrap(err, "element did not appear",
			goerr.V("selector", selector), goerr.V("timeout", timeout))
	}
	if err := el.WaitVisible(); err != nil {
		return nil, goerr.Wrap(err, "element did not become visible",
			goerr.V("selector", selector), goerr.V("timeout", timeout))
	}
	return &element{el: el.CancelTimeout(), pace: s.pace}, nil
}

// Screenshot captures the full page into the configured directory. The name
// is suffixed with a millisecond timestamp so repeated captures never clash.
func (s *Session) Screenshot(ctx context.Context, name string) error {
	bin, err := s.page.Context(ctx).Screenshot(true, nil)
	if err != nil {
		return goerr.Wrap(err, "screenshot capture failed", goerr.V("name", name))
	}

	if err := os.MkdirAll(s.cfg.ScreenshotDir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create screenshot directory",
			goerr.V("dir", s.cfg.ScreenshotDir))
	}

	path := filepath.Join(s.cfg.ScreenshotDir,
		fmt.Sprintf("%s-%d.png", name, time.Now().UnixMilli()))
	if err := os.WriteFile(path, bin, 0o600); err != nil {
		return goerr.Wrap(err, "failed to write screenshot", goerr.V("path", path))
	}

	ctxlog.From(ctx).Debug("Screenshot saved", "path", path)
	return nil
}

// Close closes the page. The browser instance stays up for later sessions.
func (s *Session) Close() error {
	if err := s.page.Close(); err != nil {
		return goerr.Wrap(err, "failed to close page")
	}
	return nil
}
