// Package browser drives Chrome through go-rod and hands out isolated
// page sessions with human-scale interaction pacing.
package browser

import (
	"context"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
)

// Config controls how Chrome is launched and how pages behave
type Config struct {
	// ControlURL attaches to an already running Chrome instead of launching
	// one. Launch flags are ignored when set.
	ControlURL string

	Headless  bool
	NoSandbox bool

	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	TimezoneID     string

	NavigationTimeout time.Duration
	// SlowMo is the pause applied after each click
	SlowMo        time.Duration
	ScreenshotDir string
}

// DefaultConfig returns the settings used against production sites
func DefaultConfig() Config {
	return Config{
		Headless:          true,
		NoSandbox:         true,
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		ViewportWidth:     1920,
		ViewportHeight:    1080,
		Locale:            "en-US",
		TimezoneID:        "Asia/Kolkata",
		NavigationTimeout: 60 * time.Second,
		SlowMo:            100 * time.Millisecond,
		ScreenshotDir:     "/tmp",
	}
}

// Driver owns one Chrome instance and creates isolated incognito sessions
// from it. The instance is launched lazily on the first session and reused
// until Close.
type Driver struct {
	cfg Config

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

var _ interfaces.Browser = (*Driver)(nil)

// New creates a Driver. Zero config fields fall back to DefaultConfig values
// except the boolean switches, which are taken as given.
func New(cfg Config) *Driver {
	def := DefaultConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.ViewportWidth == 0 {
		cfg.ViewportWidth = def.ViewportWidth
	}
	if cfg.ViewportHeight == 0 {
		cfg.ViewportHeight = def.ViewportHeight
	}
	if cfg.NavigationTimeout == 0 {
		cfg.NavigationTimeout = def.NavigationTimeout
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = def.ScreenshotDir
	}
	return &Driver{cfg: cfg}
}

// NewSession opens a fresh incognito page. Viewport, user agent and locale
// overrides are applied before the caller navigates anywhere.
func (d *Driver) NewSession(ctx context.Context) (interfaces.BrowserSession, error) {
	browser, err := d.ensureBrowser(ctx)
	if err != nil {
		return nil, err
	}

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create incognito context")
	}

	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open page")
	}

	logger := ctxlog.From(ctx)

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             d.cfg.ViewportWidth,
		Height:            d.cfg.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		logger.Warn("Failed to set viewport", "error", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      d.cfg.UserAgent,
		AcceptLanguage: d.cfg.Locale,
	}); err != nil {
		logger.Warn("Failed to override user agent", "error", err)
	}

	if d.cfg.TimezoneID != "" {
		if err := (proto.EmulationSetTimezoneOverride{
			TimezoneID: d.cfg.TimezoneID,
		}).Call(page); err != nil {
			logger.Warn("Failed to override timezone", "error", err)
		}
	}
	if d.cfg.Locale != "" {
		if err := (proto.EmulationSetLocaleOverride{
			Locale: d.cfg.Locale,
		}).Call(page); err != nil {
			logger.Warn("Failed to override locale", "error", err)
		}
	}

	return &Session{
		page: page,
		cfg:  d.cfg,
		pace: newPacer(d.cfg.SlowMo),
	}, nil
}

func (d *Driver) ensureBrowser(ctx context.Context) (*rod.Browser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browser != nil {
		return d.browser, nil
	}

	controlURL := d.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(d.cfg.Headless)
		if d.cfg.NoSandbox {
			l = l.NoSandbox(true)
		}
		l = l.Set("disable-setuid-sandbox").
			Set("disable-dev-shm-usage").
			Set("disable-gpu")

		url, err := l.Launch()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to launch chrome")
		}
		d.launcher = l
		controlURL = url
		ctxlog.From(ctx).Debug("Launched chrome", "controlURL", controlURL)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		if d.launcher != nil {
			d.launcher.Cleanup()
			d.launcher = nil
		}
		return nil, goerr.Wrap(err, "failed to connect to chrome",
			goerr.V("controlURL", controlURL))
	}

	d.browser = browser
	return browser, nil
}

// Close shuts the Chrome instance down. Only instances launched by this
// Driver are cleaned up; attached ones are left running.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.browser != nil {
		err = d.browser.Close()
		d.browser = nil
	}
	if d.launcher != nil {
		d.launcher.Cleanup()
		d.launcher = nil
	}
	return err
}
