package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/service/browser"
	"github.com/urfave/cli/v3"
)

// Browser holds browser driver configuration
type Browser struct {
	ControlURL    string
	Headless      bool
	NoSandbox     bool
	UserAgent     string
	NavTimeout    time.Duration
	SlowMo        time.Duration
	ScreenshotDir string
}

// Flags returns CLI flags for Browser configuration
func (b *Browser) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "browser-control-url",
			Usage:       "DevTools URL of an already running browser (launches its own when empty)",
			Category:    "Browser",
			Sources:     cli.EnvVars("PREEN_BROWSER_CONTROL_URL"),
			Destination: &b.ControlURL,
		},
		&cli.BoolFlag{
			Name:        "headless",
			Usage:       "Run the browser without a visible window",
			Category:    "Browser",
			Value:       true,
			Sources:     cli.EnvVars("PREEN_HEADLESS"),
			Destination: &b.Headless,
		},
		&cli.BoolFlag{
			Name:        "no-sandbox",
			Usage:       "Disable the Chromium sandbox (required in most containers)",
			Category:    "Browser",
			Value:       true,
			Sources:     cli.EnvVars("PREEN_NO_SANDBOX"),
			Destination: &b.NoSandbox,
		},
		&cli.StringFlag{
			Name:        "user-agent",
			Usage:       "User agent override for browser sessions",
			Category:    "Browser",
			Sources:     cli.EnvVars("PREEN_USER_AGENT"),
			Destination: &b.UserAgent,
		},
		&cli.DurationFlag{
			Name:        "nav-timeout",
			Usage:       "Per-navigation timeout",
			Category:    "Browser",
			Value:       60 * time.Second,
			Sources:     cli.EnvVars("PREEN_NAV_TIMEOUT"),
			Destination: &b.NavTimeout,
		},
		&cli.DurationFlag{
			Name:        "slow-mo",
			Usage:       "Extra pause after each click and fill",
			Category:    "Browser",
			Value:       100 * time.Millisecond,
			Sources:     cli.EnvVars("PREEN_SLOW_MO"),
			Destination: &b.SlowMo,
		},
		&cli.StringFlag{
			Name:        "screenshot-dir",
			Usage:       "Directory for diagnostic screenshots",
			Category:    "Browser",
			Value:       "/tmp",
			Sources:     cli.EnvVars("PREEN_SCREENSHOT_DIR"),
			Destination: &b.ScreenshotDir,
		},
	}
}

// Configure creates a browser driver. The driver launches lazily; this never
// starts a browser process by itself.
func (b *Browser) Configure() (*browser.Driver, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	return browser.New(browser.Config{
		ControlURL:        b.ControlURL,
		Headless:          b.Headless,
		NoSandbox:         b.NoSandbox,
		UserAgent:         b.UserAgent,
		NavigationTimeout: b.NavTimeout,
		SlowMo:            b.SlowMo,
		ScreenshotDir:     b.ScreenshotDir,
	}), nil
}

// Validate validates the browser configuration
func (b *Browser) Validate() error {
	if b.NavTimeout < 0 {
		return goerr.New("navigation timeout must not be negative",
			goerr.V("navTimeout", b.NavTimeout))
	}
	if b.SlowMo < 0 {
		return goerr.New("slow-mo must not be negative",
			goerr.V("slowMo", b.SlowMo))
	}
	return nil
}

// LogValue returns structured log value
func (b Browser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("headless", b.Headless),
		slog.Bool("no_sandbox", b.NoSandbox),
		slog.String("control_url", b.ControlURL),
		slog.Duration("nav_timeout", b.NavTimeout),
		slog.Duration("slow_mo", b.SlowMo),
		slog.String("screenshot_dir", b.ScreenshotDir),
	)
}
