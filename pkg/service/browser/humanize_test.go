package browser_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/preen/pkg/service/browser"
)

func TestJitterBetween(t *testing.T) {
	t.Run("stays within bounds", func(t *testing.T) {
		min := 50 * time.Millisecond
		max := 150 * time.Millisecond
		for i := 0; i < 200; i++ {
			d := browser.JitterBetween(min, max)
			gt.B(t, d >= min).True()
			gt.B(t, d <= max).True()
		}
	})

	t.Run("degenerate range returns min", func(t *testing.T) {
		gt.Equal(t, browser.JitterBetween(time.Second, time.Second), time.Second)
		gt.Equal(t, browser.JitterBetween(time.Second, time.Millisecond), time.Second)
	})
}

func TestPacerWait(t *testing.T) {
	t.Run("cancelled context cuts the wait short", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := browser.NewPacerForTest(100 * time.Millisecond)
		start := time.Now()
		p.Wait(ctx, 10*time.Second)
		gt.B(t, time.Since(start) < time.Second).True()
	})

	t.Run("zero duration returns immediately", func(t *testing.T) {
		p := browser.NewPacerForTest(0)
		start := time.Now()
		p.Wait(context.Background(), 0)
		gt.B(t, time.Since(start) < 100*time.Millisecond).True()
	})

	t.Run("settle pauses between one and three seconds", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping wall clock pacing test")
		}
		p := browser.NewPacerForTest(0)
		start := time.Now()
		p.Settle(context.Background())
		elapsed := time.Since(start)
		gt.B(t, elapsed >= time.Second).True()
		gt.B(t, elapsed <= 4*time.Second).True()
	})
}

func TestConfig(t *testing.T) {
	t.Run("defaults match production profile", func(t *testing.T) {
		cfg := browser.DefaultConfig()
		gt.B(t, cfg.Headless).True()
		gt.B(t, cfg.NoSandbox).True()
		gt.Equal(t, cfg.ViewportWidth, 1920)
		gt.Equal(t, cfg.ViewportHeight, 1080)
		gt.Equal(t, cfg.NavigationTimeout, 60*time.Second)
		gt.Equal(t, cfg.SlowMo, 100*time.Millisecond)
		gt.S(t, cfg.UserAgent).Contains("Chrome/120")
		gt.Equal(t, cfg.TimezoneID, "Asia/Kolkata")
	})

	t.Run("new fills zero fields without touching switches", func(t *testing.T) {
		d := browser.New(browser.Config{ControlURL: "ws://127.0.0.1:9222/devtools"})
		cfg := d.ConfigForTest()
		gt.B(t, cfg.Headless).False()
		gt.Equal(t, cfg.ControlURL, "ws://127.0.0.1:9222/devtools")
		gt.Equal(t, cfg.ViewportWidth, 1920)
		gt.Equal(t, cfg.NavigationTimeout, 60*time.Second)
		gt.S(t, cfg.UserAgent).Contains("Mozilla/5.0")
	})
}
