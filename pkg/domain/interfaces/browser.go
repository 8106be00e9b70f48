package interfaces

import (
	"context"
	"time"
)

// Browser creates isolated browser sessions. Every workflow attempt gets a
// fresh session so no login state leaks between attempts or sites.
type Browser interface {
	NewSession(ctx context.Context) (BrowserSession, error)
}

// BrowserSession drives one browser page. Implementations apply their own
// interaction pacing and timeouts; callers only express intent.
type BrowserSession interface {
	// Navigate loads the URL and waits for the page to settle
	Navigate(ctx context.Context, url string) error

	// Find returns the element matching the selector without waiting.
	// A missing element is an error.
	Find(ctx context.Context, selector string) (Element, error)

	// WaitVisible waits up to the given timeout for the selector to match a
	// visible element
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) (Element, error)

	// Screenshot captures the current page for diagnostics. The name is a
	// hint; implementations add timestamps and location.
	Screenshot(ctx context.Context, name string) error

	// Close tears the session down. Safe to call on every exit path.
	Close() error
}

// Element is a handle to one resolved page element
type Element interface {
	// Click clicks the element
	Click(ctx context.Context) error

	// Value reads the element's current input value
	Value(ctx context.Context) (string, error)

	// Text reads the element's visible text content
	Text(ctx context.Context) (string, error)

	// Fill clears the element and writes the text in one operation
	Fill(ctx context.Context, text string) error

	// Type enters text using humanized per-character input
	Type(ctx context.Context, text string) error

	// Visible reports whether the element is currently visible
	Visible(ctx context.Context) (bool, error)
}
