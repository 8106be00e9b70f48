package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// SleepFunc waits for the given duration or until the context is done. Tests
// inject a recording implementation to observe backoff without real waiting.
type SleepFunc func(ctx context.Context, d time.Duration) error

// sleepContext is the default SleepFunc backed by a real timer
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WithRetry runs fn up to maxRetries+1 times. Attempts are numbered from 1.
// After a failed attempt k it waits 2^k seconds before the next one, so the
// delay doubles on every retry. It returns the successful value and the
// number of attempts consumed; when every attempt fails the error of the
// final attempt is returned unchanged. The label only attributes log lines.
func WithRetry[T any](ctx context.Context, maxRetries int, label string, sleep SleepFunc, fn func(ctx context.Context, attempt int) (T, error)) (T, int, error) {
	if sleep == nil {
		sleep = sleepContext
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	var zero T
	var lastErr error
	total := maxRetries + 1

	for attempt := 1; attempt <= total; attempt++ {
		value, err := fn(ctx, attempt)
		if err == nil {
			return value, attempt, nil
		}
		lastErr = err

		if attempt == total {
			break
		}

		delay := time.Duration(1<<uint(attempt)) * time.Second
		ctxlog.From(ctx).Warn("Attempt failed, retrying after backoff",
			"target", label,
			"attempt", attempt,
			"maxAttempts", total,
			"delay", delay,
			"error", err)

		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return zero, attempt, goerr.Wrap(sleepErr, "backoff interrupted",
				goerr.V("target", label),
				goerr.V("attempt", attempt))
		}
	}

	return zero, total, lastErr
}
