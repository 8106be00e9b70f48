package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch executes a handler asynchronously with panic recovery. The HTTP
// trigger uses it so the endpoint can answer immediately while a refresh run
// continues in the background. The handler gets a fresh background context
// that keeps the caller's logger but not its cancellation, so an aborted
// request does not kill a run in flight.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := detachContext(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(newCtx).Error("Panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("Error in async handler",
				"error", err,
			)
		}
	}()
}

// detachContext creates a background context preserving the logger
func detachContext(ctx context.Context) context.Context {
	newCtx := context.Background()

	if logger := ctxlog.From(ctx); logger != nil {
		newCtx = ctxlog.With(newCtx, logger)
	}

	return newCtx
}
