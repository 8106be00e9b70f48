package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
)

// Handle logs an error at a service boundary. Use it where an error ends its
// journey instead of being returned further up.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	ctxlog.From(ctx).Error("application error", "error", err)
}
