package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/preen/pkg/domain/interfaces"
	"github.com/secmon-lab/preen/pkg/domain/model"
)

// ResolveFirst walks selector candidates in order and returns a handle to the
// first one that resolves, together with the selector that matched. With
// wait <= 0 each candidate is probed once without waiting; with a positive
// wait each candidate gets up to that long to become visible before the next
// one is tried. Candidates after the first match are never queried.
func ResolveFirst(ctx context.Context, session interfaces.BrowserSession, selectors []string, wait time.Duration) (interfaces.Element, string, error) {
	if len(selectors) == 0 {
		return nil, "", goerr.Wrap(model.ErrElementNotFound, "no selector candidates configured")
	}

	for _, selector := range selectors {
		if err := ctx.Err(); err != nil {
			return nil, "", goerr.Wrap(err, "element resolution aborted",
				goerr.V("selector", selector))
		}

		var (
			el  interfaces.Element
			err error
		)
		if wait > 0 {
			el, err = session.WaitVisible(ctx, selector, wait)
		} else {
			el, err = session.Find(ctx, selector)
		}
		if err == nil {
			return el, selector, nil
		}

		ctxlog.From(ctx).Debug("Selector candidate did not resolve",
			"selector", selector,
			"error", err)
	}

	return nil, "", goerr.Wrap(model.ErrElementNotFound, "all selector candidates exhausted",
		goerr.V("selectors", selectors))
}

// resolveClickable probes candidates without waiting and skips matches that
// exist but are not visible. Profile pages keep hidden duplicates of edit and
// save controls in responsive layouts; only the visible one is clickable.
func resolveClickable(ctx context.Context, session interfaces.BrowserSession, selectors []string) (interfaces.Element, string, error) {
	for _, selector := range selectors {
		if err := ctx.Err(); err != nil {
			return nil, "", goerr.Wrap(err, "element resolution aborted",
				goerr.V("selector", selector))
		}

		el, err := session.Find(ctx, selector)
		if err != nil {
			continue
		}
		visible, err := el.Visible(ctx)
		if err != nil || !visible {
			continue
		}
		return el, selector, nil
	}

	return nil, "", goerr.Wrap(model.ErrElementNotFound, "no visible candidate",
		goerr.V("selectors", selectors))
}
