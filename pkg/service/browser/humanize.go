package browser

import (
	"context"
	"math/rand/v2"
	"time"
)

const (
	settleMin = 1 * time.Second
	settleMax = 3 * time.Second

	keystrokeMin = 50 * time.Millisecond
	keystrokeMax = 150 * time.Millisecond

	focusDelay = 500 * time.Millisecond
	restDelay  = 300 * time.Millisecond
)

// pacer injects human-scale pauses between page interactions. Every wait is
// cut short when the context is cancelled.
type pacer struct {
	slowMoDelay time.Duration
}

func newPacer(slowMo time.Duration) *pacer {
	return &pacer{slowMoDelay: slowMo}
}

// settle pauses for one to three seconds, used after navigations and other
// page-level transitions.
func (p *pacer) settle(ctx context.Context) {
	p.wait(ctx, jitterBetween(settleMin, settleMax))
}

// slowMo applies the fixed post-interaction delay.
func (p *pacer) slowMo(ctx context.Context) {
	p.wait(ctx, p.slowMoDelay)
}

// focus pauses after clicking into a field, before typing starts.
func (p *pacer) focus(ctx context.Context) {
	p.wait(ctx, focusDelay)
}

// keystroke pauses between individual characters.
func (p *pacer) keystroke(ctx context.Context) {
	p.wait(ctx, jitterBetween(keystrokeMin, keystrokeMax))
}

// rest pauses after a typed value is complete.
func (p *pacer) rest(ctx context.Context) {
	p.wait(ctx, restDelay)
}

func (p *pacer) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// jitterBetween returns a random duration in [min, max].
func jitterBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + rand.N(max-min+1)
}
