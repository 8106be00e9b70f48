package browser

import (
	"context"
	"time"
)

// Test-only accessors for pacing internals
var JitterBetween = jitterBetween

func NewPacerForTest(slowMo time.Duration) *pacer {
	return newPacer(slowMo)
}

func (p *pacer) Wait(ctx context.Context, d time.Duration) {
	p.wait(ctx, d)
}

func (p *pacer) Settle(ctx context.Context) {
	p.settle(ctx)
}

func (d *Driver) ConfigForTest() Config {
	return d.cfg
}
