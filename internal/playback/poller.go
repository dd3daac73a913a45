package playback

import (
	"context"
	"time"

	"github.com/darkplay/darkplay/internal/engine"
	"github.com/darkplay/darkplay/internal/errmsg"
)

// pollInterval is the position republish period while playing. The
// engine may not push continuous position updates, so the core samples.
const pollInterval = 100 * time.Millisecond

// startPollerLocked starts the position poller if it is not running.
func (c *Controller) startPollerLocked() {
	if c.pollCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.pollCancel = cancel
	go c.pollPosition(ctx)
}

// stopPollerLocked halts the poller deterministically. Idempotent.
func (c *Controller) stopPollerLocked() {
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
}

// pollPosition samples the engine position every tick while the
// transport is Playing and republishes it as a position event. Ticks
// in any other state do nothing. The engine may be detached mid-tick;
// the guard's safe default makes that a harmless zero sample, which
// the state check above filters out anyway.
func (c *Controller) pollPosition(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.closed || c.state != engine.StatePlaying {
				c.mu.Unlock()
				continue
			}
			pos := engineQueryLocked(c, errmsg.OpSeek, time.Duration(0), func(e engine.Engine) time.Duration {
				return e.Position()
			})
			c.publishPosition(PositionChange{Position: pos})
			c.mu.Unlock()
		}
	}
}
