package playback

import (
	"github.com/samber/lo"

	"github.com/darkplay/darkplay/internal/engine"
	"github.com/darkplay/darkplay/internal/errmsg"
)

// Volume is canonical percent [0, 100] everywhere inside the core;
// conversion to the engine's normalized [0.0, 1.0] level happens only
// at the engine boundary in this file. Playback rate is clamped to
// [MinRate, MaxRate]; out-of-range inputs are never an error.
const (
	MinRate  = 0.25
	MaxRate  = 4.0
	RateStep = 0.25
)

func clampVolume(v int) int {
	return lo.Clamp(v, 0, 100)
}

func clampRate(r float64) float64 {
	return lo.Clamp(r, MinRate, MaxRate)
}

// SetVolume sets the volume percent, silently clamped to [0, 100].
// Strictly positive levels are remembered for unmute restoration.
func (c *Controller) SetVolume(volume int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setVolumeLocked(volume)
}

func (c *Controller) setVolumeLocked(volume int) {
	volume = clampVolume(volume)
	c.volume = volume
	if volume > 0 {
		c.preMute = volume
	}
	if c.eng != nil {
		_ = c.withEngineLocked(errmsg.OpVolume, func(e engine.Engine) error {
			return e.SetVolume(float64(volume) / 100)
		})
	}
	c.publishVolume(VolumeChange{Volume: c.volume, Muted: c.muted})
}

// Volume returns the current volume percent.
func (c *Controller) Volume() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// IncreaseVolume raises the volume by step percent; step <= 0 uses
// the configured default.
func (c *Controller) IncreaseVolume(step int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if step <= 0 {
		step = c.volumeStep
	}
	c.setVolumeLocked(c.volume + step)
}

// DecreaseVolume lowers the volume by step percent; step <= 0 uses
// the configured default.
func (c *Controller) DecreaseVolume(step int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if step <= 0 {
		step = c.volumeStep
	}
	c.setVolumeLocked(c.volume - step)
}

// IsMuted returns the mute flag.
func (c *Controller) IsMuted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// SetMuted sets the mute flag, remembering the current volume on mute
// so ToggleMute can restore it.
func (c *Controller) SetMuted(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setMutedLocked(muted)
}

func (c *Controller) setMutedLocked(muted bool) {
	if muted == c.muted {
		return
	}
	if muted && c.volume > 0 {
		c.preMute = c.volume
	}
	c.muted = muted
	if c.eng != nil {
		_ = c.withEngineLocked(errmsg.OpVolume, func(e engine.Engine) error {
			return e.SetMuted(muted)
		})
	}
	if !muted {
		// Some engines zero their level while muted; restore the
		// remembered pre-mute volume in that case.
		live := engineQueryLocked(c, errmsg.OpVolume, float64(c.volume)/100, func(e engine.Engine) float64 {
			return e.Volume()
		})
		if live == 0 && c.preMute > 0 {
			c.setVolumeLocked(c.preMute)
			return
		}
	}
	c.publishVolume(VolumeChange{Volume: c.volume, Muted: c.muted})
}

// ToggleMute flips the mute flag.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setMutedLocked(!c.muted)
}

// Rate returns the current playback rate.
func (c *Controller) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// SetRate sets the playback rate, silently clamped to [MinRate, MaxRate].
func (c *Controller) SetRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setRateLocked(rate)
}

func (c *Controller) setRateLocked(rate float64) {
	rate = clampRate(rate)
	c.rate = rate
	if c.eng != nil {
		_ = c.withEngineLocked(errmsg.OpRate, func(e engine.Engine) error {
			return e.SetRate(rate)
		})
	}
	c.publishRate(RateChange{Rate: rate})
}

// IncreaseSpeed raises the playback rate by one step.
func (c *Controller) IncreaseSpeed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setRateLocked(c.rate + RateStep)
}

// DecreaseSpeed lowers the playback rate by one step.
func (c *Controller) DecreaseSpeed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setRateLocked(c.rate - RateStep)
}

// ResetSpeed returns the playback rate to normal.
func (c *Controller) ResetSpeed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setRateLocked(1.0)
}
