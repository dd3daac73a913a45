package playback

import (
	"fmt"

	"github.com/darkplay/darkplay/internal/engine"
	"github.com/darkplay/darkplay/internal/errmsg"
	"github.com/darkplay/darkplay/internal/log"
)

// The engine access guard. Every read or write of the bound engine
// goes through the helpers in this file while holding c.mu. Go has no
// recursive mutex, so re-entrant call paths follow the *Locked
// convention instead: exported methods acquire the lock once and call
// only *Locked helpers underneath.
//
// Re-entrant call paths through the guard:
//   - Seek          → position query + duration query + SetPosition
//   - SetEngine     → Stop on the old engine + volume re-apply on the new
//   - event handler → media info query (title on media-loaded)
//   - auto-advance  → Load + Play from the state-changed handler
//
// Nothing an engine does inside a guarded call may escape the guard: a
// panicking engine is logged as a warning, queries yield their safe
// default and commands fail with ErrEngineFailure.

// SetEngine replaces the engine binding. The previous engine, if any,
// receives exactly one Stop and its event subscription is detached
// before the new engine is attached. The cached volume, mute flag and
// rate are re-applied so the audio level survives a backend swap.
// A nil engine detaches without binding a replacement.
func (c *Controller) SetEngine(e engine.Engine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if c.eng != nil {
		close(c.detach)
		old := c.eng
		c.eng = nil
		c.detach = nil
		_ = callEngine(errmsg.OpEngineSwap, old, func(e engine.Engine) error {
			return e.Stop()
		})
	}
	c.stopPollerLocked()
	c.userStopped = false
	c.current = ""
	c.lastErr = ""
	// Reset directly rather than through applyStateLocked: a detach
	// must never look like a finished track to the auto-advance logic.
	if prev := c.state; prev != engine.StateStopped {
		c.state = engine.StateStopped
		c.publishState(StateChange{Previous: prev, Current: engine.StateStopped})
	}

	if e == nil {
		return
	}
	c.eng = e
	c.detach = make(chan struct{})

	_ = c.withEngineLocked(errmsg.OpEngineSwap, func(e engine.Engine) error {
		return e.SetVolume(float64(c.volume) / 100)
	})
	_ = c.withEngineLocked(errmsg.OpEngineSwap, func(e engine.Engine) error {
		return e.SetMuted(c.muted)
	})
	_ = c.withEngineLocked(errmsg.OpEngineSwap, func(e engine.Engine) error {
		return e.SetRate(c.rate)
	})

	go c.drainEvents(e, c.detach)

	st := engineQueryLocked(c, errmsg.OpEngineSwap, engine.StateStopped, func(e engine.Engine) engine.State {
		return e.State()
	})
	c.applyStateLocked(st)
	log.WithField("state", st.String()).Debug("engine attached")
}

// Engine reports whether an engine is currently bound. The binding
// itself is never exposed; callers interact with it only through the
// controller's guarded methods.
func (c *Controller) Engine() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eng != nil
}

// withEngineLocked runs a command against the bound engine. Engine
// errors are reported through the error event channel and returned;
// with no engine bound it returns ErrNoEngine without an event (the
// caller decides whether that is user-visible).
func (c *Controller) withEngineLocked(op errmsg.Op, fn func(engine.Engine) error) error {
	if c.eng == nil {
		return ErrNoEngine
	}
	err := callEngine(op, c.eng, fn)
	if err != nil {
		c.reportErrorLocked(op, c.current, err)
	}
	return err
}

// callEngine invokes fn on the given engine, recovering panics at the
// guard boundary. A panic is logged as a non-fatal warning and
// converted to ErrEngineFailure; it never propagates past the
// orchestration core, but the caller must see the call as failed.
func callEngine(op errmsg.Op, e engine.Engine, fn func(engine.Engine) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("engine call panicked during %s: %v", op, r)
			err = fmt.Errorf("%w: %v", ErrEngineFailure, r)
		}
	}()
	if ferr := fn(e); ferr != nil {
		log.Warnf("%s", errmsg.Format(op, ferr))
		return ferr
	}
	return nil
}

// engineQuery reads a value from the bound engine under the lock.
func engineQuery[T any](c *Controller, op errmsg.Op, def T, fn func(engine.Engine) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return engineQueryLocked(c, op, def, fn)
}

// engineQueryLocked reads a value from the bound engine. With no
// engine bound, or when the engine panics, it returns def; this keeps
// the embedding layer free of nil checks.
func engineQueryLocked[T any](c *Controller, op errmsg.Op, def T, fn func(engine.Engine) T) (v T) {
	if c.eng == nil {
		return def
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("engine query panicked during %s: %v", op, r)
			v = def
		}
	}()
	return fn(c.eng)
}
