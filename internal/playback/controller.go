// Package playback implements the playback orchestration core: a
// thread-safe, backend-agnostic controller between a UI layer and a
// pluggable media engine. It owns the transport state machine, the
// playlist cursor, the position poller and the volume coordinator,
// and republishes engine events as a normalized stream.
package playback

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/darkplay/darkplay/internal/engine"
	"github.com/darkplay/darkplay/internal/errmsg"
	"github.com/darkplay/darkplay/internal/log"
	"github.com/darkplay/darkplay/internal/playlist"
)

// Errors reported by controller commands. These are recoverable,
// user-visible conditions: commands no-op and publish an ErrorEvent
// rather than leaving the controller in a broken state.
var (
	ErrNoEngine = errors.New("no media engine available")
	ErrNoMedia  = errors.New("no media loaded")
	ErrClosed   = errors.New("playback controller closed")

	// ErrEngineFailure wraps a panic recovered at the guard boundary.
	ErrEngineFailure = errors.New("engine call failed")
)

// Defaults applied by New when Options leaves a field zero.
const (
	DefaultVolume     = 70
	DefaultVolumeStep = 5
	DefaultSeekStep   = 10 * time.Second
)

// Options configures a Controller. The zero value gives a controller
// with no engine bound, default volume, and auto-play and repeat off.
type Options struct {
	// Engine is the initial engine binding, may be nil.
	Engine engine.Engine

	// Volume is the initial volume percent; nil means DefaultVolume.
	// A pointer so that an explicit zero survives: lo.ToPtr(0) starts
	// silent, the zero value of Options does not.
	Volume *int
	Muted  bool

	AutoPlay bool
	Repeat   bool

	// SeekStep is the relative seek distance for SeekForward and
	// SeekBackward; zero means DefaultSeekStep.
	SeekStep time.Duration
	// VolumeStep is the default step for IncreaseVolume and
	// DecreaseVolume; zero means DefaultVolumeStep.
	VolumeStep int
}

// Controller is the playback orchestration core. All methods are safe
// for concurrent use. The engine binding is guarded by a single lock
// serializing UI commands, engine event ingestion and poller ticks;
// re-entrant paths use the *Locked helper convention (the caller holds
// the lock, helpers never re-acquire it).
type Controller struct {
	mu     sync.Mutex
	eng    engine.Engine
	detach chan struct{} // closing stops the current event drain goroutine
	closed bool

	state   engine.State
	lastErr string
	current string // locator loaded into the bound engine, "" if none

	volume  int // canonical percent [0, 100]
	preMute int // restored on unmute, only meaningful while muted
	muted   bool
	rate    float64

	seekStep   time.Duration
	volumeStep int

	// set by Stop so the resulting engine-reported Stopped transition
	// does not trigger an auto-advance
	userStopped bool

	pollCancel context.CancelFunc

	list *playlist.List

	subsMu sync.RWMutex
	subs   []*Subscription
}

// New creates a controller from the given options.
func New(opts Options) *Controller {
	c := &Controller{
		state:      engine.StateStopped,
		volume:     DefaultVolume,
		rate:       1.0,
		seekStep:   DefaultSeekStep,
		volumeStep: DefaultVolumeStep,
		list:       playlist.New(),
	}
	if opts.Volume != nil {
		c.volume = clampVolume(*opts.Volume)
	}
	if c.volume > 0 {
		c.preMute = c.volume
	}
	c.muted = opts.Muted
	if opts.SeekStep > 0 {
		c.seekStep = opts.SeekStep
	}
	if opts.VolumeStep > 0 {
		c.volumeStep = opts.VolumeStep
	}
	c.list.SetAutoPlay(opts.AutoPlay)
	c.list.SetRepeat(opts.Repeat)
	if opts.Engine != nil {
		c.SetEngine(opts.Engine)
	}
	return c
}

// --- Transport commands ---

// Play starts or resumes playback of the loaded media.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playLocked()
}

func (c *Controller) playLocked() error {
	if c.closed {
		return ErrClosed
	}
	if c.eng == nil {
		c.reportErrorLocked(errmsg.OpPlay, "", ErrNoEngine)
		return ErrNoEngine
	}
	if c.current == "" {
		c.reportErrorLocked(errmsg.OpPlay, "", ErrNoMedia)
		return ErrNoMedia
	}
	if !c.state.CanPlay() {
		return nil // already playing
	}
	c.userStopped = false
	return c.withEngineLocked(errmsg.OpPlay, func(e engine.Engine) error {
		return e.Play()
	})
}

// Pause pauses playback. It is a no-op unless playing or buffering.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pauseLocked()
}

func (c *Controller) pauseLocked() error {
	if c.closed {
		return ErrClosed
	}
	if c.eng == nil {
		c.reportErrorLocked(errmsg.OpPause, "", ErrNoEngine)
		return ErrNoEngine
	}
	if !c.state.CanPause() {
		return nil
	}
	return c.withEngineLocked(errmsg.OpPause, func(e engine.Engine) error {
		return e.Pause()
	})
}

// Stop halts playback from any state and deterministically stops the
// position poller. The resulting engine-reported Stopped transition
// does not auto-advance the playlist.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLocked()
}

func (c *Controller) stopLocked() error {
	if c.closed {
		return ErrClosed
	}
	if c.eng == nil {
		c.reportErrorLocked(errmsg.OpStop, "", ErrNoEngine)
		return ErrNoEngine
	}
	if c.state != engine.StateStopped {
		c.userStopped = true
	}
	err := c.withEngineLocked(errmsg.OpStop, func(e engine.Engine) error {
		return e.Stop()
	})
	c.stopPollerLocked()
	return err
}

// TogglePlayPause dispatches to Play when stopped or paused, Pause
// otherwise.
func (c *Controller) TogglePlayPause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == engine.StateStopped || c.state == engine.StatePaused {
		return c.playLocked()
	}
	return c.pauseLocked()
}

// --- Seeking ---

// SeekTo seeks to an absolute position, clamped to [0, duration].
func (c *Controller) SeekTo(pos time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seekToLocked(pos)
}

// Seek seeks relative to the current position.
func (c *Controller) Seek(offset time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos := engineQueryLocked(c, errmsg.OpSeek, time.Duration(0), func(e engine.Engine) time.Duration {
		return e.Position()
	})
	return c.seekToLocked(pos + offset)
}

// SeekForward seeks forward by the configured seek step.
func (c *Controller) SeekForward() error {
	c.mu.Lock()
	step := c.seekStep
	c.mu.Unlock()
	return c.Seek(step)
}

// SeekBackward seeks backward by the configured seek step.
func (c *Controller) SeekBackward() error {
	c.mu.Lock()
	step := c.seekStep
	c.mu.Unlock()
	return c.Seek(-step)
}

func (c *Controller) seekToLocked(pos time.Duration) error {
	if c.closed {
		return ErrClosed
	}
	if c.eng == nil {
		c.reportErrorLocked(errmsg.OpSeek, "", ErrNoEngine)
		return ErrNoEngine
	}
	if c.current == "" {
		c.reportErrorLocked(errmsg.OpSeek, "", ErrNoMedia)
		return ErrNoMedia
	}
	if pos < 0 {
		pos = 0
	}
	dur := engineQueryLocked(c, errmsg.OpSeek, time.Duration(0), func(e engine.Engine) time.Duration {
		return e.Duration()
	})
	if dur > 0 && pos > dur {
		pos = dur
	}
	err := c.withEngineLocked(errmsg.OpSeek, func(e engine.Engine) error {
		return e.SetPosition(pos)
	})
	if err == nil {
		c.publishPosition(PositionChange{Position: pos})
	}
	return err
}

// --- Media loading ---

// Open loads a single locator directly, outside the playlist.
func (c *Controller) Open(locator string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.loadLocked(locator)
}

func (c *Controller) loadLocked(locator string) error {
	if c.eng == nil {
		c.reportErrorLocked(errmsg.OpLoad, locator, ErrNoEngine)
		return ErrNoEngine
	}
	if err := validateLocator(locator); err != nil {
		c.reportErrorLocked(errmsg.OpLoad, locator, err)
		return err
	}
	err := c.withEngineLocked(errmsg.OpLoad, func(e engine.Engine) error {
		return e.Load(locator)
	})
	// A load tears the engine's previous pipeline down before the new
	// media is touched, so the engine is stopped now regardless of the
	// outcome and reports it on its event stream. Mirror that state
	// here, under the same lock as the command: the report then
	// arrives as a redundant repeat and cannot look like a finished
	// track to the auto-advance logic.
	if c.state != engine.StateStopped {
		prev := c.state
		c.state = engine.StateStopped
		c.stopPollerLocked()
		c.publishState(StateChange{Previous: prev, Current: engine.StateStopped})
	}
	if err != nil {
		return err
	}
	c.current = locator
	c.lastErr = ""
	return nil
}

// validateLocator rejects obviously broken file locators before they
// reach the engine. Remote locators are passed through untouched.
func validateLocator(locator string) error {
	if locator == "" {
		return errors.New("empty media locator")
	}
	if strings.Contains(locator, "://") {
		return nil
	}
	fi, err := os.Stat(locator)
	if err != nil {
		return fmt.Errorf("media file not accessible: %w", err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", locator)
	}
	return nil
}

// --- Playlist commands ---

// SetPlaylist replaces the playlist. The cursor moves to the first
// entry; when auto-play is enabled the entry is loaded and played.
func (c *Controller) SetPlaylist(entries []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	cursor := c.list.SetEntries(entries)
	c.publishPlaylistLocked()
	if cursor < 0 || !c.list.AutoPlay() {
		return nil
	}
	entry, _ := c.list.Current()
	if err := c.loadLocked(entry); err != nil {
		return err
	}
	return c.playLocked()
}

// SetCurrentIndex jumps the cursor to index and loads that entry. It
// is a no-op unless index is valid and differs from the cursor.
// Playback continues on the new entry if it was active.
func (c *Controller) SetCurrentIndex(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	wasActive := c.state.IsActive()
	if !c.list.SetCursor(index) {
		return nil
	}
	c.publishPlaylistLocked()
	entry, _ := c.list.Current()
	if err := c.loadLocked(entry); err != nil {
		return err
	}
	if wasActive || c.list.AutoPlay() {
		return c.playLocked()
	}
	return nil
}

// Next advances to the next playlist entry, wrapping to the first
// when repeat is enabled.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.navigateLocked(c.list.Next)
}

// Previous retreats to the previous playlist entry, wrapping to the
// last when repeat is enabled.
func (c *Controller) Previous() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.navigateLocked(c.list.Previous)
}

func (c *Controller) navigateLocked(move func() (int, bool)) error {
	if c.closed {
		return ErrClosed
	}
	wasActive := c.state.IsActive()
	if _, moved := move(); !moved {
		return nil
	}
	c.publishPlaylistLocked()
	entry, _ := c.list.Current()
	if err := c.loadLocked(entry); err != nil {
		return err
	}
	if wasActive || c.list.AutoPlay() {
		return c.playLocked()
	}
	return nil
}

// autoAdvanceLocked moves to the next entry after a track finished.
// No next entry and no repeat leaves playback stopped.
func (c *Controller) autoAdvanceLocked() {
	if _, moved := c.list.Next(); !moved {
		return
	}
	c.publishPlaylistLocked()
	entry, _ := c.list.Current()
	if err := c.loadLocked(entry); err != nil {
		return
	}
	_ = c.playLocked()
}

// skipBrokenLocked advances past an entry the engine failed on. It
// never wraps, so a playlist of broken entries cannot loop forever.
func (c *Controller) skipBrokenLocked() {
	if !c.list.HasNext() {
		return
	}
	c.autoAdvanceLocked()
}

// --- Engine event ingestion ---

// drainEvents funnels one engine binding's events into the guarded
// dispatch path. It exits when the binding is detached or the engine
// closes its event channel.
func (c *Controller) drainEvents(e engine.Engine, detach <-chan struct{}) {
	events := e.Events()
	for {
		select {
		case <-detach:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.handleEngineEvent(e, ev)
		}
	}
}

func (c *Controller) handleEngineEvent(src engine.Engine, ev engine.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Late events from a detached engine, or anything arriving during
	// teardown, are dropped.
	if c.closed || src != c.eng {
		return
	}
	switch ev.Kind {
	case engine.EventStateChanged:
		c.applyStateLocked(ev.State)
	case engine.EventError:
		// Informational only: the transition into StateError arrives
		// as a separate state-changed event and drives the skip.
		c.lastErr = ev.Message
		c.publishError(ErrorEvent{Op: errmsg.OpPlay, Locator: c.current, Message: ev.Message})
	case engine.EventPositionChanged:
		c.publishPosition(PositionChange{Position: ev.Position})
	case engine.EventDurationChanged:
		c.publishDuration(DurationChange{Duration: ev.Duration})
	case engine.EventVolumeChanged:
		c.volume = clampVolume(int(ev.Volume*100 + 0.5))
		c.publishVolume(VolumeChange{Volume: c.volume, Muted: c.muted})
	case engine.EventMutedChanged:
		c.muted = ev.Muted
		c.publishVolume(VolumeChange{Volume: c.volume, Muted: c.muted})
	case engine.EventRateChanged:
		c.rate = ev.Rate
		c.publishRate(RateChange{Rate: ev.Rate})
	case engine.EventMediaLoaded:
		index := -1
		if cur, ok := c.list.Current(); ok && cur == ev.Locator {
			index = c.list.Cursor()
		}
		title := engineQueryLocked(c, errmsg.OpLoad, "", func(e engine.Engine) string {
			return e.Info().Title
		})
		c.publishMedia(MediaChange{Locator: ev.Locator, Title: title, Index: index})
	case engine.EventBuffering:
		c.publishBuffering(BufferingProgress{Progress: ev.Progress})
	}
}

// applyStateLocked mirrors an engine-reported state into the state
// machine: the poller runs exactly while Playing, a transition into
// Stopped may auto-advance the playlist, and a transition into Error
// may skip past the broken entry.
func (c *Controller) applyStateLocked(next engine.State) {
	prev := c.state
	if prev == next {
		// Also absorbs the engine's report of a transition a command
		// already mirrored, such as the teardown stop inside Load.
		return
	}
	c.state = next
	if next == engine.StatePlaying {
		c.startPollerLocked()
	} else {
		c.stopPollerLocked()
	}
	c.publishState(StateChange{Previous: prev, Current: next})
	switch next {
	case engine.StateStopped:
		if c.userStopped {
			c.userStopped = false
			return
		}
		if c.list.AutoPlay() {
			c.autoAdvanceLocked()
		}
	case engine.StateError:
		if c.list.AutoPlay() {
			c.skipBrokenLocked()
		}
	}
}

// --- Queries ---

// State returns the last engine-reported transport state.
func (c *Controller) State() engine.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsPlaying returns true if currently playing.
func (c *Controller) IsPlaying() bool {
	return c.State() == engine.StatePlaying
}

// IsPaused returns true if currently paused.
func (c *Controller) IsPaused() bool {
	return c.State() == engine.StatePaused
}

// IsStopped returns true if currently stopped.
func (c *Controller) IsStopped() bool {
	return c.State() == engine.StateStopped
}

// Position returns the current playback position, 0 with no engine.
func (c *Controller) Position() time.Duration {
	return engineQuery(c, errmsg.OpSeek, time.Duration(0), func(e engine.Engine) time.Duration {
		return e.Position()
	})
}

// Duration returns the loaded media duration, 0 with no engine.
func (c *Controller) Duration() time.Duration {
	return engineQuery(c, errmsg.OpSeek, time.Duration(0), func(e engine.Engine) time.Duration {
		return e.Duration()
	})
}

// HasMedia returns true if a locator is loaded into the engine.
func (c *Controller) HasMedia() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != ""
}

// CurrentMedia returns the loaded locator, "" if none.
func (c *Controller) CurrentMedia() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Title returns the loaded media title, "" with no engine.
func (c *Controller) Title() string {
	return engineQuery(c, errmsg.OpLoad, "", func(e engine.Engine) string {
		return e.Info().Title
	})
}

// HasVideo reports whether the loaded media has a video stream.
func (c *Controller) HasVideo() bool {
	return engineQuery(c, errmsg.OpLoad, false, func(e engine.Engine) bool {
		return e.Info().HasVideo
	})
}

// HasAudio reports whether the loaded media has an audio stream.
func (c *Controller) HasAudio() bool {
	return engineQuery(c, errmsg.OpLoad, false, func(e engine.Engine) bool {
		return e.Info().HasAudio
	})
}

// MediaInfo returns the full description of the loaded media.
func (c *Controller) MediaInfo() engine.MediaInfo {
	return engineQuery(c, errmsg.OpLoad, engine.MediaInfo{}, func(e engine.Engine) engine.MediaInfo {
		return e.Info()
	})
}

// ErrorDescription returns the last playback error message, "" if none.
func (c *Controller) ErrorDescription() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastErr != "" {
		return c.lastErr
	}
	return engineQueryLocked(c, errmsg.OpPlay, "", func(e engine.Engine) string {
		return e.ErrorDescription()
	})
}

// Playlist returns a copy of the playlist entries.
func (c *Controller) Playlist() []string {
	return c.list.Entries()
}

// CurrentIndex returns the playlist cursor (-1 if none).
func (c *Controller) CurrentIndex() int {
	return c.list.Cursor()
}

// HasNext reports whether an entry exists after the cursor.
func (c *Controller) HasNext() bool {
	return c.list.HasNext()
}

// HasPrevious reports whether an entry exists before the cursor.
func (c *Controller) HasPrevious() bool {
	return c.list.HasPrevious()
}

// AutoPlay returns the auto-play flag.
func (c *Controller) AutoPlay() bool {
	return c.list.AutoPlay()
}

// SetAutoPlay sets the auto-play flag.
func (c *Controller) SetAutoPlay(enabled bool) {
	c.list.SetAutoPlay(enabled)
}

// Repeat returns the repeat flag.
func (c *Controller) Repeat() bool {
	return c.list.Repeat()
}

// SetRepeat sets the repeat flag.
func (c *Controller) SetRepeat(enabled bool) {
	c.list.SetRepeat(enabled)
}

// --- Event subscription ---

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

func (c *Controller) publishState(e StateChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, s := range c.subs {
		s.sendState(e)
	}
}

func (c *Controller) publishPosition(e PositionChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, s := range c.subs {
		s.sendPosition(e)
	}
}

func (c *Controller) publishDuration(e DurationChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, s := range c.subs {
		s.sendDuration(e)
	}
}

func (c *Controller) publishVolume(e VolumeChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, s := range c.subs {
		s.sendVolume(e)
	}
}

func (c *Controller) publishRate(e RateChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, s := range c.subs {
		s.sendRate(e)
	}
}

func (c *Controller) publishMedia(e MediaChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, s := range c.subs {
		s.sendMedia(e)
	}
}

func (c *Controller) publishPlaylistLocked() {
	e := PlaylistChange{Entries: c.list.Entries(), Index: c.list.Cursor()}
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, s := range c.subs {
		s.sendPlaylist(e)
	}
}

func (c *Controller) publishBuffering(e BufferingProgress) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, s := range c.subs {
		s.sendBuffering(e)
	}
}

func (c *Controller) publishError(e ErrorEvent) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, s := range c.subs {
		s.sendError(e)
	}
}

func (c *Controller) reportErrorLocked(op errmsg.Op, locator string, err error) {
	log.Debugf("playback: %s", errmsg.FormatWith(op, locator, err))
	c.publishError(ErrorEvent{Op: op, Locator: locator, Message: errmsg.Format(op, err)})
}

// --- Lifecycle ---

// Close stops the poller, detaches and closes the bound engine, and
// closes all subscriptions. Safe to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.stopPollerLocked()
	var e engine.Engine
	if c.eng != nil {
		close(c.detach)
		e = c.eng
		c.eng = nil
	}
	c.mu.Unlock()

	if e != nil {
		_ = callEngine(errmsg.OpStop, e, func(e engine.Engine) error {
			return e.Stop()
		})
		_ = callEngine(errmsg.OpStop, e, func(e engine.Engine) error {
			return e.Close()
		})
	}

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()

	return nil
}
