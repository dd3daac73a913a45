// Package beepengine implements a pure-Go audio engine on top of
// gopxl/beep. It decodes MP3, FLAC, WAV and Ogg Vorbis files and
// plays them through the shared beep speaker.
package beepengine

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/darkplay/darkplay/internal/engine"
)

const (
	eventBufferSize = 32
	resampleQuality = 4
)

// The speaker is process-global in beep: it is initialized once, at
// the sample rate of the first decoded file, and every later file is
// resampled to it.
var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

func errUnsupportedExt(ext string) error {
	return fmt.Errorf("%w: %s", engine.ErrUnsupported, ext)
}

// Engine plays local audio files through beep. All methods are safe
// for concurrent use.
type Engine struct {
	mu sync.Mutex

	locator  string
	info     engine.MediaInfo
	duration time.Duration

	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	resample *beep.Resampler
	ctrl     *beep.Ctrl
	vol      *effects.Volume

	state   engine.State
	lastErr string

	level float64 // [0.0, 1.0]
	muted bool
	rate  float64

	// gen identifies the active playback chain; finish callbacks from
	// superseded chains are dropped by comparing generations.
	gen        uint64
	finishedCh chan uint64

	events chan engine.Event
	done   chan struct{}
	closed bool
}

var _ engine.Engine = (*Engine)(nil)

// New creates an engine with no media loaded.
func New() *Engine {
	e := &Engine{
		state:      engine.StateStopped,
		level:      1.0,
		rate:       1.0,
		finishedCh: make(chan uint64, 1),
		events:     make(chan engine.Event, eventBufferSize),
		done:       make(chan struct{}),
	}
	go e.watchFinished()
	return e
}

// watchFinished turns beep finish callbacks into a Stopped transition.
// The callback itself runs inside the speaker loop and must not touch
// engine state, so it only posts the chain generation here.
func (e *Engine) watchFinished() {
	for {
		select {
		case gen := <-e.finishedCh:
			e.handleFinished(gen)
		case <-e.done:
			return
		}
	}
}

func (e *Engine) handleFinished(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.gen {
		return
	}
	e.teardownLocked()
	e.state = engine.StateStopped
	e.emitLocked(engine.Event{Kind: engine.EventStateChanged, State: engine.StateStopped})
}

// Load decodes the file far enough to validate it and read its
// duration and tags. Playback does not start until Play.
func (e *Engine) Load(locator string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return engine.ErrClosed
	}

	// Replace whatever was loaded before.
	speaker.Clear()
	e.gen++
	e.teardownLocked()
	e.locator = ""
	e.info = engine.MediaInfo{}
	e.duration = 0
	if e.state != engine.StateStopped {
		e.state = engine.StateStopped
		e.emitLocked(engine.Event{Kind: engine.EventStateChanged, State: engine.StateStopped})
	}

	if err := e.openLocked(locator); err != nil {
		e.lastErr = err.Error()
		return err
	}

	e.lastErr = ""
	e.emitLocked(engine.Event{Kind: engine.EventMediaLoaded, Locator: locator})
	e.emitLocked(engine.Event{Kind: engine.EventDurationChanged, Duration: e.duration})
	return nil
}

// openLocked opens and decodes the file, filling locator, info,
// duration, streamer and format.
func (e *Engine) openLocked(locator string) error {
	ext := normalizeExt(locator)
	if !supportedExt(ext) {
		return errUnsupportedExt(ext)
	}

	f, err := os.Open(locator)
	if err != nil {
		return err
	}
	streamer, format, err := decode(f, ext)
	if err != nil {
		f.Close()
		return err
	}

	e.file = f
	e.streamer = streamer
	e.format = format
	e.locator = locator
	e.duration = format.SampleRate.D(streamer.Len())
	e.info = engine.MediaInfo{
		Locator:  locator,
		Title:    readTitle(locator),
		Type:     engine.MediaAudio,
		HasAudio: true,
	}
	return nil
}

// Play starts or resumes playback. A stopped engine with media loaded
// restarts the track from the beginning.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return engine.ErrClosed
	}
	if e.locator == "" {
		return engine.ErrNoMedia
	}

	switch e.state {
	case engine.StatePlaying:
		return nil
	case engine.StatePaused:
		speaker.Lock()
		e.ctrl.Paused = false
		speaker.Unlock()
		e.state = engine.StatePlaying
		e.emitLocked(engine.Event{Kind: engine.EventStateChanged, State: engine.StatePlaying})
		return nil
	}

	// Stopped: the previous chain (if any) was torn down, so decode
	// again and start fresh.
	if e.streamer == nil {
		if err := e.openLocked(e.locator); err != nil {
			e.lastErr = err.Error()
			e.state = engine.StateError
			e.emitLocked(engine.Event{Kind: engine.EventError, Message: e.lastErr, Locator: e.locator})
			e.emitLocked(engine.Event{Kind: engine.EventStateChanged, State: engine.StateError})
			return err
		}
	}
	if err := e.startLocked(); err != nil {
		e.lastErr = err.Error()
		e.state = engine.StateError
		e.emitLocked(engine.Event{Kind: engine.EventError, Message: e.lastErr, Locator: e.locator})
		e.emitLocked(engine.Event{Kind: engine.EventStateChanged, State: engine.StateError})
		return err
	}
	e.state = engine.StatePlaying
	e.emitLocked(engine.Event{Kind: engine.EventStateChanged, State: engine.StatePlaying})
	return nil
}

// startLocked builds the playback chain and hands it to the speaker.
func (e *Engine) startLocked() error {
	speakerMu.Lock()
	if !speakerInitialized {
		speakerSampleRate = e.format.SampleRate
		if err := speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10)); err != nil {
			speakerMu.Unlock()
			return err
		}
		speakerInitialized = true
	}
	sr := speakerSampleRate
	speakerMu.Unlock()

	// One resampler handles both sample-rate conversion and playback
	// speed: ratio = rate * source/speaker.
	ratio := e.rate * float64(e.format.SampleRate) / float64(sr)
	e.resample = beep.ResampleRatio(resampleQuality, ratio, e.streamer)
	e.ctrl = &beep.Ctrl{Streamer: e.resample, Paused: false}
	e.vol = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   levelToGain(e.level),
		Silent:   e.muted,
	}

	e.gen++
	gen := e.gen
	speaker.Play(beep.Seq(e.vol, beep.Callback(func() {
		select {
		case e.finishedCh <- gen:
		default:
		}
	})))
	return nil
}

// Pause pauses playback. Pausing anything but a playing engine is a
// no-op.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return engine.ErrClosed
	}
	if e.state != engine.StatePlaying || e.ctrl == nil {
		return nil
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	e.state = engine.StatePaused
	e.emitLocked(engine.Event{Kind: engine.EventStateChanged, State: engine.StatePaused})
	return nil
}

// Stop stops playback and releases the decoder, keeping the loaded
// locator so Play can restart the track.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return engine.ErrClosed
	}
	if e.state == engine.StateStopped && e.streamer == nil {
		return nil
	}
	speaker.Clear()
	e.gen++
	e.teardownLocked()
	if e.state != engine.StateStopped {
		e.state = engine.StateStopped
		e.emitLocked(engine.Event{Kind: engine.EventStateChanged, State: engine.StateStopped})
	}
	return nil
}

// teardownLocked closes the decoder chain. The locator, media info
// and duration stay so a later Play can restart the same file.
func (e *Engine) teardownLocked() {
	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	if e.file != nil {
		e.file.Close()
		e.file = nil
	}
	e.resample = nil
	e.ctrl = nil
	e.vol = nil
}

// Position returns the current playback position.
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := e.format.SampleRate.D(e.streamer.Position())
	speaker.Unlock()
	return pos
}

// SetPosition seeks to an absolute position, clamped to the media.
func (e *Engine) SetPosition(pos time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return engine.ErrClosed
	}
	if e.streamer == nil {
		return engine.ErrNoMedia
	}
	if pos < 0 {
		pos = 0
	}
	if pos > e.duration {
		pos = e.duration
	}
	n := e.format.SampleRate.N(pos)
	if n >= e.streamer.Len() {
		n = e.streamer.Len() - 1
	}
	if n < 0 {
		n = 0
	}
	speaker.Lock()
	err := e.streamer.Seek(n)
	speaker.Unlock()
	return err
}

// Duration returns the duration of the loaded media.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// Volume returns the current volume level in [0.0, 1.0].
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

// SetVolume sets the volume level, clamped to [0.0, 1.0].
func (e *Engine) SetVolume(level float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return engine.ErrClosed
	}
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	e.level = level
	if e.vol != nil {
		speaker.Lock()
		e.vol.Volume = levelToGain(level)
		speaker.Unlock()
	}
	return nil
}

// Muted reports whether audio output is muted.
func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// SetMuted mutes or unmutes audio output without touching the level.
func (e *Engine) SetMuted(muted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return engine.ErrClosed
	}
	e.muted = muted
	if e.vol != nil {
		speaker.Lock()
		e.vol.Silent = muted
		speaker.Unlock()
	}
	return nil
}

// Rate returns the playback speed multiplier.
func (e *Engine) Rate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate
}

// SetRate sets the playback speed multiplier.
func (e *Engine) SetRate(rate float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return engine.ErrClosed
	}
	if rate <= 0 {
		return fmt.Errorf("invalid playback rate %v", rate)
	}
	e.rate = rate
	if e.resample != nil {
		speakerMu.Lock()
		sr := speakerSampleRate
		speakerMu.Unlock()
		speaker.Lock()
		e.resample.SetRatio(rate * float64(e.format.SampleRate) / float64(sr))
		speaker.Unlock()
	}
	return nil
}

// State returns the engine's transport state.
func (e *Engine) State() engine.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ErrorDescription returns the last error message, "" if none.
func (e *Engine) ErrorDescription() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Info describes the loaded media.
func (e *Engine) Info() engine.MediaInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.info
}

// Events returns the engine event stream. Closed by Close.
func (e *Engine) Events() <-chan engine.Event {
	return e.events
}

// Close stops playback and releases all resources.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	speaker.Clear()
	e.gen++
	e.teardownLocked()
	e.locator = ""
	e.state = engine.StateStopped
	close(e.done)
	close(e.events)
	return nil
}

func (e *Engine) emitLocked(ev engine.Event) {
	select {
	case e.events <- ev:
	default:
	}
}

// levelToGain converts a 0.0-1.0 level to beep's Volume value. beep
// uses a logarithmic scale with base 2: 0 means unchanged, -1 half
// volume, -2 quarter volume. Level 0 maps to -10, effectively silent.
func levelToGain(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
