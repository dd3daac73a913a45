// Package engine defines the contract between the playback
// orchestration core and a media decoding/rendering backend. The core
// treats an Engine as a black box: it issues transport commands,
// reads back positions and levels, and consumes the event stream.
// Concrete backends live in subpackages and register themselves
// through a Registry.
package engine

import (
	"errors"
	"time"
)

// Common errors returned by engines.
var (
	// ErrNoMedia is returned by transport commands when no media has
	// been loaded into the engine.
	ErrNoMedia = errors.New("no media loaded")

	// ErrUnsupported is returned by Load when the engine cannot play
	// the given locator.
	ErrUnsupported = errors.New("unsupported media format")

	// ErrClosed is returned once the engine has been closed.
	ErrClosed = errors.New("engine closed")
)

// MediaType classifies the loaded media.
type MediaType int

const (
	MediaUnknown MediaType = iota
	MediaAudio
	MediaVideo
)

// String returns the media type name.
func (t MediaType) String() string {
	switch t {
	case MediaAudio:
		return "Audio"
	case MediaVideo:
		return "Video"
	default:
		return "Unknown"
	}
}

// MediaInfo describes the currently loaded media.
type MediaInfo struct {
	Locator  string
	Title    string
	Type     MediaType
	HasAudio bool
	HasVideo bool
}

// Engine is the capability the orchestration core drives. Implementations
// must be safe for concurrent use: commands, queries and the internal
// decode path may touch the engine from different goroutines.
//
// Volume and rate use the engine-side representations: volume is a
// normalized level in [0.0, 1.0] and rate is a scalar where 1.0 is
// normal speed. The orchestration core converts to and from its own
// canonical units at this boundary.
//
// Events() returns a channel owned by the engine. It is closed by
// Close. Engines must never block on event delivery: slow consumers
// see dropped events, not a stalled decoder. Failures are reported as
// an EventError followed by an EventStateChanged carrying StateError,
// in that order. A Load that interrupts active playback stops the
// engine first and emits that Stopped transition before any event
// about the new media.
type Engine interface {
	// Transport
	Load(locator string) error
	Play() error
	Pause() error
	Stop() error

	// Position and duration
	Position() time.Duration
	SetPosition(pos time.Duration) error
	Duration() time.Duration

	// Volume
	Volume() float64
	SetVolume(level float64) error
	Muted() bool
	SetMuted(muted bool) error

	// Playback rate
	Rate() float64
	SetRate(rate float64) error

	// State and information
	State() State
	ErrorDescription() string
	Info() MediaInfo

	// Events is the engine-originated event stream.
	Events() <-chan Event

	// Close releases all engine resources. Safe to call more than once.
	Close() error
}
