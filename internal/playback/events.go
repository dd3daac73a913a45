package playback

import (
	"time"

	"github.com/darkplay/darkplay/internal/engine"
	"github.com/darkplay/darkplay/internal/errmsg"
)

// StateChange is emitted when the transport state changes.
type StateChange struct {
	Previous engine.State
	Current  engine.State
}

// PositionChange is emitted when a seek occurs and on every position
// poller tick while playing.
type PositionChange struct {
	Position time.Duration
}

// DurationChange is emitted when the engine reports a new media
// duration.
type DurationChange struct {
	Duration time.Duration
}

// VolumeChange is emitted when the volume level or mute flag changes.
// Volume is in canonical percent units [0, 100].
type VolumeChange struct {
	Volume int
	Muted  bool
}

// RateChange is emitted when the playback rate changes.
type RateChange struct {
	Rate float64
}

// MediaChange is emitted when a new media locator has been loaded
// into the engine.
//
// Emitted by:
//   - Open: when a locator is loaded directly
//   - SetPlaylist/SetCurrentIndex/Next/Previous: when navigation loads
//     the entry at the new cursor
//   - auto-advance: when a finished or failed track advances the cursor
//
// The embedding application should handle all media-related side
// effects (window title, notifications, remote-control metadata) in
// response to this event.
type MediaChange struct {
	Locator string
	Title   string
	Index   int // playlist cursor, -1 when loaded outside the playlist
}

// PlaylistChange is emitted when the playlist contents or cursor change.
type PlaylistChange struct {
	Entries []string
	Index   int
}

// BufferingProgress is emitted while the engine fills its pipeline.
type BufferingProgress struct {
	Progress int // percent [0, 100]
}

// ErrorEvent is emitted for every user-visible failure. Errors never
// cross the controller boundary any other way.
type ErrorEvent struct {
	Op      errmsg.Op
	Locator string // media locator if applicable
	Message string
}
