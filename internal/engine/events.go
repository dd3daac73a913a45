package engine

import "time"

// EventKind identifies the type of an engine event.
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventPositionChanged
	EventDurationChanged
	EventVolumeChanged
	EventMutedChanged
	EventRateChanged
	EventMediaLoaded
	EventError
	EventBuffering
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state-changed"
	case EventPositionChanged:
		return "position-changed"
	case EventDurationChanged:
		return "duration-changed"
	case EventVolumeChanged:
		return "volume-changed"
	case EventMutedChanged:
		return "muted-changed"
	case EventRateChanged:
		return "rate-changed"
	case EventMediaLoaded:
		return "media-loaded"
	case EventError:
		return "error"
	case EventBuffering:
		return "buffering-progress"
	default:
		return "unknown"
	}
}

// Event is a single engine-originated notification. Only the fields
// relevant to Kind are populated.
type Event struct {
	Kind EventKind

	State    State         // EventStateChanged
	Position time.Duration // EventPositionChanged
	Duration time.Duration // EventDurationChanged
	Volume   float64       // EventVolumeChanged, normalized [0.0, 1.0]
	Muted    bool          // EventMutedChanged
	Rate     float64       // EventRateChanged
	Locator  string        // EventMediaLoaded, EventError
	Message  string        // EventError
	Progress int           // EventBuffering, percent [0, 100]
}
