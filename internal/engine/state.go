package engine

// State represents the transport state reported by an engine.
//
// Valid transitions:
//   - Stopped   → Playing   (via Play)
//   - Stopped   → Buffering (engine still filling its pipeline)
//   - Buffering → Playing   (enough data buffered)
//   - Playing   → Paused    (via Pause)
//   - Playing   → Stopped   (via Stop, or end of media)
//   - Paused    → Playing   (via Play)
//   - Paused    → Stopped   (via Stop)
//   - any       → Error     (engine-reported failure)
//   - Error     → Stopped   (via Stop, or loading new media)
//
// The orchestration core never sets a state speculatively: it always
// mirrors the last engine-reported value.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
	StateBuffering
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateBuffering:
		return "Buffering"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing, paused or
// buffering).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused || s == StateBuffering
}

// CanPlay returns true if the state allows a play command.
func (s State) CanPlay() bool {
	return s == StateStopped || s == StatePaused || s == StateBuffering
}

// CanPause returns true if the state allows a pause command.
func (s State) CanPause() bool {
	return s == StatePlaying || s == StateBuffering
}
