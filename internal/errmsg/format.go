// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlay   Op = "start playback"
	OpPause  Op = "pause playback"
	OpStop   Op = "stop playback"
	OpSeek   Op = "seek"
	OpLoad   Op = "load media"
	OpVolume Op = "set volume"
	OpRate   Op = "set playback rate"

	// Engine operations
	OpEngineCreate Op = "create media engine"
	OpEngineSwap   Op = "switch media engine"

	// Playlist operations
	OpPlaylistSet  Op = "set playlist"
	OpPlaylistJump Op = "jump to playlist entry"

	// State persistence
	OpStateLoad Op = "load saved state"
	OpStateSave Op = "save state"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
