//go:build linux

package notify

import "github.com/darkplay/darkplay/internal/mpris"

// ArtworkPath returns the artwork path for a media locator, "" if
// none is found next to the file.
func ArtworkPath(locator string) string {
	return mpris.FindArtwork(locator)
}
