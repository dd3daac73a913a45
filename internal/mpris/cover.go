//go:build linux

package mpris

import (
	"os"
	"path/filepath"
	"strings"
)

// artworkNames lists common artwork filenames, best match first.
var artworkNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"album.jpg", "album.png", "album.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// FindArtwork looks for artwork next to a local media file. Remote
// locators have no directory to search, so they never match.
func FindArtwork(locator string) string {
	if strings.Contains(locator, "://") {
		return ""
	}
	dir := filepath.Dir(locator)
	for _, name := range artworkNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
