//go:build !linux

package notify

// ArtworkPath returns empty on non-Linux platforms; notifications are
// only delivered over D-Bus.
func ArtworkPath(_ string) string {
	return ""
}
