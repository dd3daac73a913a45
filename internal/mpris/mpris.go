//go:build linux

// Package mpris exposes the playback controller on the session bus as
// an org.mpris.MediaPlayer2 player, so desktop media keys and applets
// can drive it.
package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/darkplay/darkplay/internal/engine"
	"github.com/darkplay/darkplay/internal/playback"
)

// Adapter connects a playback.Controller to MPRIS over D-Bus.
type Adapter struct {
	controller *playback.Controller
	server     *server.Server
}

// New creates and starts an MPRIS adapter for the controller.
func New(c *playback.Controller) (*Adapter, error) {
	a := &Adapter{controller: c}
	a.server = server.NewServer("darkplay", &rootAdapter{}, &playerAdapter{controller: c})

	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error { return nil }
func (r *rootAdapter) Quit() error  { return nil }

func (r *rootAdapter) CanQuit() (bool, error)      { return false, nil }
func (r *rootAdapter) CanRaise() (bool, error)     { return false, nil }
func (r *rootAdapter) HasTrackList() (bool, error) { return false, nil }

func (r *rootAdapter) Identity() (string, error) {
	return "DarkPlay", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/x-wav", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter plus the
// optional LoopStatus interface.
type playerAdapter struct {
	controller *playback.Controller
}

func (p *playerAdapter) Next() error {
	return p.controller.Next()
}

func (p *playerAdapter) Previous() error {
	return p.controller.Previous()
}

func (p *playerAdapter) Pause() error {
	return p.controller.Pause()
}

func (p *playerAdapter) PlayPause() error {
	return p.controller.TogglePlayPause()
}

func (p *playerAdapter) Stop() error {
	return p.controller.Stop()
}

func (p *playerAdapter) Play() error {
	if p.controller.IsStopped() {
		return p.controller.Play()
	}
	return p.controller.TogglePlayPause()
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return p.controller.Seek(time.Duration(offset) * time.Microsecond)
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.controller.SeekTo(time.Duration(position) * time.Microsecond)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(locator string) error {
	return p.controller.Open(locator)
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.controller.State() {
	case engine.StatePlaying, engine.StateBuffering:
		return types.PlaybackStatusPlaying, nil
	case engine.StatePaused:
		return types.PlaybackStatusPaused, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return p.controller.Rate(), nil
}

func (p *playerAdapter) SetRate(rate float64) error {
	p.controller.SetRate(rate)
	return nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return playback.MinRate, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return playback.MaxRate, nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	locator := p.controller.CurrentMedia()
	if locator == "" {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(locator)),
		Length:  types.Microseconds(p.controller.Duration().Microseconds()),
		Title:   p.controller.Title(),
	}
	if artPath := FindArtwork(locator); artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return float64(p.controller.Volume()) / 100, nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	p.controller.SetVolume(int(level*100 + 0.5))
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.controller.Position().Microseconds(), nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.controller.HasNext(), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.controller.HasPrevious(), nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.controller.HasMedia() || len(p.controller.Playlist()) > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.controller.HasMedia(), nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	if p.controller.Repeat() {
		return types.LoopStatusPlaylist, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	p.controller.SetRepeat(status != types.LoopStatusNone)
	return nil
}

func formatTrackID(locator string) string {
	h := fnv.New64a()
	h.Write([]byte(locator))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
