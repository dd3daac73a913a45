package beepengine

import (
	"github.com/darkplay/darkplay/internal/engine"
)

// Factory creates beep engines. It is always available: beep needs no
// external player binary, only a usable audio device at Play time.
type Factory struct{}

func (Factory) Name() string        { return "beep" }
func (Factory) Description() string { return "pure-Go audio engine (MP3, FLAC, WAV, Ogg Vorbis)" }
func (Factory) Priority() int       { return 100 }
func (Factory) Available() bool     { return true }

func (Factory) CanPlay(locator string) bool {
	return supportedExt(normalizeExt(locator))
}

func (Factory) New() (engine.Engine, error) {
	return New(), nil
}

var _ engine.Factory = Factory{}
