package beepengine

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/darkplay/darkplay/internal/engine"
)

// writeTestWav writes a PCM WAV file with the given number of 16-bit
// mono samples at 44.1kHz.
func writeTestWav(t *testing.T, samples int) string {
	t.Helper()

	const (
		sampleRate    = 44100
		channels      = 1
		bitsPerSample = 16
	)
	dataSize := samples * channels * bitsPerSample / 8

	buf := make([]byte, 0, 44+dataSize)
	buf = append(buf, []byte("RIFF")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataSize))
	buf = append(buf, []byte("WAVEfmt ")...)
	buf = binary.LittleEndian.AppendUint32(buf, 16) // fmt chunk size
	buf = binary.LittleEndian.AppendUint16(buf, 1)  // PCM
	buf = binary.LittleEndian.AppendUint16(buf, channels)
	buf = binary.LittleEndian.AppendUint32(buf, sampleRate)
	buf = binary.LittleEndian.AppendUint32(buf, sampleRate*channels*bitsPerSample/8)
	buf = binary.LittleEndian.AppendUint16(buf, channels*bitsPerSample/8)
	buf = binary.LittleEndian.AppendUint16(buf, bitsPerSample)
	buf = append(buf, []byte("data")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataSize))
	buf = append(buf, make([]byte, dataSize)...)

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWav(t *testing.T) {
	e := New()
	defer e.Close()

	path := writeTestWav(t, 44100) // one second
	if err := e.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := e.State(); got != engine.StateStopped {
		t.Errorf("State() = %s after load, want Stopped", got)
	}
	if got := e.Duration(); got != time.Second {
		t.Errorf("Duration() = %v, want 1s", got)
	}
	info := e.Info()
	if info.Locator != path {
		t.Errorf("Info().Locator = %q, want %q", info.Locator, path)
	}
	if info.Title != "tone.wav" {
		t.Errorf("Info().Title = %q, want base filename for untagged file", info.Title)
	}
	if !info.HasAudio || info.Type != engine.MediaAudio {
		t.Error("loaded WAV not reported as audio")
	}
}

func TestLoadEmitsEvents(t *testing.T) {
	e := New()
	defer e.Close()

	path := writeTestWav(t, 4410)
	if err := e.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ev := <-e.Events()
	if ev.Kind != engine.EventMediaLoaded || ev.Locator != path {
		t.Errorf("first event = %+v, want media-loaded for %s", ev, path)
	}
	ev = <-e.Events()
	if ev.Kind != engine.EventDurationChanged || ev.Duration != 100*time.Millisecond {
		t.Errorf("second event = %+v, want duration-changed 100ms", ev)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	e := New()
	defer e.Close()

	err := e.Load("/tmp/whatever.txt")
	if !errors.Is(err, engine.ErrUnsupported) {
		t.Errorf("Load(.txt) = %v, want ErrUnsupported", err)
	}
	if e.ErrorDescription() == "" {
		t.Error("ErrorDescription() empty after failed load")
	}
}

func TestLoadMissingFile(t *testing.T) {
	e := New()
	defer e.Close()

	if err := e.Load("/no/such/file.wav"); err == nil {
		t.Error("Load on missing file succeeded, want error")
	}
}

func TestSetPositionClamps(t *testing.T) {
	e := New()
	defer e.Close()

	path := writeTestWav(t, 44100)
	if err := e.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := e.SetPosition(500 * time.Millisecond); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}
	if got := e.Position(); got != 500*time.Millisecond {
		t.Errorf("Position() = %v, want 500ms", got)
	}

	// Past the end clamps to the last sample.
	if err := e.SetPosition(time.Hour); err != nil {
		t.Fatalf("SetPosition past end failed: %v", err)
	}
	if got := e.Position(); got > time.Second {
		t.Errorf("Position() = %v after clamped seek, want <= 1s", got)
	}

	if err := e.SetPosition(-time.Second); err != nil {
		t.Fatalf("SetPosition negative failed: %v", err)
	}
	if got := e.Position(); got != 0 {
		t.Errorf("Position() = %v after negative seek, want 0", got)
	}
}

func TestSetPositionWithoutMedia(t *testing.T) {
	e := New()
	defer e.Close()

	if err := e.SetPosition(time.Second); !errors.Is(err, engine.ErrNoMedia) {
		t.Errorf("SetPosition() = %v, want ErrNoMedia", err)
	}
}

func TestVolumeAndRateSettings(t *testing.T) {
	e := New()
	defer e.Close()

	if err := e.SetVolume(1.7); err != nil {
		t.Fatal(err)
	}
	if got := e.Volume(); got != 1.0 {
		t.Errorf("Volume() = %v, want clamped 1.0", got)
	}
	if err := e.SetVolume(0.5); err != nil {
		t.Fatal(err)
	}
	if got := e.Volume(); got != 0.5 {
		t.Errorf("Volume() = %v, want 0.5", got)
	}

	if err := e.SetMuted(true); err != nil {
		t.Fatal(err)
	}
	if !e.Muted() {
		t.Error("Muted() = false after SetMuted(true)")
	}

	if err := e.SetRate(1.5); err != nil {
		t.Fatal(err)
	}
	if got := e.Rate(); got != 1.5 {
		t.Errorf("Rate() = %v, want 1.5", got)
	}
	if err := e.SetRate(0); err == nil {
		t.Error("SetRate(0) succeeded, want error")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	e := New()

	if err := e.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second Close = %v, want nil", err)
	}
	if _, open := <-e.Events(); open {
		t.Error("events channel still open after Close")
	}
	if err := e.Load("/tmp/x.wav"); !errors.Is(err, engine.ErrClosed) {
		t.Errorf("Load after Close = %v, want ErrClosed", err)
	}
}

func TestLevelToGain(t *testing.T) {
	tests := []struct {
		level float64
		want  float64
	}{
		{0, -10},
		{-0.5, -10},
		{1, 0},
		{1.5, 0},
		{0.5, -1},
		{0.25, -2},
	}
	for _, tt := range tests {
		if got := levelToGain(tt.level); got != tt.want {
			t.Errorf("levelToGain(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestFactory(t *testing.T) {
	f := Factory{}

	if f.Name() != "beep" {
		t.Errorf("Name() = %q", f.Name())
	}
	if !f.Available() {
		t.Error("Available() = false")
	}

	for locator, want := range map[string]bool{
		"song.mp3":                     true,
		"SONG.MP3":                     true,
		"track.flac":                   true,
		"tone.wav":                     true,
		"clip.ogg":                     true,
		"movie.mkv":                    false,
		"notes.txt":                    false,
		"https://example.com/live.aac": false,
	} {
		if got := f.CanPlay(locator); got != want {
			t.Errorf("CanPlay(%q) = %v, want %v", locator, got, want)
		}
	}

	e, err := f.New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	e.Close()
}

func TestSkipID3v2(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged.bin")
	// 10-byte ID3v2 header with a 20-byte tag body, then payload.
	data := []byte("ID3\x04\x00\x00\x00\x00\x00\x14")
	data = append(data, make([]byte, 20)...)
	data = append(data, []byte("PAYLOAD")...)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := skipID3v2(f); err != nil {
		t.Fatalf("skipID3v2 failed: %v", err)
	}
	rest := make([]byte, 7)
	if _, err := f.Read(rest); err != nil {
		t.Fatal(err)
	}
	if string(rest) != "PAYLOAD" {
		t.Errorf("after skip read %q, want PAYLOAD", rest)
	}
}

func TestSkipID3v2NoTag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.bin")
	if err := os.WriteFile(path, []byte("fLaC rest of stream"), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := skipID3v2(f); err != nil {
		t.Fatalf("skipID3v2 failed: %v", err)
	}
	head := make([]byte, 4)
	if _, err := f.Read(head); err != nil {
		t.Fatal(err)
	}
	if string(head) != "fLaC" {
		t.Errorf("after no-tag skip read %q, want fLaC", head)
	}
}
