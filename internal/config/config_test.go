package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/lib/darkplay/state.db",
			expected: "/var/lib/darkplay/state.db",
		},
		{
			name:     "relative path unchanged",
			input:    "darkplay.db",
			expected: "darkplay.db",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Fatal("getConfigPaths() returned empty slice")
	}

	// Last path is the local config.toml, which wins.
	if lastPath := paths[len(paths)-1]; lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "darkplay", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func TestGetPlaybackConfigDefaults(t *testing.T) {
	cfg := (&Config{}).GetPlaybackConfig()

	if cfg.DefaultVolume != 70 {
		t.Errorf("DefaultVolume = %d, want 70", cfg.DefaultVolume)
	}
	if cfg.SeekStepSeconds != 10 {
		t.Errorf("SeekStepSeconds = %d, want 10", cfg.SeekStepSeconds)
	}
	if cfg.VolumeStep != 5 {
		t.Errorf("VolumeStep = %d, want 5", cfg.VolumeStep)
	}
	if cfg.Rate != 1.0 {
		t.Errorf("Rate = %v, want 1.0", cfg.Rate)
	}
	if got := cfg.SeekStep(); got != 10*time.Second {
		t.Errorf("SeekStep() = %v, want 10s", got)
	}
}

func TestGetPlaybackConfigKeepsValidValues(t *testing.T) {
	c := &Config{Playback: PlaybackConfig{
		Engine:          "beep",
		DefaultVolume:   40,
		SeekStepSeconds: 30,
		VolumeStep:      2,
		Rate:            1.5,
	}}
	cfg := c.GetPlaybackConfig()

	if cfg.Engine != "beep" {
		t.Errorf("Engine = %q, want %q", cfg.Engine, "beep")
	}
	if cfg.DefaultVolume != 40 {
		t.Errorf("DefaultVolume = %d, want 40", cfg.DefaultVolume)
	}
	if got := cfg.SeekStep(); got != 30*time.Second {
		t.Errorf("SeekStep() = %v, want 30s", got)
	}
	if cfg.VolumeStep != 2 {
		t.Errorf("VolumeStep = %d, want 2", cfg.VolumeStep)
	}
	if cfg.Rate != 1.5 {
		t.Errorf("Rate = %v, want 1.5", cfg.Rate)
	}
}

func TestGetPlaybackConfigRejectsOutOfRange(t *testing.T) {
	c := &Config{Playback: PlaybackConfig{
		DefaultVolume: 250,
		VolumeStep:    101,
		Rate:          -2,
	}}
	cfg := c.GetPlaybackConfig()

	if cfg.DefaultVolume != 70 {
		t.Errorf("DefaultVolume = %d, want 70", cfg.DefaultVolume)
	}
	if cfg.VolumeStep != 5 {
		t.Errorf("VolumeStep = %d, want 5", cfg.VolumeStep)
	}
	if cfg.Rate != 1.0 {
		t.Errorf("Rate = %v, want 1.0", cfg.Rate)
	}
}

func TestPersistState(t *testing.T) {
	c := &Config{}
	if !c.PersistState() {
		t.Error("PersistState() = false by default, want true")
	}

	off := false
	c.State.Persist = &off
	if c.PersistState() {
		t.Error("PersistState() = true with persist = false")
	}
}

func TestLogLevel(t *testing.T) {
	c := &Config{}
	if got := c.LogLevel(); got != "info" {
		t.Errorf("LogLevel() = %q, want %q", got, "info")
	}

	c.Log.Level = "debug"
	if got := c.LogLevel(); got != "debug" {
		t.Errorf("LogLevel() = %q, want %q", got, "debug")
	}
}
