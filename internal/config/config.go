package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// Playback settings applied to the controller at startup
	Playback PlaybackConfig `koanf:"playback"`

	// State persistence (volume, playlist and cursor survive restarts)
	State StateConfig `koanf:"state"`

	Log LogConfig `koanf:"log"`
}

// PlaybackConfig holds the initial playback settings.
type PlaybackConfig struct {
	Engine          string  `koanf:"engine"`            // preferred engine name, empty selects the best available
	DefaultVolume   int     `koanf:"default_volume"`    // percent 0-100 (default: 70)
	Muted           bool    `koanf:"muted"`             // start muted
	AutoPlay        bool    `koanf:"autoplay"`          // start/advance playback automatically
	Repeat          bool    `koanf:"repeat"`            // wrap playlist navigation at the ends
	SeekStepSeconds int     `koanf:"seek_step_seconds"` // relative seek distance (default: 10)
	VolumeStep      int     `koanf:"volume_step"`       // volume key step in percent (default: 5)
	Rate            float64 `koanf:"rate"`              // initial playback rate (default: 1.0)
}

// StateConfig controls the sqlite-backed state store.
type StateConfig struct {
	Persist *bool  `koanf:"persist"` // default: true
	Path    string `koanf:"path"`    // database path override, empty uses the XDG data dir
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `koanf:"level"` // logrus level name (default: "info")
	File  string `koanf:"file"`  // empty logs to stderr
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in paths
	cfg.State.Path = expandPath(cfg.State.Path)
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/darkplay/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "darkplay", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback

	// Apply defaults
	if cfg.DefaultVolume <= 0 || cfg.DefaultVolume > 100 {
		cfg.DefaultVolume = 70
	}
	if cfg.SeekStepSeconds <= 0 {
		cfg.SeekStepSeconds = 10
	}
	if cfg.VolumeStep <= 0 || cfg.VolumeStep > 100 {
		cfg.VolumeStep = 5
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1.0
	}

	return cfg
}

// SeekStep returns the configured relative seek distance.
func (c *PlaybackConfig) SeekStep() time.Duration {
	return time.Duration(c.SeekStepSeconds) * time.Second
}

// PersistState returns whether playback state should be persisted.
func (c *Config) PersistState() bool {
	if c.State.Persist == nil {
		return true
	}
	return *c.State.Persist
}

// LogLevel returns the configured log level with the default applied.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}
