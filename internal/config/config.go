// Package config loads the application configuration from TOML files.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/radarwhisper/radarwhisper/internal/domain"
)

// Config holds the application settings.
type Config struct {
	Log      LogConfig      `koanf:"log"`
	Audio    AudioConfig    `koanf:"audio"`
	Playback PlaybackConfig `koanf:"playback"`
	Library  LibraryConfig  `koanf:"library"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error"
	Format string `koanf:"format"` // "text" or "json"
}

// AudioConfig controls the playback backend.
type AudioConfig struct {
	Mock     bool `koanf:"mock"`      // use the silent in-memory engine
	BufferMS int  `koanf:"buffer_ms"` // speaker buffer length in milliseconds
}

// PlaybackConfig holds the initial playback state.
type PlaybackConfig struct {
	Volume     float64 `koanf:"volume"`      // 0.0 to 1.0
	Shuffle    bool    `koanf:"shuffle"`
	RepeatMode string  `koanf:"repeat_mode"` // "none", "playlist", "track"
}

// LibraryConfig controls playlist persistence.
type LibraryConfig struct {
	// PlaylistDir overrides where the playlist library is stored.
	// Empty means the default XDG data directory.
	PlaylistDir string `koanf:"playlist_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:      LogConfig{Level: "info", Format: "text"},
		Audio:    AudioConfig{BufferMS: 100},
		Playback: PlaybackConfig{Volume: 0.8, RepeatMode: "none"},
	}
}

// Load reads configuration files in priority order: the XDG config file
// first, then ./config.toml which overrides it. Missing files are fine; the
// defaults cover everything.
func Load() (*Config, error) {
	k := koanf.New(".")

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Library.PlaylistDir != "" {
		cfg.Library.PlaylistDir = expandPath(cfg.Library.PlaylistDir)
	}
	return cfg, nil
}

// LoadFile reads a single explicit configuration file over the defaults.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if cfg.Library.PlaylistDir != "" {
		cfg.Library.PlaylistDir = expandPath(cfg.Library.PlaylistDir)
	}
	return cfg, nil
}

// RepeatMode parses the configured repeat mode, falling back to no repeat.
func (c *Config) RepeatMode() domain.RepeatMode {
	mode, err := domain.ParseRepeatMode(c.Playback.RepeatMode)
	if err != nil {
		return domain.NoRepeat
	}
	return mode
}

// Buffer returns the audio buffer length as a duration.
func (c *Config) Buffer() time.Duration {
	return time.Duration(c.Audio.BufferMS) * time.Millisecond
}

func configPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "radarwhisper", "config.toml"),
		"config.toml",
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
