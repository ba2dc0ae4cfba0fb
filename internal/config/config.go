// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultPollInterval  = 20 * time.Second
	DefaultVolume        = 0.8
	DefaultSoundFile     = "bell.mp3"
	DefaultExpireTimeout = 10 * time.Second
)

// Config represents the bellring configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Sound    SoundConfig    `toml:"sound"`
	Notify   NotifyConfig   `toml:"notify"`
}

// ScheduleConfig holds the times to ring and how often to check the clock.
type ScheduleConfig struct {
	Times        []string `toml:"times"`         // e.g. "9", "12:30", "7pm"
	PollInterval Duration `toml:"poll_interval"` // e.g. "20s"
}

// SoundConfig holds the bell sound settings.
type SoundConfig struct {
	File   string  `toml:"file"`   // WAV, OGG or MP3; ~ is expanded
	Volume float64 `toml:"volume"` // 0.0-1.0, clamped at use
	Watch  bool    `toml:"watch"`  // Reload the file when it changes
}

// NotifyConfig holds desktop notification settings.
type NotifyConfig struct {
	Enabled       bool     `toml:"enabled"`
	ExpireTimeout Duration `toml:"expire_timeout"` // 0 = server default
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			Times:        nil,
			PollInterval: Duration(DefaultPollInterval),
		},
		Sound: SoundConfig{
			File:   DefaultSoundFile,
			Volume: DefaultVolume,
			Watch:  true,
		},
		Notify: NotifyConfig{
			Enabled:       false,
			ExpireTimeout: Duration(DefaultExpireTimeout),
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "bellring", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
// Volume outside [0,1] is allowed and clamped when applied.
func (c *Config) Validate() error {
	if c.Schedule.PollInterval.Duration() <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.Schedule.PollInterval)
	}
	if math.IsNaN(c.Sound.Volume) || math.IsInf(c.Sound.Volume, 0) {
		return fmt.Errorf("volume must be a number between 0 and 1, got %v", c.Sound.Volume)
	}
	if strings.TrimSpace(c.Sound.File) == "" {
		return errors.New("sound file must be set")
	}
	if c.Notify.ExpireTimeout.Duration() < 0 {
		return fmt.Errorf("expire_timeout must not be negative, got %s", c.Notify.ExpireTimeout)
	}
	return nil
}

// SoundPath returns the sound file path with ~ expanded.
func (c *Config) SoundPath() string {
	return expandPath(c.Sound.File)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
