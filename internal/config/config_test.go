package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Schedule.Times)
	assert.Equal(t, 20*time.Second, cfg.Schedule.PollInterval.Duration())
	assert.Equal(t, "bell.mp3", cfg.Sound.File)
	assert.Equal(t, 0.8, cfg.Sound.Volume)
	assert.True(t, cfg.Sound.Watch)
	assert.False(t, cfg.Notify.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Notify.ExpireTimeout.Duration())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[schedule]
times = ["9", "00:29", "15:00", "7pm"]
poll_interval = "15s"

[sound]
file = "~/sounds/bell.wav"
volume = 0.9
watch = false

[notify]
enabled = true
expire_timeout = "3s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"9", "00:29", "15:00", "7pm"}, cfg.Schedule.Times)
	assert.Equal(t, 15*time.Second, cfg.Schedule.PollInterval.Duration())
	assert.Equal(t, "~/sounds/bell.wav", cfg.Sound.File)
	assert.Equal(t, 0.9, cfg.Sound.Volume)
	assert.False(t, cfg.Sound.Watch)
	assert.True(t, cfg.Notify.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Notify.ExpireTimeout.Duration())
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[schedule]
times = ["8am"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"8am"}, cfg.Schedule.Times)

	// Unchanged fields keep their defaults
	assert.Equal(t, DefaultPollInterval, cfg.Schedule.PollInterval.Duration())
	assert.Equal(t, DefaultSoundFile, cfg.Sound.File)
	assert.Equal(t, DefaultVolume, cfg.Sound.Volume)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad duration", "[schedule]\npoll_interval = \"soon\"", "invalid duration"},
		{"zero interval", "[schedule]\npoll_interval = \"0s\"", "poll_interval must be positive"},
		{"empty sound", "[sound]\nfile = \"  \"", "sound file must be set"},
		{"nan volume", "[sound]\nvolume = nan", "volume must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_VolumeOutOfRangeIsAccepted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sound]\nvolume = 1.7"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1.7, cfg.Sound.Volume)
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Schedule.Times = []string{"9", "7pm"}
	cfg.Schedule.PollInterval = Duration(30 * time.Second)
	cfg.Notify.Enabled = true

	require.NoError(t, cfg.Save(path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/bellring/config.toml", ConfigPath())
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, ConfigPath(), filepath.Join("bellring", "config.toml"))
}

func TestSoundPath(t *testing.T) {
	t.Setenv("HOME", "/home/bell")

	cfg := DefaultConfig()
	cfg.Sound.File = "~/sounds/bell.mp3"
	assert.Equal(t, "/home/bell/sounds/bell.mp3", cfg.SoundPath())

	cfg.Sound.File = "/opt/bell.wav"
	assert.Equal(t, "/opt/bell.wav", cfg.SoundPath())
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"20s", 20 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"1500", 1500 * time.Millisecond, false},
		{"later", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(b))
}
