package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Danieljenu/bellring/internal/config"
	"github.com/Danieljenu/bellring/internal/timespec"
)

func TestMain(m *testing.M) {
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	os.Exit(m.Run())
}

func TestApplyFlags(t *testing.T) {
	runOpts.times = []string{"8am"}
	runOpts.sound = "/tmp/gong.wav"
	runOpts.interval = 5 * time.Second
	runOpts.volume = 0.3
	runOpts.notify = true
	t.Cleanup(func() { runOpts = runFlags{} })

	t.Run("only changed flags apply", func(t *testing.T) {
		c := config.DefaultConfig()
		c.Schedule.Times = []string{"9"}
		applyFlags(c, func(name string) bool { return name == "sound" })

		assert.Equal(t, []string{"9"}, c.Schedule.Times)
		assert.Equal(t, "/tmp/gong.wav", c.Sound.File)
		assert.Equal(t, config.DefaultVolume, c.Sound.Volume)
		assert.False(t, c.Notify.Enabled)
	})

	t.Run("all flags", func(t *testing.T) {
		c := config.DefaultConfig()
		applyFlags(c, func(string) bool { return true })

		assert.Equal(t, []string{"8am"}, c.Schedule.Times)
		assert.Equal(t, 5*time.Second, c.Schedule.PollInterval.Duration())
		assert.Equal(t, 0.3, c.Sound.Volume)
		assert.True(t, c.Notify.Enabled)
	})

	t.Run("non-positive interval keeps config", func(t *testing.T) {
		runOpts.interval = 0
		c := config.DefaultConfig()
		applyFlags(c, func(name string) bool { return name == "interval" })
		assert.Equal(t, config.DefaultPollInterval, c.Schedule.PollInterval.Duration())
	})
}

func TestScheduleInput(t *testing.T) {
	c := config.DefaultConfig()
	c.Schedule.Times = []string{"9"}
	assert.Equal(t, []string{"9", "7pm"}, scheduleInput(c, []string{"7pm"}))
	assert.Equal(t, []string{"9"}, scheduleInput(c, nil))
}

func TestBuildSchedule_SkipsInvalid(t *testing.T) {
	s := buildSchedule([]string{"9", "noon", "25:00", "9am", "7pm"})
	assert.Equal(t, "09:00,19:00", s.String())
}

func TestListEntries(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	s := timespec.NewSchedule(timespec.MustParse("7pm"), timespec.MustParse("9"))

	entries := listEntries(s, now)
	require.Len(t, entries, 2)

	assert.Equal(t, "09:00", entries[0].Time)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local), entries[0].Next)
	assert.Equal(t, "23 hours from now", entries[0].Due)

	assert.Equal(t, "19:00", entries[1].Time)
	assert.Equal(t, time.Date(2025, 6, 1, 19, 0, 0, 0, time.Local), entries[1].Next)
	assert.Equal(t, "9 hours from now", entries[1].Due)
}

func TestWriteList(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	entries := []listEntry{{Time: "19:00", Next: now.Add(9 * time.Hour), Due: "9 hours from now"}}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeList(&buf, entries, "json"))

		var got []listEntry
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, entries, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeList(&buf, entries, "YAML"))

		var got []map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "19:00", got[0]["time"])
		assert.Equal(t, "9 hours from now", got[0]["due"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeList(&buf, entries, "text"))
		assert.Contains(t, buf.String(), "1 scheduled")
		assert.Contains(t, buf.String(), "19:00")
		assert.Contains(t, buf.String(), "9 hours from now")
	})

	t.Run("unknown", func(t *testing.T) {
		err := writeList(io.Discard, entries, "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown output format")
	})
}

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bellring", "config.toml")
	globalOpts.configPath = path
	cfg = config.DefaultConfig()
	cfg.Schedule.Times = []string{"9", "1pm"}
	t.Cleanup(func() {
		globalOpts.configPath = ""
		initOpts.force = false
		cfg = nil
	})

	var out bytes.Buffer
	initCmd.SetOut(&out)
	require.NoError(t, runInit(initCmd, nil))
	assert.Contains(t, out.String(), path)

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "1pm"}, loaded.Schedule.Times)

	err = runInit(initCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	initOpts.force = true
	assert.NoError(t, runInit(initCmd, nil))
}
