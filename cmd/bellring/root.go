package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Danieljenu/bellring/internal/audio"
	"github.com/Danieljenu/bellring/internal/bell"
	"github.com/Danieljenu/bellring/internal/config"
	"github.com/Danieljenu/bellring/internal/notify"
	"github.com/Danieljenu/bellring/internal/timespec"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

const appName = "bellring"

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
	}
	logger *slog.Logger
)

// runFlags holds schedule and sound overrides shared by the commands that ring.
type runFlags struct {
	times    []string
	sound    string
	interval time.Duration
	volume   float64
	notify   bool
}

var runOpts runFlags

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bellring [times...]",
	Short: "Ring a bell at scheduled times of day",
	Long: `bellring plays a sound at the scheduled times of day, once per day each.

Times may be given as arguments, with --time, or in the config file.
Accepted forms include "9", "09:30", "9am", "7pm", "7 o'clock" and
"12:30 pm". Entries that do not parse are reported and skipped.

Examples:
  # Ring at 9:00 and 19:00 every day
  bellring 9 7pm

  # Use a custom sound and check every 10 seconds
  bellring -t 8:30 -t 16:45 --sound ~/sounds/gong.wav --interval 10s

  # Ring the times from ~/.config/bellring/config.toml
  bellring`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlags(cfg, cmd.Flags().Changed)
		return nil
	},
	RunE: runBell,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/bellring/config.toml)")

	// Schedule and sound flags
	rootCmd.PersistentFlags().StringArrayVarP(&runOpts.times, "time", "t", nil,
		"Time of day to ring (repeatable, e.g. 9, 12:30, 7pm)")
	rootCmd.PersistentFlags().StringVarP(&runOpts.sound, "sound", "s", config.DefaultSoundFile,
		"Sound file to play (WAV, OGG or MP3)")
	rootCmd.PersistentFlags().DurationVarP(&runOpts.interval, "interval", "i", config.DefaultPollInterval,
		"How often to check the clock")
	rootCmd.PersistentFlags().Float64Var(&runOpts.volume, "volume", config.DefaultVolume,
		"Playback volume from 0.0 to 1.0")
	rootCmd.PersistentFlags().BoolVar(&runOpts.notify, "notify", false,
		"Send a desktop notification on every ring")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelInfo
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// applyFlags overlays the flags the user set on top of the loaded config.
func applyFlags(c *config.Config, changed func(name string) bool) {
	if changed("time") {
		c.Schedule.Times = runOpts.times
	}
	if changed("sound") {
		c.Sound.File = runOpts.sound
	}
	if changed("interval") && runOpts.interval > 0 {
		c.Schedule.PollInterval = config.Duration(runOpts.interval)
	}
	if changed("volume") {
		c.Sound.Volume = runOpts.volume
	}
	if changed("notify") {
		c.Notify.Enabled = runOpts.notify
	}
}

// scheduleInput returns the raw times to parse. Positional arguments add to
// the configured or flagged times.
func scheduleInput(c *config.Config, args []string) []string {
	raw := make([]string, 0, len(c.Schedule.Times)+len(args))
	raw = append(raw, c.Schedule.Times...)
	return append(raw, args...)
}

// buildSchedule parses raw times, logging every entry it has to skip.
func buildSchedule(raw []string) timespec.Schedule {
	schedule, errs := timespec.ParseSchedule(raw)
	for _, err := range errs {
		logger.Warn("skipping invalid time", "error", err)
	}
	return schedule
}

// newBell wires a bell to the audio manager using the effective config.
func newBell(schedule timespec.Schedule, output bell.SoundOutput) *bell.Bell {
	b := bell.New(schedule, output, logger)
	b.SetSoundFile(cfg.SoundPath())
	b.SetPollInterval(cfg.Schedule.PollInterval.Duration())
	b.SetVolume(cfg.Sound.Volume)
	return b
}

// newNotifier connects to the session bus when notifications are enabled.
// The returned close function is never nil.
func newNotifier() (*notify.Notifier, func()) {
	if !cfg.Notify.Enabled {
		return notify.NewNotifier(nil, logger), func() {}
	}

	sender, err := notify.NewBusSender(appName)
	if err != nil {
		logger.Warn("desktop notifications unavailable", "error", err)
		return notify.NewNotifier(nil, logger), func() {}
	}

	n := notify.NewNotifier(sender, logger)
	n.SetExpireTimeout(cfg.Notify.ExpireTimeout.Duration())
	return n, func() {
		if err := sender.Close(); err != nil {
			logger.Debug("failed to close session bus", "error", err)
		}
	}
}

func runBell(cmd *cobra.Command, args []string) error {
	schedule := buildSchedule(scheduleInput(cfg, args))
	if schedule.Len() == 0 {
		logger.Error("no valid times to ring, pass times as arguments, with --time, or in the config file")
		return bell.ErrEmptySchedule
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier, closeNotifier := newNotifier()
	defer closeNotifier()

	output := audio.NewManager(ctx, cfg.Sound.Watch, logger)
	b := newBell(schedule, output)
	b.SetRingCallback(notifier.NotifyRing)

	notifier.NotifyStarted(schedule.String())

	err := b.Run(ctx)
	var initErr *bell.AudioInitError
	if errors.As(err, &initErr) {
		notifier.NotifyAudioError(err)
	}
	return err
}
