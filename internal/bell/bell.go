package bell

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"

	"github.com/Danieljenu/bellring/internal/timespec"
)

// Defaults applied by New.
const (
	DefaultPollInterval = 20 * time.Second
	DefaultVolume       = 0.8
)

// Ring records one attempt to ring the bell.
type Ring struct {
	ID   string            // ULID, for correlating log lines
	Spec timespec.TimeSpec // Scheduled entry that triggered the ring
	At   time.Time         // Clock reading of the poll cycle
	Err  error             // *PlaybackError if playback failed
}

// Bell rings a sound output on a daily schedule.
type Bell struct {
	logger   *slog.Logger
	schedule timespec.Schedule
	output   SoundOutput
	clock    Clock
	registry *Registry

	soundFile    string
	pollInterval time.Duration
	volume       float64

	onRing func(Ring)
}

// New creates a Bell for schedule that plays through output.
func New(schedule timespec.Schedule, output SoundOutput, logger *slog.Logger) *Bell {
	if logger == nil {
		logger = slog.Default()
	}

	return &Bell{
		logger:       logger,
		schedule:     schedule,
		output:       output,
		clock:        SystemClock{},
		pollInterval: DefaultPollInterval,
		volume:       DefaultVolume,
	}
}

// SetClock replaces the system clock.
func (b *Bell) SetClock(clock Clock) {
	b.clock = clock
}

// SetSoundFile sets the sound loaded into the output at startup.
func (b *Bell) SetSoundFile(path string) {
	b.soundFile = path
}

// SetPollInterval sets the delay between clock checks.
func (b *Bell) SetPollInterval(interval time.Duration) {
	if interval > 0 {
		b.pollInterval = interval
	}
}

// SetVolume sets the requested volume. It is clamped to [0,1] when applied.
func (b *Bell) SetVolume(volume float64) {
	b.volume = volume
}

// SetRingCallback sets a function called after every ring attempt.
func (b *Bell) SetRingCallback(callback func(Ring)) {
	b.onRing = callback
}

// Registry returns the registry of the current or last run, or nil before Run.
func (b *Bell) Registry() *Registry {
	return b.registry
}

// Run opens the sound output and polls the clock until ctx is cancelled.
//
// A cancelled context is a normal stop and Run returns nil. An empty schedule
// returns ErrEmptySchedule and a device or load failure returns an
// *AudioInitError; neither enters the loop. The output is closed exactly once
// whichever way Run returns.
func (b *Bell) Run(ctx context.Context) error {
	if b.schedule.Len() == 0 {
		b.logger.Error("no valid times in schedule, nothing to ring")
		return ErrEmptySchedule
	}

	defer b.close()

	if err := b.open(); err != nil {
		return err
	}

	if b.pollInterval > time.Minute {
		b.logger.Warn("poll interval exceeds one minute, scheduled times may be skipped",
			"poll_interval", b.pollInterval)
	}

	now := b.clock.Now()
	b.registry = NewRegistry(now)

	attrs := []any{"schedule", b.schedule.String(), "poll_interval", b.pollInterval}
	if next, at, ok := b.schedule.Next(now); ok {
		attrs = append(attrs, "next", next.String(), "due", humanize.RelTime(at, now, "ago", "from now"))
	}
	b.logger.Info("bell started", attrs...)

	for {
		b.Tick(b.clock.Now())

		select {
		case <-ctx.Done():
			b.logger.Info("bell stopped", "reason", context.Cause(ctx))
			return nil
		case <-b.clock.After(b.pollInterval):
		}
	}
}

// Tick runs a single poll cycle at now: it rolls the registry over on a new
// calendar day, then rings every due entry that has not rung today, waiting
// for each sound to finish before the next. Failed rings are still recorded
// as rung so a broken device is not retried all minute.
func (b *Bell) Tick(now time.Time) []Ring {
	if b.registry == nil {
		b.registry = NewRegistry(now)
	}

	if b.registry.Rollover(now) {
		b.logger.Debug("new day, registry cleared", "date", now.Format(time.DateOnly))
	}

	var rings []Ring
	for _, ts := range b.schedule.Due(now) {
		if b.registry.HasRung(ts) {
			continue
		}
		rings = append(rings, b.ring(ts, now))
	}
	return rings
}

// SoundCheck opens the output, rings once and closes it again.
func (b *Bell) SoundCheck() error {
	defer b.close()

	if err := b.open(); err != nil {
		return err
	}

	now := b.clock.Now()
	r := b.ring(timespec.Of(now), now)
	return r.Err
}

func (b *Bell) open() error {
	if err := b.output.Init(); err != nil {
		b.logger.Error("failed to initialize audio output", "error", err)
		return &AudioInitError{Op: "init", Err: err}
	}

	if err := b.output.Load(b.soundFile); err != nil {
		b.logger.Error("failed to load sound", "path", b.soundFile, "error", err)
		return &AudioInitError{Op: "load", Path: b.soundFile, Err: err}
	}

	volume := clampVolume(b.volume)
	if err := b.output.SetVolume(volume); err != nil {
		b.logger.Debug("failed to set volume, using device default", "volume", volume, "error", err)
	}
	return nil
}

func (b *Bell) close() {
	if err := b.output.Close(); err != nil {
		b.logger.Warn("failed to close audio output", "error", err)
	}
}

// ring plays the bell once and blocks until the sound ends.
func (b *Bell) ring(ts timespec.TimeSpec, now time.Time) Ring {
	r := Ring{ID: newRingID(now), Spec: ts, At: now}

	b.logger.Info("ringing bell",
		"id", r.ID,
		"scheduled", ts.String(),
		"time", now.Format(time.DateTime),
	)

	done, err := b.output.Play()
	if err != nil {
		r.Err = &PlaybackError{Spec: ts, Err: err}
		b.logger.Warn("failed to play bell", "id", r.ID, "scheduled", ts.String(), "error", err)
	} else if done != nil {
		<-done
	}

	if b.registry != nil {
		b.registry.MarkRung(ts)
	}

	if b.onRing != nil {
		b.onRing(r)
	}
	return r
}

func clampVolume(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func newRingID(at time.Time) string {
	id, err := ulid.New(ulid.Timestamp(at), rand.Reader)
	if err != nil {
		return ""
	}
	return id.String()
}
