package bell

import (
	"errors"
	"fmt"

	"github.com/Danieljenu/bellring/internal/timespec"
)

// SoundOutput is the audio device the bell rings through.
type SoundOutput interface {
	// Init opens the device.
	Init() error
	// Load prepares the sound at path for playback.
	Load(path string) error
	// SetVolume sets playback volume in [0,1].
	SetVolume(volume float64) error
	// Play starts the loaded sound and returns a channel that is closed
	// once playback has finished.
	Play() (<-chan struct{}, error)
	// Close releases the device.
	Close() error
}

// ErrEmptySchedule is returned by Run when there is nothing to ring.
var ErrEmptySchedule = errors.New("no valid times in schedule")

// AudioInitError reports that the sound output could not be opened or the
// sound could not be loaded. It is fatal for a run.
type AudioInitError struct {
	Op   string // "init" or "load"
	Path string
	Err  error
}

func (e *AudioInitError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("audio %s %q: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("audio %s: %v", e.Op, e.Err)
}

func (e *AudioInitError) Unwrap() error { return e.Err }

// PlaybackError reports a failed ring. The loop carries on after one.
type PlaybackError struct {
	Spec timespec.TimeSpec
	Err  error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playing bell for %s: %v", e.Spec, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }
