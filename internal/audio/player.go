package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the speaker rate. Sounds at other rates are resampled.
const DefaultSampleRate = beep.SampleRate(44100)

var (
	ErrNotInitialized = errors.New("speaker not initialized")
	ErrNoSound        = errors.New("no sound loaded")
)

// Player plays a single preloaded sound on the system speaker.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	// Volume control (0.0 to 1.0)
	volume float64

	initialized bool
	sampleRate  beep.SampleRate

	// Currently loaded sound
	path   string
	buffer *beep.Buffer

	busy atomic.Bool
}

// NewPlayer creates a new audio player.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}

	return &Player{
		logger:     logger,
		volume:     1.0,
		sampleRate: DefaultSampleRate,
	}
}

// Init opens the speaker. Calling it again is a no-op.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	// Use a reasonable buffer size for low latency
	bufferSize := p.sampleRate.N(100 * time.Millisecond)

	if err := speaker.Init(p.sampleRate, bufferSize); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	p.initialized = true
	p.logger.Debug("speaker initialized", "sample_rate", p.sampleRate)
	return nil
}

// Load decodes the sound file at path into memory, replacing any sound
// loaded before. Supports WAV, OGG and MP3.
func (p *Player) Load(path string) error {
	path = expandPath(path)

	buffer, err := decodeFile(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.path = path
	p.buffer = buffer
	p.mu.Unlock()

	p.logger.Debug("loaded sound", "path", path, "samples", buffer.Len())
	return nil
}

// Reload decodes the current sound file again.
func (p *Player) Reload() error {
	p.mu.Lock()
	path := p.path
	p.mu.Unlock()

	if path == "" {
		return ErrNoSound
	}
	return p.Load(path)
}

// Path returns the path of the loaded sound, or "" if none.
func (p *Player) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// SetVolume sets the playback volume, clamped to [0,1].
func (p *Player) SetVolume(volume float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if volume < 0 || math.IsNaN(volume) {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	p.volume = volume
	p.logger.Debug("volume set", "volume", volume)
	return nil
}

// Volume returns the current volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Play starts the loaded sound. The returned channel is closed when the
// sound has been fully played.
func (p *Player) Play() (<-chan struct{}, error) {
	p.mu.Lock()
	initialized := p.initialized
	buffer := p.buffer
	volume := p.volume
	sampleRate := p.sampleRate
	p.mu.Unlock()

	if !initialized {
		return nil, ErrNotInitialized
	}
	if buffer == nil {
		return nil, ErrNoSound
	}

	done := make(chan struct{})
	p.busy.Store(true)
	speaker.Play(beep.Seq(
		streamerFor(buffer, sampleRate, volume),
		beep.Callback(func() {
			p.busy.Store(false)
			close(done)
		}),
	))

	return done, nil
}

// Busy reports whether a sound is playing.
func (p *Player) Busy() bool {
	return p.busy.Load()
}

// Close stops playback and releases the speaker. It is safe to call more than once.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
	p.buffer = nil
	p.busy.Store(false)

	p.logger.Debug("audio player closed")
	return nil
}

// streamerFor builds a streamer over buffer at the speaker rate and volume.
func streamerFor(buffer *beep.Buffer, sampleRate beep.SampleRate, volume float64) beep.Streamer {
	var streamer beep.Streamer = buffer.Streamer(0, buffer.Len())

	if buffer.Format().SampleRate != sampleRate {
		streamer = beep.Resample(4, buffer.Format().SampleRate, sampleRate, streamer)
	}

	if volume < 1.0 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   volumeExponent(volume),
			Silent:   volume <= 0,
		}
	}
	return streamer
}

// decodeFile loads and decodes a sound file into a buffer.
func decodeFile(path string) (*beep.Buffer, error) {
	if path == "" {
		return nil, ErrNoSound
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported audio format: %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	return buffer, nil
}

// volumeExponent converts a linear volume (0-1) to a base-2 gain exponent
// for effects.Volume: 0.5 = -1, 0.25 = -2.
func volumeExponent(volume float64) float64 {
	if volume <= 0 {
		return -10
	}
	return math.Log2(volume)
}

// expandPath expands ~ to the home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
