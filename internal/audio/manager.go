package audio

import (
	"context"
	"log/slog"
	"sync"
)

// Manager owns the player and, optionally, a watcher that reloads the sound
// when its file changes. It satisfies the bell's sound output contract.
type Manager struct {
	mu      sync.Mutex
	logger  *slog.Logger
	player  *Player
	watcher *Watcher

	ctx    context.Context
	watch  bool
	closed bool
}

// NewManager creates a new audio manager. With watch set, the loaded sound
// file is reloaded whenever it changes until ctx is done or Close is called.
func NewManager(ctx context.Context, watch bool, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	player := NewPlayer(logger)

	return &Manager{
		logger:  logger,
		player:  player,
		watcher: NewWatcher(player, logger),
		ctx:     ctx,
		watch:   watch,
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	return m.player.Init()
}

// Load decodes the sound at path and starts watching it if enabled.
func (m *Manager) Load(path string) error {
	if err := m.player.Load(path); err != nil {
		return err
	}

	if m.watch {
		if err := m.watcher.Start(m.ctx); err != nil {
			// Playback still works without reloads.
			m.logger.Warn("failed to watch sound file", "path", m.player.Path(), "error", err)
		}
	}
	return nil
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (m *Manager) SetVolume(volume float64) error {
	return m.player.SetVolume(volume)
}

// Play starts the sound; the channel closes when it ends.
func (m *Manager) Play() (<-chan struct{}, error) {
	return m.player.Play()
}

// Busy reports whether a sound is playing.
func (m *Manager) Busy() bool {
	return m.player.Busy()
}

// Watcher returns the sound file watcher.
func (m *Manager) Watcher() *Watcher {
	return m.watcher
}

// Close stops the watcher and releases the speaker. Only the first call has any effect.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	m.watcher.Stop()
	err := m.player.Close()
	m.logger.Debug("audio manager stopped")
	return err
}
