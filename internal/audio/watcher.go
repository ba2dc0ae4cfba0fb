package audio

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Reloader is implemented by players that can re-read their sound file.
type Reloader interface {
	Path() string
	Reload() error
}

// Watcher reloads the bell sound when its file changes on disk.
type Watcher struct {
	mu     sync.Mutex
	logger *slog.Logger
	player Reloader

	watcher *fsnotify.Watcher

	// Callback after each reload attempt
	onReload func(path string, err error)

	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a new sound file watcher for player.
func NewWatcher(player Reloader, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		logger: logger,
		player: player,
	}
}

// SetReloadCallback sets a function called after every reload attempt.
func (w *Watcher) SetReloadCallback(callback func(path string, err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = callback
}

// Start begins watching the player's current sound file.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory containing the file (more reliable for editors
	// that replace files on save)
	path := w.player.Path()
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return err
	}

	w.watcher = fw
	w.doneCh = make(chan struct{})
	w.running = true

	go w.watchLoop(ctx, fw, path, w.doneCh)

	w.logger.Debug("sound watcher started", "path", path)
	return nil
}

// Stop stops watching and waits for the watch loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	fw, done := w.watcher, w.doneCh
	w.mu.Unlock()

	_ = fw.Close()
	<-done
	w.logger.Debug("sound watcher stopped")
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context, fw *fsnotify.Watcher, path string, done chan struct{}) {
	defer close(done)

	filename := filepath.Base(path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload(path)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("sound watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload(path string) {
	err := w.player.Reload()
	if err != nil {
		// Partially written files fail to decode; the next write event retries.
		w.logger.Debug("failed to reload sound", "path", path, "error", err)
	} else {
		w.logger.Info("sound file changed, reloaded", "path", path)
	}

	w.mu.Lock()
	callback := w.onReload
	w.mu.Unlock()

	if callback != nil {
		callback(path, err)
	}
}
