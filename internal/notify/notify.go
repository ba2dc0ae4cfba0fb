// Package notify sends desktop notifications about bell events over the
// org.freedesktop.Notifications D-Bus interface.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Danieljenu/bellring/internal/bell"
)

// Level indicates the severity of a notification.
type Level int

const (
	// LevelInfo is for informational messages (low urgency).
	LevelInfo Level = iota
	// LevelWarning is for warnings (normal urgency).
	LevelWarning
	// LevelError is for errors (critical urgency).
	LevelError
)

// Urgency maps the level to a freedesktop urgency byte.
func (l Level) Urgency() byte {
	switch l {
	case LevelInfo:
		return 0
	case LevelError:
		return 2
	default:
		return 1
	}
}

// Icon returns the freedesktop icon name for the level.
func (l Level) Icon() string {
	switch l {
	case LevelInfo:
		return "dialog-information"
	case LevelError:
		return "dialog-error"
	default:
		return "dialog-warning"
	}
}

// Message is a single desktop notification.
type Message struct {
	Summary       string
	Body          string
	Level         Level
	ExpireTimeout time.Duration
}

// Sender delivers messages to the desktop.
type Sender interface {
	Send(msg Message) error
}

// Notifier sends bell notifications, dropping repeats of the same key that
// arrive within the minimum interval.
type Notifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	sender Sender

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	expireTimeout  time.Duration
	now            func() time.Time

	enabled bool
}

// NewNotifier creates a Notifier that delivers through sender.
// A nil sender yields a Notifier that only logs.
func NewNotifier(sender Sender, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{
		logger:         logger,
		sender:         sender,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		expireTimeout:  10 * time.Second,
		now:            time.Now,
		enabled:        sender != nil,
	}
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled && n.sender != nil
}

// SetMinInterval sets the minimum interval between notifications with the same key.
func (n *Notifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// SetExpireTimeout sets how long notifications stay on screen. Zero means
// the notification server decides.
func (n *Notifier) SetExpireTimeout(timeout time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expireTimeout = timeout
}

// Notify sends a notification unless one with the same key went out within
// the minimum interval. It reports whether the notification was sent.
func (n *Notifier) Notify(key, summary, body string, level Level) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.enabled {
		return false
	}

	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.logger.Debug("notification rate-limited", "key", key, "summary", summary)
		return false
	}
	n.lastNotifyTime[key] = now

	msg := Message{
		Summary:       summary,
		Body:          body,
		Level:         level,
		ExpireTimeout: n.expireTimeout,
	}
	if err := n.sender.Send(msg); err != nil {
		n.logger.Warn("failed to send desktop notification", "key", key, "error", err)
		return false
	}

	n.logger.Debug("sent desktop notification", "key", key, "summary", summary, "level", level)
	return true
}

// NotifyRing reports a ring attempt.
func (n *Notifier) NotifyRing(r bell.Ring) {
	key := "ring-" + r.Spec.String()
	if r.Err != nil {
		n.Notify(key, "Bell Failed",
			fmt.Sprintf("Could not ring the %s bell: %v", r.Spec, r.Err),
			LevelWarning)
		return
	}
	n.Notify(key, "Bell",
		fmt.Sprintf("Scheduled bell for %s rang at %s.", r.Spec, r.At.Format(time.TimeOnly)),
		LevelInfo)
}

// NotifyStarted reports that the bell loop is running.
func (n *Notifier) NotifyStarted(schedule string) {
	n.Notify("startup", "Bell Started", "Ringing daily at "+schedule+".", LevelInfo)
}

// NotifyAudioError reports a fatal audio failure.
func (n *Notifier) NotifyAudioError(err error) {
	n.Notify("audio-error", "Bell Audio Error", "The bell cannot ring: "+err.Error(), LevelError)
}
