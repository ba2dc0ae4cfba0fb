package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// D-Bus notification constants.
const (
	BusName      = "org.freedesktop.Notifications"
	ObjectPath   = "/org/freedesktop/Notifications"
	NotifyMethod = BusName + ".Notify"
)

// BusSender sends notifications to the session's notification server.
type BusSender struct {
	conn    *dbus.Conn
	appName string
}

// NewBusSender connects to the session bus.
func NewBusSender(appName string) (*BusSender, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &BusSender{conn: conn, appName: appName}, nil
}

// Send calls Notify on the notification server.
func (s *BusSender) Send(msg Message) error {
	obj := s.conn.Object(BusName, dbus.ObjectPath(ObjectPath))

	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(msg.Level.Urgency()),
		"category":      dbus.MakeVariant("device"),
		"transient":     dbus.MakeVariant(true),
		"desktop-entry": dbus.MakeVariant(s.appName),
	}

	// -1 lets the server pick the timeout
	expire := int32(-1)
	if msg.ExpireTimeout > 0 {
		expire = int32(msg.ExpireTimeout.Milliseconds())
	}

	var id uint32
	err := obj.Call(NotifyMethod, 0,
		s.appName,
		uint32(0), // replaces_id
		msg.Level.Icon(),
		msg.Summary,
		msg.Body,
		[]string{}, // actions
		hints,
		expire,
	).Store(&id)
	if err != nil {
		return fmt.Errorf("notify call failed: %w", err)
	}
	return nil
}

// Close closes the bus connection.
func (s *BusSender) Close() error {
	return s.conn.Close()
}
