package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsNotify = notificationsDest + ".Notify"
)

// caller is the part of dbus.BusObject the notifier needs.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DBusNotifier sends notifications through the session bus. The bus is
// dialled on first use and again after a failed call.
type DBusNotifier struct {
	appName string
	connect func() (*dbus.Conn, error)

	mu     sync.Mutex
	conn   *dbus.Conn
	object caller
}

func NewDBusNotifier(appName string) *DBusNotifier {
	return &DBusNotifier{
		appName: appName,
		connect: func() (*dbus.Conn, error) { return dbus.ConnectSessionBus() },
	}
}

func (d *DBusNotifier) notifications() (caller, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.object != nil {
		return d.object, nil
	}
	conn, err := d.connect()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	d.conn = conn
	d.object = conn.Object(notificationsDest, notificationsPath)
	return d.object, nil
}

func (d *DBusNotifier) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn != nil {
		_ = d.conn.Close()
	}
	d.conn = nil
	d.object = nil
}

// Notify calls org.freedesktop.Notifications.Notify and returns once
// the server has accepted the notification.
func (d *DBusNotifier) Notify(ctx context.Context, n Notification) error {
	obj, err := d.notifications()
	if err != nil {
		return err
	}
	call := obj.CallWithContext(ctx, notificationsNotify, 0,
		d.appName,
		uint32(0),
		"",
		n.Summary,
		n.Body,
		[]string{},
		map[string]dbus.Variant{},
		int32(n.Timeout/time.Millisecond),
	)
	if call.Err != nil {
		d.reset()
		return fmt.Errorf("notify: %w", call.Err)
	}
	return nil
}

func (d *DBusNotifier) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.object = nil
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}
