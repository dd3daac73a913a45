//go:build linux

package notify

import (
	"os"
	"testing"
)

func TestNewWithoutSessionBus(t *testing.T) {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") != "" {
		t.Skip("D-Bus session present, fallback path not reachable")
	}

	n, err := New()
	if err != nil {
		t.Fatalf("New() error: %v, want graceful fallback", err)
	}
	if n == nil {
		t.Fatal("New() returned nil notifier")
	}
}

func TestNotifySendsNotification(t *testing.T) {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		t.Skip("no D-Bus session available")
	}

	n, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	id, err := n.Notify(Notification{
		Title:   "DarkPlay Test",
		Body:    "Test notification from unit test",
		Timeout: 1000,
		Urgency: UrgencyLow,
	})
	if err != nil {
		t.Fatalf("Notify() error: %v", err)
	}
	if id != 0 {
		_ = n.Close(id)
	}
}
