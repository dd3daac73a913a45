// Package notify sends desktop notifications over D-Bus, used for
// now-playing toasts when the track changes.
package notify

// Urgency represents notification priority levels per the
// freedesktop notification spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // summary text (required)
	Body       string  // body text (optional, supports basic markup)
	Icon       string  // path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID. Returns 0 and
	// nil error when notifications are unavailable.
	Notify(n Notification) (uint32, error)
	// Close dismisses a notification by ID.
	Close(id uint32) error
}
