package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind categorizes an entry in the notification buffer.
type NotificationKind string

const (
	NotifyInfo      NotificationKind = "info"
	NotifyWarning   NotificationKind = "warning"
	NotifyViolation NotificationKind = "violation"
	NotifyCollision NotificationKind = "collision"
	NotifyError     NotificationKind = "error"
)

// Notification is one entry in the client-side alert log. IDs are
// client-generated; the backend never sees them.
type Notification struct {
	ID        string
	Kind      NotificationKind
	Title     string
	Body      string
	CreatedAt time.Time
}

// NewNotification builds a notification with a fresh ID and timestamp.
func NewNotification(kind NotificationKind, title, body string) Notification {
	return Notification{
		ID:        uuid.New().String(),
		Kind:      kind,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
}
