// Package notify is the client-side alert log: an insertion-ordered list
// with a separately tracked unread counter.
package notify

import (
	"sync"

	"github.com/seastream/aiswatch/internal/models"
)

// Buffer holds notifications newest-first. There is no deduplication:
// repeated identical alerts from the backend produce repeated entries.
type Buffer struct {
	mu      sync.Mutex
	entries []models.Notification
	unread  int
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Add prepends a notification and bumps the unread counter.
func (b *Buffer) Add(n models.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append([]models.Notification{n}, b.entries...)
	b.unread++
}

// All returns the notifications, newest first.
func (b *Buffer) All() []models.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Notification, len(b.entries))
	copy(out, b.entries)
	return out
}

// Unread returns the number of notifications added since the last
// MarkAllRead.
func (b *Buffer) Unread() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unread
}

// Len returns the number of stored notifications.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// MarkAllRead zeroes the unread counter without touching the entries.
func (b *Buffer) MarkAllRead() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unread = 0
}

// Clear empties the list and zeroes the counter.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
	b.unread = 0
}
