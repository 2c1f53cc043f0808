package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seastream/aiswatch/internal/models"
)

func TestBufferLifecycle(t *testing.T) {
	b := NewBuffer()
	assert.Zero(t, b.Unread())
	assert.Zero(t, b.Len())

	b.Add(models.NewNotification(models.NotifyViolation, "Speed limit", "ALPHA above 15 kn"))
	b.Add(models.NewNotification(models.NotifyCollision, "Collision risk", "ALPHA / BRAVO"))

	assert.Equal(t, 2, b.Unread())
	entries := b.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Collision risk", entries[0].Title, "newest first")
	assert.Equal(t, "Speed limit", entries[1].Title)

	b.MarkAllRead()
	assert.Zero(t, b.Unread())
	assert.Equal(t, 2, b.Len(), "mark-all-read keeps the entries")

	b.Clear()
	assert.Zero(t, b.Unread())
	assert.Zero(t, b.Len())
	assert.Empty(t, b.All())
}

func TestBufferNoDeduplication(t *testing.T) {
	b := NewBuffer()
	for range 3 {
		b.Add(models.NewNotification(models.NotifyWarning, "Zone entry", "same alert"))
	}
	assert.Equal(t, 3, b.Len(), "identical alerts produce repeated entries")

	entries := b.All()
	assert.NotEqual(t, entries[0].ID, entries[1].ID, "each entry gets its own ID")
}

func TestAllReturnsCopy(t *testing.T) {
	b := NewBuffer()
	b.Add(models.NewNotification(models.NotifyInfo, "one", ""))

	entries := b.All()
	entries[0].Title = "mutated"
	assert.Equal(t, "one", b.All()[0].Title)
}
