// Package zones caches the user's zone of interest and collision zone. The
// backend enforces at-most-one-per-kind; every mutation here is pessimistic
// because the client cannot assume that invariant locally.
package zones

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/seastream/aiswatch/internal/api"
	"github.com/seastream/aiswatch/internal/models"
)

// ErrZoneExists is returned when a create flow starts while a zone of that
// kind is already defined.
var ErrZoneExists = errors.New("a zone of this kind already exists")

// Cache holds at most one zone per kind, synchronized with the backend.
type Cache struct {
	client api.ZoneClient
	logger zerolog.Logger

	mu    sync.Mutex
	zones map[models.ZoneKind]*models.Zone
}

// NewCache creates an empty zone cache around the given client.
func NewCache(client api.ZoneClient, logger zerolog.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger.With().Str("component", "zones").Logger(),
		zones:  make(map[models.ZoneKind]*models.Zone),
	}
}

// Refresh fetches both zone kinds. A missing zone is not an error.
func (c *Cache) Refresh(ctx context.Context) error {
	for _, kind := range []models.ZoneKind{models.ZoneInterest, models.ZoneCollision} {
		zone, err := c.client.GetZone(ctx, kind)
		if err != nil {
			return fmt.Errorf("refreshing %s zone: %w", kind, err)
		}
		c.mu.Lock()
		if zone == nil {
			delete(c.zones, kind)
		} else {
			c.zones[kind] = zone
		}
		c.mu.Unlock()
	}
	return nil
}

// Get returns the cached zone of a kind, or nil.
func (c *Cache) Get(kind models.ZoneKind) *models.Zone {
	c.mu.Lock()
	defer c.mu.Unlock()
	if z := c.zones[kind]; z != nil {
		copied := *z
		return &copied
	}
	return nil
}

// Create saves a brand new zone. It refuses locally when the cache already
// holds a zone of that kind; the server would reject it anyway.
func (c *Cache) Create(ctx context.Context, zone models.Zone) (models.Zone, error) {
	c.mu.Lock()
	_, exists := c.zones[zone.Kind]
	c.mu.Unlock()
	if exists {
		return models.Zone{}, ErrZoneExists
	}
	return c.save(ctx, zone)
}

// Update replaces the existing zone definition wholesale.
func (c *Cache) Update(ctx context.Context, zone models.Zone) (models.Zone, error) {
	return c.save(ctx, zone)
}

func (c *Cache) save(ctx context.Context, zone models.Zone) (models.Zone, error) {
	saved, err := c.client.SaveZone(ctx, zone)
	if err != nil {
		return models.Zone{}, fmt.Errorf("saving %s zone: %w", zone.Kind, err)
	}

	c.mu.Lock()
	c.zones[saved.Kind] = &saved
	c.mu.Unlock()
	return saved, nil
}

// Delete removes the zone of a kind, server first.
func (c *Cache) Delete(ctx context.Context, kind models.ZoneKind) error {
	if err := c.client.DeleteZone(ctx, kind); err != nil {
		return fmt.Errorf("deleting %s zone: %w", kind, err)
	}

	c.mu.Lock()
	delete(c.zones, kind)
	c.mu.Unlock()
	return nil
}
