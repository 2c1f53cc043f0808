// Package fleet caches the user's bookmarked vessels and keeps them in sync
// with the backend and the live stream.
package fleet

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/seastream/aiswatch/internal/api"
	"github.com/seastream/aiswatch/internal/models"
)

// Cache mirrors the server-side fleet. Additions are pessimistic (the server
// confirms before local state changes); removals apply locally first and are
// rolled back if the server refuses.
type Cache struct {
	client api.FleetClient
	logger zerolog.Logger

	mu    sync.Mutex
	name  string
	ships map[string]models.FleetEntry
}

// NewCache creates an empty fleet cache around the given client.
func NewCache(client api.FleetClient, logger zerolog.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger.With().Str("component", "fleet").Logger(),
		ships:  make(map[string]models.FleetEntry),
	}
}

// Refresh replaces the local mirror with the server's fleet. On failure the
// previous mirror is kept.
func (c *Cache) Refresh(ctx context.Context) error {
	fleet, err := c.client.GetFleet(ctx)
	if err != nil {
		return fmt.Errorf("refreshing fleet: %w", err)
	}

	ships := make(map[string]models.FleetEntry, len(fleet.Ships))
	for _, s := range fleet.Ships {
		if s.MMSI == "" {
			continue
		}
		ships[s.MMSI] = s
	}

	c.mu.Lock()
	c.name = fleet.Name
	c.ships = ships
	c.mu.Unlock()
	return nil
}

// Add bookmarks a vessel. The local mirror changes only after the server
// confirms.
func (c *Cache) Add(ctx context.Context, mmsi string) (models.FleetEntry, error) {
	entry, err := c.client.AddShip(ctx, mmsi)
	if err != nil {
		return models.FleetEntry{}, fmt.Errorf("adding %s to fleet: %w", mmsi, err)
	}

	c.mu.Lock()
	c.ships[entry.MMSI] = entry
	c.mu.Unlock()
	return entry, nil
}

// Remove drops a vessel from the visible set immediately, then confirms with
// the server; a refusal restores the entry.
func (c *Cache) Remove(ctx context.Context, mmsi string) error {
	c.mu.Lock()
	removed, ok := c.ships[mmsi]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("vessel %s is not in the fleet", mmsi)
	}
	delete(c.ships, mmsi)
	c.mu.Unlock()

	if err := c.client.RemoveShip(ctx, mmsi); err != nil {
		c.mu.Lock()
		c.ships[mmsi] = removed
		c.mu.Unlock()
		c.logger.Warn().Err(err).Str("mmsi", mmsi).Msg("removal refused, entry restored")
		return fmt.Errorf("removing %s from fleet: %w", mmsi, err)
	}
	return nil
}

// Rename updates the fleet's display name, server first.
func (c *Cache) Rename(ctx context.Context, name string) error {
	if err := c.client.RenameFleet(ctx, name); err != nil {
		return fmt.Errorf("renaming fleet: %w", err)
	}
	c.mu.Lock()
	c.name = name
	c.mu.Unlock()
	return nil
}

// ApplyUpdate refreshes a cached entry's kinematic fields from a live
// update. Updates for vessels outside the fleet are ignored.
func (c *Cache) ApplyUpdate(u models.VesselUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.ships[u.MMSI]
	if !ok {
		return
	}
	entry.ApplyUpdate(u)
	c.ships[u.MMSI] = entry
}

// Contains reports whether a vessel is bookmarked.
func (c *Cache) Contains(mmsi string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.ships[mmsi]
	return ok
}

// Name returns the fleet's display name.
func (c *Cache) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// Entries returns the fleet sorted by name, then MMSI.
func (c *Cache) Entries() []models.FleetEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.FleetEntry, 0, len(c.ships))
	for _, s := range c.ships {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].MMSI < out[j].MMSI
	})
	return out
}
