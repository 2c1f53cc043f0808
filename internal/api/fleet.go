package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/seastream/aiswatch/internal/models"
)

// GetFleet fetches the user's fleet with all cached ship details.
func (c *Client) GetFleet(ctx context.Context) (models.Fleet, error) {
	var fleet models.Fleet
	if err := c.do(ctx, http.MethodGet, "/api/fleet/mine", nil, &fleet); err != nil {
		return models.Fleet{}, err
	}
	return fleet, nil
}

// AddShip bookmarks a vessel and returns the server's detail record for it.
func (c *Client) AddShip(ctx context.Context, mmsi string) (models.FleetEntry, error) {
	var entry models.FleetEntry
	path := "/api/fleet/mine/ships/" + url.PathEscape(mmsi)
	if err := c.do(ctx, http.MethodPost, path, nil, &entry); err != nil {
		return models.FleetEntry{}, err
	}
	return entry, nil
}

// RemoveShip removes a vessel from the fleet.
func (c *Client) RemoveShip(ctx context.Context, mmsi string) error {
	path := "/api/fleet/mine/ships/" + url.PathEscape(mmsi)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// RenameFleet updates the fleet's display name.
func (c *Client) RenameFleet(ctx context.Context, name string) error {
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	return c.do(ctx, http.MethodPut, "/api/fleet/mine", body, nil)
}
