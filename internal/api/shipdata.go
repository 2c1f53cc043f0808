package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/seastream/aiswatch/internal/models"
)

// ActiveShips fetches the bulk vessel snapshot. Entries without an MMSI are
// dropped rather than failing the whole load.
func (c *Client) ActiveShips(ctx context.Context) ([]models.VesselUpdate, error) {
	var raw []models.VesselUpdate
	if err := c.do(ctx, http.MethodGet, "/api/ship-data/active-ships", nil, &raw); err != nil {
		return nil, err
	}

	ships := raw[:0]
	for _, v := range raw {
		if v.Validate() == nil {
			ships = append(ships, v)
		}
	}
	return ships, nil
}

// Track fetches the historical track for one vessel over the server's fixed
// 12-hour look-back window.
func (c *Client) Track(ctx context.Context, mmsi string) ([]models.TrackPoint, error) {
	if mmsi == "" {
		return nil, fmt.Errorf("track: %w", models.ErrMissingMMSI)
	}
	var points []models.TrackPoint
	path := "/api/ship-data/track/" + url.PathEscape(mmsi)
	if err := c.do(ctx, http.MethodGet, path, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}
