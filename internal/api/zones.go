package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/seastream/aiswatch/internal/models"
)

func zonePath(kind models.ZoneKind) string {
	if kind == models.ZoneCollision {
		return "/api/zones/collision/mine"
	}
	return "/api/zones/interest/mine"
}

// GetZone fetches the user's zone of the given kind. Returns (nil, nil) when
// none is defined.
func (c *Client) GetZone(ctx context.Context, kind models.ZoneKind) (*models.Zone, error) {
	var zone models.Zone
	err := c.do(ctx, http.MethodGet, zonePath(kind), nil, &zone)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	zone.Kind = kind
	return &zone, nil
}

// SaveZone creates or replaces the user's zone of the given kind and returns
// the stored definition.
func (c *Client) SaveZone(ctx context.Context, zone models.Zone) (models.Zone, error) {
	if err := zone.Validate(); err != nil {
		return models.Zone{}, err
	}
	var saved models.Zone
	if err := c.do(ctx, http.MethodPut, zonePath(zone.Kind), zone, &saved); err != nil {
		return models.Zone{}, err
	}
	saved.Kind = zone.Kind
	return saved, nil
}

// DeleteZone removes the user's zone of the given kind.
func (c *Client) DeleteZone(ctx context.Context, kind models.ZoneKind) error {
	return c.do(ctx, http.MethodDelete, zonePath(kind), nil, nil)
}
