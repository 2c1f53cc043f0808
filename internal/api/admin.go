package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/seastream/aiswatch/internal/models"
)

// ListUsers lists all registered users (admin only).
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserRole changes a user's role (admin only).
func (c *Client) UpdateUserRole(ctx context.Context, id int64, role models.Role) error {
	body := struct {
		Role models.Role `json:"role"`
	}{Role: role}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), body, nil)
}

// DeleteUser removes a user account (admin only).
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil)
}

// ListShips lists all known vessels for ship management (admin only).
func (c *Client) ListShips(ctx context.Context) ([]models.AdminShip, error) {
	var ships []models.AdminShip
	if err := c.do(ctx, http.MethodGet, "/api/admin/ships", nil, &ships); err != nil {
		return nil, err
	}
	return ships, nil
}

// UpdateShipType overrides a vessel's reported type (admin only).
func (c *Client) UpdateShipType(ctx context.Context, mmsi, shipType string) error {
	body := struct {
		ShipType string `json:"shipType"`
	}{ShipType: shipType}
	path := "/api/admin/ships/" + url.PathEscape(mmsi) + "/type"
	return c.do(ctx, http.MethodPut, path, body, nil)
}
