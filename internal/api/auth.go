package api

import (
	"context"
	"net/http"

	"github.com/seastream/aiswatch/internal/models"
)

// authResponse is the login/register response: a token plus the profile.
type authResponse struct {
	Token string      `json:"token"`
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func (r authResponse) user() models.User {
	return models.User{ID: r.ID, Email: r.Email, Role: r.Role}
}

// Login exchanges credentials for a bearer token and profile.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.User, string, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &resp); err != nil {
		return models.User{}, "", err
	}
	return resp.user(), resp.Token, nil
}

// Register creates an account and logs straight in.
func (c *Client) Register(ctx context.Context, creds models.Credentials) (models.User, string, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", creds, &resp); err != nil {
		return models.User{}, "", err
	}
	return resp.user(), resp.Token, nil
}

// GetProfile fetches the current user's profile.
func (c *Client) GetProfile(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateSettings changes the account email and optionally the password.
func (c *Client) UpdateSettings(ctx context.Context, update models.SettingsUpdate) error {
	return c.do(ctx, http.MethodPut, "/api/users/me/settings", update, nil)
}
