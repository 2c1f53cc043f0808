// Package api implements the REST client for the AIS backend. One Client
// serves every resource group; narrow interfaces are defined here so that
// the caches and the UI depend only on the calls they make.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/seastream/aiswatch/internal/models"
)

// ErrUnauthorized signals a missing/invalid/expired token. The client's
// unauthorized hook (clearing the local session) has already run when a call
// returns this.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx response from the backend, carrying the server's
// message verbatim for display.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// AuthClient covers login, registration and account settings.
type AuthClient interface {
	Login(ctx context.Context, creds models.Credentials) (models.User, string, error)
	Register(ctx context.Context, creds models.Credentials) (models.User, string, error)
	GetProfile(ctx context.Context) (models.User, error)
	UpdateSettings(ctx context.Context, update models.SettingsUpdate) error
}

// ShipDataClient covers the vessel snapshot and historical track endpoints.
type ShipDataClient interface {
	ActiveShips(ctx context.Context) ([]models.VesselUpdate, error)
	Track(ctx context.Context, mmsi string) ([]models.TrackPoint, error)
}

// FleetClient covers the user's fleet.
type FleetClient interface {
	GetFleet(ctx context.Context) (models.Fleet, error)
	AddShip(ctx context.Context, mmsi string) (models.FleetEntry, error)
	RemoveShip(ctx context.Context, mmsi string) error
	RenameFleet(ctx context.Context, name string) error
}

// ZoneClient covers the single-resource-per-user zone endpoints.
type ZoneClient interface {
	GetZone(ctx context.Context, kind models.ZoneKind) (*models.Zone, error)
	SaveZone(ctx context.Context, zone models.Zone) (models.Zone, error)
	DeleteZone(ctx context.Context, kind models.ZoneKind) error
}

// AdminClient covers the admin console.
type AdminClient interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id int64, role models.Role) error
	DeleteUser(ctx context.Context, id int64) error
	ListShips(ctx context.Context) ([]models.AdminShip, error)
	UpdateShipType(ctx context.Context, mmsi, shipType string) error
}

// StatsClient covers the dashboard counts.
type StatsClient interface {
	Counts(ctx context.Context) (models.Statistics, error)
}

// Client talks to the AIS backend. TokenFunc supplies the current bearer
// token ("" when logged out); OnUnauthorized runs once per 401/403 so the
// owner can clear the session.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokenFunc      func() string
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUnauthorizedHook sets the callback invoked on 401/403 responses.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient creates a backend client. tokenFunc may return "" for
// unauthenticated calls (login/register).
func NewClient(baseURL string, tokenFunc func() string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokenFunc: tokenFunc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorResponse is the backend's error body shape.
type errorResponse struct {
	Message string `json:"message"`
}

// do performs one JSON request/response round trip. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokenFunc(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var errResp errorResponse
		if data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024)); err == nil {
			if json.Unmarshal(data, &errResp) == nil {
				apiErr.Message = errResp.Message
			}
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding %s %s response: %w", method, path, err)
		}
	}
	return nil
}
