package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/seastream/aiswatch/internal/api"
	"github.com/seastream/aiswatch/internal/fleet"
	"github.com/seastream/aiswatch/internal/models"
	"github.com/seastream/aiswatch/internal/realtime"
	"github.com/seastream/aiswatch/internal/session"
	"github.com/seastream/aiswatch/internal/zones"
)

// Message types for async operations

// authMsg is sent when login or registration completes.
type authMsg struct {
	user  models.User
	token string
	err   error
}

// sessionRestoredMsg carries the session persisted by a previous run.
type sessionRestoredMsg struct {
	sess session.Session
}

// snapshotMsg is sent when the bulk vessel snapshot has been fetched.
type snapshotMsg struct {
	ships []models.VesselUpdate
	err   error
}

// trackMsg is sent when a historical track fetch resolves. gen identifies
// the tracking session the fetch was started for.
type trackMsg struct {
	gen    uint64
	points []models.TrackPoint
	err    error
}

// fleetRefreshedMsg is sent when the fleet cache has been reloaded.
type fleetRefreshedMsg struct {
	err error
}

// fleetAddedMsg is sent when an add-to-fleet call completes.
type fleetAddedMsg struct {
	entry models.FleetEntry
	err   error
}

// fleetRemovedMsg is sent when a remove-from-fleet call completes.
type fleetRemovedMsg struct {
	mmsi string
	err  error
}

// zonesRefreshedMsg is sent when both zone kinds have been reloaded.
type zonesRefreshedMsg struct {
	err error
}

// zoneSavedMsg is sent when a zone create/update completes.
type zoneSavedMsg struct {
	zone models.Zone
	err  error
}

// zoneDeletedMsg is sent when a zone delete completes.
type zoneDeletedMsg struct {
	kind models.ZoneKind
	err  error
}

// statsMsg is sent when the dashboard counts have been fetched.
type statsMsg struct {
	stats models.Statistics
	err   error
}

// settingsSavedMsg is sent when an account settings update completes.
type settingsSavedMsg struct {
	err error
}

// adminUsersMsg is sent when the admin user list has been fetched.
type adminUsersMsg struct {
	users []models.User
	err   error
}

// adminShipsMsg is sent when the admin ship list has been fetched.
type adminShipsMsg struct {
	ships []models.AdminShip
	err   error
}

// adminActionMsg is sent when a role change, user delete or ship type
// update completes.
type adminActionMsg struct {
	err error
}

// realtimeMsg wraps one transport event.
type realtimeMsg struct {
	event realtime.Event
}

// errMsg is a message type for errors
type errMsg struct {
	err error
}

const requestTimeout = 30 * time.Second

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// login authenticates in the background.
func login(client api.AuthClient, creds models.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		user, token, err := client.Login(ctx, creds)
		return authMsg{user: user, token: token, err: err}
	}
}

// register creates an account in the background.
func register(client api.AuthClient, creds models.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		user, token, err := client.Register(ctx, creds)
		return authMsg{user: user, token: token, err: err}
	}
}

// restoreSession re-reads the persisted session for Update to apply.
func restoreSession(store *session.Store) tea.Cmd {
	return func() tea.Msg {
		sess, err := store.Current()
		if err != nil {
			return nil
		}
		return sessionRestoredMsg{sess: sess}
	}
}

// fetchSnapshot loads the bulk vessel snapshot.
func fetchSnapshot(client api.ShipDataClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		ships, err := client.ActiveShips(ctx)
		return snapshotMsg{ships: ships, err: err}
	}
}

// fetchTrack loads the historical track for a tracking session.
func fetchTrack(client api.ShipDataClient, mmsi string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		points, err := client.Track(ctx, mmsi)
		return trackMsg{gen: gen, points: points, err: err}
	}
}

// refreshFleet reloads the fleet cache.
func refreshFleet(cache *fleet.Cache) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return fleetRefreshedMsg{err: cache.Refresh(ctx)}
	}
}

// addToFleet bookmarks a vessel.
func addToFleet(cache *fleet.Cache, mmsi string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		entry, err := cache.Add(ctx, mmsi)
		return fleetAddedMsg{entry: entry, err: err}
	}
}

// removeFromFleet removes a vessel from the fleet.
func removeFromFleet(cache *fleet.Cache, mmsi string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return fleetRemovedMsg{mmsi: mmsi, err: cache.Remove(ctx, mmsi)}
	}
}

// refreshZones reloads both zone kinds.
func refreshZones(cache *zones.Cache) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return zonesRefreshedMsg{err: cache.Refresh(ctx)}
	}
}

// saveZone creates or updates a zone.
func saveZone(cache *zones.Cache, zone models.Zone, create bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		var saved models.Zone
		var err error
		if create {
			saved, err = cache.Create(ctx, zone)
		} else {
			saved, err = cache.Update(ctx, zone)
		}
		return zoneSavedMsg{zone: saved, err: err}
	}
}

// deleteZone removes a zone.
func deleteZone(cache *zones.Cache, kind models.ZoneKind) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return zoneDeletedMsg{kind: kind, err: cache.Delete(ctx, kind)}
	}
}

// fetchStats loads the dashboard counts.
func fetchStats(client api.StatsClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		stats, err := client.Counts(ctx)
		return statsMsg{stats: stats, err: err}
	}
}

// saveSettings updates the account settings.
func saveSettings(client api.AuthClient, update models.SettingsUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return settingsSavedMsg{err: client.UpdateSettings(ctx, update)}
	}
}

// fetchAdminUsers loads the user list for the admin console.
func fetchAdminUsers(client api.AdminClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		users, err := client.ListUsers(ctx)
		return adminUsersMsg{users: users, err: err}
	}
}

// fetchAdminShips loads the ship list for the admin console.
func fetchAdminShips(client api.AdminClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		ships, err := client.ListShips(ctx)
		return adminShipsMsg{ships: ships, err: err}
	}
}

// updateUserRole changes a user's role.
func updateUserRole(client api.AdminClient, id int64, role models.Role) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return adminActionMsg{err: client.UpdateUserRole(ctx, id, role)}
	}
}

// deleteUser removes a user account.
func deleteUser(client api.AdminClient, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return adminActionMsg{err: client.DeleteUser(ctx, id)}
	}
}

// updateShipType overrides a vessel's type.
func updateShipType(client api.AdminClient, mmsi, shipType string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return adminActionMsg{err: client.UpdateShipType(ctx, mmsi, shipType)}
	}
}

// waitForRealtime pumps one event off the transport channel. The handler
// re-issues it after every event, keeping exactly one pump in flight; logout
// closes the channel, which ends the pump.
func waitForRealtime(t *realtime.Transport) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-t.Events()
		if !ok {
			return nil
		}
		return realtimeMsg{event: ev}
	}
}
