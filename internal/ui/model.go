package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/seastream/aiswatch/internal/api"
	"github.com/seastream/aiswatch/internal/chart"
	"github.com/seastream/aiswatch/internal/config"
	"github.com/seastream/aiswatch/internal/fleet"
	"github.com/seastream/aiswatch/internal/models"
	"github.com/seastream/aiswatch/internal/notify"
	"github.com/seastream/aiswatch/internal/realtime"
	"github.com/seastream/aiswatch/internal/session"
	"github.com/seastream/aiswatch/internal/state"
	"github.com/seastream/aiswatch/internal/zones"
)

// AppState represents the current state of the application
type AppState int

const (
	StateLogin     AppState = iota // Email/password form
	StateLoading                   // Fetching the initial snapshot
	StateDashboard                 // Live chart and side panes
	StateError                     // Unrecoverable load failure
)

// ActivePane represents which side pane is currently shown
type ActivePane int

const (
	PaneVessels ActivePane = iota
	PaneFleet
	PaneZones
	PaneNotifications
	PaneAdmin
	PaneSettings
)

// Services bundles everything the UI drives. Wired once in main.
type Services struct {
	Config        config.Config
	Logger        zerolog.Logger
	API           *api.Client
	Session       *session.Store
	Vessels       *state.Index
	Fleet         *fleet.Cache
	Zones         *zones.Cache
	Notifications *notify.Buffer
	Transport     *realtime.Transport
	Coast         []chart.Polyline
}

// Model represents the application's state
type Model struct {
	svc    Services
	state  AppState
	pane   ActivePane
	width  int
	height int
	err    error

	user      models.User
	connected bool
	stats     models.Statistics

	// Login form
	loginForm loginForm
	spinner   spinner.Model

	// Dashboard
	renderer    *chart.Renderer
	vesselTable table.Model
	filterInput textinput.Model
	filtering   bool
	fleetOnly   bool
	status      string // one-line toast, cleared on the next key

	// Fleet pane
	fleetTable  table.Model
	renameInput textinput.Model
	renaming    bool

	// Zone editing
	zoneForm *zoneForm

	// Settings
	settingsForm *settingsForm

	// Admin console
	adminUsers    table.Model
	adminShips    table.Model
	adminShipsTab bool
	shipTypeInput textinput.Model
	editingType   bool
	adminUserRows []models.User
	adminShipRows []models.AdminShip
}

// NewModel creates the application model around its wired services.
func NewModel(svc Services) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	fi := textinput.New()
	fi.Placeholder = "filter by mmsi or ship type..."
	fi.CharLimit = 40
	fi.Width = 30

	ri := textinput.New()
	ri.Placeholder = "fleet name"
	ri.CharLimit = 60
	ri.Width = 30

	ti := textinput.New()
	ti.Placeholder = "ship type"
	ti.CharLimit = 40
	ti.Width = 24

	m := Model{
		svc:           svc,
		state:         StateLogin,
		pane:          PaneVessels,
		loginForm:     newLoginForm(),
		spinner:       s,
		filterInput:   fi,
		renameInput:   ri,
		shipTypeInput: ti,
		vesselTable:   newVesselTable(),
		fleetTable:    newFleetTable(),
		adminUsers:    newAdminUserTable(),
		adminShips:    newAdminShipTable(),
	}
	m.renderer = chart.NewRenderer(60, 20, chart.Viewport{
		CenterLat: 53.5,
		CenterLon: 5.0,
		SpanLat:   8.0,
	})
	m.renderer.SetCoastline(svc.Coast)

	return m
}

// Init initializes the application. Init runs on a copy of the model, so a
// persisted session comes back as a message and is applied in Update.
func (m Model) Init() tea.Cmd {
	if _, err := m.svc.Session.Current(); err == nil {
		return restoreSession(m.svc.Session)
	}
	return textinput.Blink
}

// startSession connects the stream and kicks off every initial fetch. The
// snapshot result moves the UI out of StateLoading.
func (m *Model) startSession(token string) tea.Cmd {
	m.svc.Transport.Connect(token)
	m.svc.Transport.Subscribe(realtime.TopicVesselUpdates)
	m.svc.Transport.Subscribe(realtime.TopicZoneViolations)
	m.svc.Transport.Subscribe(realtime.TopicCollisionAlerts)

	return tea.Batch(
		fetchSnapshot(m.svc.API),
		refreshFleet(m.svc.Fleet),
		refreshZones(m.svc.Zones),
		fetchStats(m.svc.API),
		waitForRealtime(m.svc.Transport),
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state == StateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	case authMsg:
		return m.handleAuth(msg)

	case sessionRestoredMsg:
		return m.handleSessionRestored(msg.sess)

	case snapshotMsg:
		return m.handleSnapshot(msg)

	case trackMsg:
		if msg.err != nil {
			m.svc.Vessels.AbortTracking(msg.gen)
			m.toast("track history unavailable: " + msg.err.Error())
			return m, m.checkAuth(msg.err)
		}
		if err := m.svc.Vessels.SeedTrack(msg.gen, msg.points); err != nil && !errors.Is(err, state.ErrStaleTrack) {
			m.svc.Logger.Warn().Err(err).Msg("seeding track")
		}
		return m, nil

	case fleetRefreshedMsg:
		if msg.err != nil {
			m.toast("fleet refresh failed: " + msg.err.Error())
			return m, m.checkAuth(msg.err)
		}
		m.refreshFleetTable()
		m.refreshVesselTable()
		return m, nil

	case fleetAddedMsg:
		if msg.err != nil {
			m.toast("bookmark failed: " + msg.err.Error())
			return m, m.checkAuth(msg.err)
		}
		m.toast(fmt.Sprintf("%s added to fleet", msg.entry.MMSI))
		m.refreshFleetTable()
		m.refreshVesselTable()
		return m, nil

	case fleetRemovedMsg:
		if msg.err != nil {
			m.toast("removal failed: " + msg.err.Error())
			m.refreshFleetTable()
			return m, m.checkAuth(msg.err)
		}
		m.toast(fmt.Sprintf("%s removed from fleet", msg.mmsi))
		m.refreshFleetTable()
		m.refreshVesselTable()
		return m, nil

	case zonesRefreshedMsg:
		if msg.err != nil {
			m.toast("zone refresh failed: " + msg.err.Error())
			return m, m.checkAuth(msg.err)
		}
		return m, nil

	case zoneSavedMsg:
		if msg.err != nil {
			if m.zoneForm != nil {
				m.zoneForm.err = msg.err
			}
			return m, m.checkAuth(msg.err)
		}
		m.zoneForm = nil
		m.toast(fmt.Sprintf("zone %q saved", msg.zone.Name))
		return m, nil

	case zoneDeletedMsg:
		if msg.err != nil {
			m.toast("zone delete failed: " + msg.err.Error())
			return m, m.checkAuth(msg.err)
		}
		m.toast(fmt.Sprintf("%s zone deleted", msg.kind))
		return m, nil

	case statsMsg:
		if msg.err == nil {
			m.stats = msg.stats
		}
		return m, nil

	case settingsSavedMsg:
		if msg.err != nil {
			if m.settingsForm != nil {
				m.settingsForm.err = msg.err
			}
			return m, m.checkAuth(msg.err)
		}
		m.settingsForm = nil
		m.pane = PaneVessels
		m.toast("settings saved")
		return m, nil

	case adminUsersMsg:
		if msg.err != nil {
			m.toast("user list failed: " + msg.err.Error())
			return m, m.checkAuth(msg.err)
		}
		m.adminUserRows = msg.users
		m.refreshAdminUserTable()
		return m, nil

	case adminShipsMsg:
		if msg.err != nil {
			m.toast("ship list failed: " + msg.err.Error())
			return m, m.checkAuth(msg.err)
		}
		m.adminShipRows = msg.ships
		m.refreshAdminShipTable()
		return m, nil

	case adminActionMsg:
		if msg.err != nil {
			m.toast("admin action failed: " + msg.err.Error())
			return m, m.checkAuth(msg.err)
		}
		// Re-fetch whichever list the action touched.
		if m.adminShipsTab {
			return m, fetchAdminShips(m.svc.API)
		}
		return m, fetchAdminUsers(m.svc.API)

	case realtimeMsg:
		return m.handleRealtime(msg.event)

	case forceLogoutMsg:
		return m.logout()
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(keyMsg)
	}

	return m, nil
}

// handleAuth finishes a login or registration attempt.
func (m Model) handleAuth(msg authMsg) (tea.Model, tea.Cmd) {
	m.loginForm.busy = false
	if msg.err != nil {
		m.loginForm.err = msg.err
		return m, nil
	}

	if err := m.svc.Session.Save(msg.user, msg.token); err != nil {
		m.svc.Logger.Error().Err(err).Msg("persisting session")
	}
	m.user = msg.user
	m.loginForm = newLoginForm()
	m.state = StateLoading
	return m, tea.Batch(m.spinner.Tick, m.startSession(msg.token))
}

// handleSessionRestored resumes a session persisted by a previous run: the
// cached profile becomes the active user and the stream reconnects with the
// stored token.
func (m Model) handleSessionRestored(sess session.Session) (tea.Model, tea.Cmd) {
	m.user = sess.User
	m.state = StateLoading
	return m, tea.Batch(m.spinner.Tick, m.startSession(sess.Token))
}

// handleSnapshot installs the bulk snapshot. During the initial load a
// failure is fatal; afterwards it only surfaces as a toast and the previous
// view stays up.
func (m Model) handleSnapshot(msg snapshotMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m.logout()
		}
		if m.state == StateLoading {
			m.err = msg.err
			m.state = StateError
			return m, nil
		}
		m.toast("snapshot refresh failed: " + msg.err.Error())
		return m, nil
	}

	m.svc.Vessels.LoadInitial(msg.ships)
	m.refreshVesselTable()
	m.state = StateDashboard

	// A tracked vessel keeps its selection across reloads, but the track
	// itself was reset; fetch history again under a fresh generation.
	if tracked := m.svc.Vessels.TrackedMMSI(); tracked != "" {
		gen := m.svc.Vessels.BeginTracking(tracked)
		return m, fetchTrack(m.svc.API, tracked, gen)
	}
	return m, nil
}

// handleRealtime applies one transport event, then re-arms the pump.
func (m Model) handleRealtime(ev realtime.Event) (tea.Model, tea.Cmd) {
	pump := waitForRealtime(m.svc.Transport)

	switch ev.Type {
	case realtime.EventConnected:
		m.connected = true
		if m.state == StateDashboard || m.state == StateLoading {
			// Nothing was buffered while we were away; reload everything.
			return m, tea.Batch(pump,
				fetchSnapshot(m.svc.API),
				refreshFleet(m.svc.Fleet),
				refreshZones(m.svc.Zones),
				fetchStats(m.svc.API),
			)
		}
		return m, pump

	case realtime.EventDisconnected:
		m.connected = false
		m.svc.Notifications.Add(models.NewNotification(
			models.NotifyWarning, "Connection lost", "reconnecting..."))
		return m, pump

	case realtime.EventMessage:
		m.applyMessage(ev)
		return m, pump
	}

	return m, pump
}

// applyMessage routes one streamed payload. Malformed payloads are logged
// and dropped, never fatal.
func (m *Model) applyMessage(ev realtime.Event) {
	switch ev.Topic {
	case realtime.TopicVesselUpdates:
		v, err := models.ParseVesselUpdate(ev.Payload)
		if err != nil {
			m.svc.Logger.Debug().Err(err).Msg("dropping vessel update")
			return
		}
		m.svc.Vessels.ApplyUpdate(*v)
		m.svc.Fleet.ApplyUpdate(*v)
		m.refreshVesselTable()

	case realtime.TopicZoneViolations:
		v, err := models.ParseZoneViolation(ev.Payload)
		if err != nil {
			m.svc.Logger.Debug().Err(err).Msg("dropping zone violation")
			return
		}
		title := fmt.Sprintf("Zone %q: %s", v.ZoneName, v.ConstraintType)
		body := fmt.Sprintf("%s (%s) %s", v.ShipName, v.MMSI, v.Detail)
		m.svc.Notifications.Add(models.NewNotification(models.NotifyViolation, title, body))

	case realtime.TopicCollisionAlerts:
		c, err := models.ParseCollisionAlert(ev.Payload)
		if err != nil {
			m.svc.Logger.Debug().Err(err).Msg("dropping collision alert")
			return
		}
		title := fmt.Sprintf("Collision risk in %q", c.ZoneName)
		body := fmt.Sprintf("%s / %s, CPA %.2f nm in %.0f s",
			c.ShipNameA, c.ShipNameB, c.CPANm, c.TCPASec)
		m.svc.Notifications.Add(models.NewNotification(models.NotifyCollision, title, body))

	default:
		m.svc.Logger.Debug().Str("topic", ev.Topic).Msg("ignoring unknown topic")
	}
}

// checkAuth converts a rejected request into a forced logout. Returns nil
// for every other error.
func (m *Model) checkAuth(err error) tea.Cmd {
	if !errors.Is(err, api.ErrUnauthorized) {
		return nil
	}
	return func() tea.Msg { return forceLogoutMsg{} }
}

// forceLogoutMsg is emitted when the server rejects the session token.
type forceLogoutMsg struct{}

// logout clears the session and returns to the login form.
func (m Model) logout() (tea.Model, tea.Cmd) {
	if err := m.svc.Session.Clear(); err != nil {
		m.svc.Logger.Error().Err(err).Msg("clearing session")
	}
	m.svc.Transport.Close()
	m.svc.Vessels.EndTracking()
	m.svc.Notifications.Clear()
	m.user = models.User{}
	m.connected = false
	m.state = StateLogin
	m.pane = PaneVessels
	m.zoneForm = nil
	m.settingsForm = nil
	m.loginForm = newLoginForm()
	return m, textinput.Blink
}

// toast sets the one-line status message shown in the footer.
func (m *Model) toast(s string) {
	m.status = s
}

// resize recomputes pane dimensions from the terminal size.
func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	sideWidth := m.width * 2 / 5
	if sideWidth > 64 {
		sideWidth = 64
	}
	chartWidth := m.width - sideWidth - 6
	chartHeight := m.height - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	if chartHeight < 8 {
		chartHeight = 8
	}
	m.renderer.Width = chartWidth
	m.renderer.Height = chartHeight

	tableHeight := chartHeight - 4
	if tableHeight < 4 {
		tableHeight = 4
	}
	m.vesselTable.SetHeight(tableHeight)
	m.fleetTable.SetHeight(tableHeight)
	m.adminUsers.SetHeight(tableHeight)
	m.adminShips.SetHeight(tableHeight)
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateLogin:
		return m.viewLogin()
	case StateLoading:
		return m.viewLoading()
	case StateDashboard:
		return m.viewDashboard()
	case StateError:
		return m.viewError()
	}
	return ""
}

// viewLoading renders the initial fetch screen
func (m Model) viewLoading() string {
	return lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		titleStyle.Render("⚓ AIS Watch"),
		"",
		fmt.Sprintf("%s %s", m.spinner.View(), mutedStyle.Render("Loading vessel snapshot...")),
	)
}

// viewError renders the error view
func (m Model) viewError() string {
	msg := "An unknown error occurred"
	if m.err != nil {
		msg = m.err.Error()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		errorStyle.Render("✗ Error"),
		"",
		msg,
		"",
		helpStyle.Render("R: Retry • L: Log out • Q: Quit"),
	)
}
