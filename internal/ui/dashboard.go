package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/seastream/aiswatch/internal/chart"
	"github.com/seastream/aiswatch/internal/models"
	"github.com/seastream/aiswatch/internal/state"
)

// handleKey routes keyboard input by application state.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case StateLogin:
		return m.handleLoginKey(msg)

	case StateLoading:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil

	case StateError:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "l":
			return m.logout()
		case "r":
			m.err = nil
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, fetchSnapshot(m.svc.API))
		}
		return m, nil

	case StateDashboard:
		return m.handleDashboardKey(msg)
	}

	return m, nil
}

// handleDashboardKey handles input on the main screen. Text inputs and forms
// capture keys first; global shortcuts apply only when nothing is focused.
func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	if m.filtering {
		return m.handleFilterKey(msg)
	}
	if m.zoneForm != nil {
		return m.handleZoneFormKey(msg)
	}
	if m.settingsForm != nil {
		return m.handleSettingsKey(msg)
	}
	if m.renaming {
		return m.handleRenameKey(msg)
	}
	if m.editingType {
		return m.handleShipTypeKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "L":
		return m.logout()

	// Pane switching: pressing the active pane's key returns to the
	// vessel list.
	case "f":
		m.togglePane(PaneFleet)
		m.refreshFleetTable()
		return m, nil
	case "z":
		m.togglePane(PaneZones)
		return m, nil
	case "n":
		m.togglePane(PaneNotifications)
		if m.pane == PaneNotifications {
			m.svc.Notifications.MarkAllRead()
		}
		return m, nil
	case "a":
		if !m.user.IsAdmin() {
			m.toast("admin console requires the admin role")
			return m, nil
		}
		m.togglePane(PaneAdmin)
		if m.pane == PaneAdmin {
			return m, tea.Batch(fetchAdminUsers(m.svc.API), fetchAdminShips(m.svc.API))
		}
		return m, nil
	case "s":
		m.togglePane(PaneSettings)
		if m.pane == PaneSettings {
			m.settingsForm = newSettingsForm(m.user.Email)
			return m, textinput.Blink
		}
		return m, nil

	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink
	case "F":
		m.fleetOnly = !m.fleetOnly
		m.refreshVesselTable()
		return m, nil

	case "r":
		return m, tea.Batch(
			fetchSnapshot(m.svc.API),
			refreshFleet(m.svc.Fleet),
			refreshZones(m.svc.Zones),
			fetchStats(m.svc.API),
		)

	// Viewport pan and zoom
	case "left", "right", "up", "down", "+", "=", "-":
		if m.pane == PaneVessels {
			break // arrows drive the table when it has focus
		}
		m.moveViewport(msg.String())
		return m, nil
	}

	if m.pane == PaneVessels {
		switch msg.String() {
		case "t":
			return m.startTracking(m.selectedMMSI())
		case "x":
			m.svc.Vessels.EndTracking()
			return m, nil
		case "b":
			return m.toggleBookmark(m.selectedMMSI())
		case "c":
			m.centerOnTracked()
			return m, nil
		case "+", "=", "-":
			m.moveViewport(msg.String())
			return m, nil
		}
		var cmd tea.Cmd
		m.vesselTable, cmd = m.vesselTable.Update(msg)
		return m, cmd
	}

	switch m.pane {
	case PaneFleet:
		return m.handleFleetKey(msg)
	case PaneZones:
		return m.handleZonePaneKey(msg)
	case PaneNotifications:
		return m.handleNotificationKey(msg)
	case PaneAdmin:
		return m.handleAdminKey(msg)
	}

	return m, nil
}

func (m *Model) togglePane(p ActivePane) {
	if m.pane == p {
		m.pane = PaneVessels
		m.settingsForm = nil
		return
	}
	m.pane = p
}

// handleFilterKey feeds keys to the filter input until enter or esc.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.refreshVesselTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.refreshVesselTable()
	return m, cmd
}

// startTracking begins a tracking session for the selected vessel and kicks
// off the history fetch.
func (m Model) startTracking(mmsi string) (tea.Model, tea.Cmd) {
	if mmsi == "" {
		return m, nil
	}
	gen := m.svc.Vessels.BeginTracking(mmsi)
	m.centerOnTracked()
	m.toast("tracking " + mmsi)
	return m, fetchTrack(m.svc.API, mmsi, gen)
}

// toggleBookmark adds or removes the selected vessel from the fleet. The
// tables refresh when the completion message lands.
func (m Model) toggleBookmark(mmsi string) (tea.Model, tea.Cmd) {
	if mmsi == "" {
		return m, nil
	}
	if m.svc.Fleet.Contains(mmsi) {
		return m, removeFromFleet(m.svc.Fleet, mmsi)
	}
	return m, addToFleet(m.svc.Fleet, mmsi)
}

// centerOnTracked recenters the viewport on the tracked vessel's last known
// position.
func (m *Model) centerOnTracked() {
	mmsi := m.svc.Vessels.TrackedMMSI()
	if mmsi == "" {
		return
	}
	if v, ok := m.svc.Vessels.Get(mmsi); ok && v.HasPosition() {
		m.renderer.View.CenterLat = *v.Latitude
		m.renderer.View.CenterLon = *v.Longitude
	}
}

// moveViewport pans or zooms the chart.
func (m *Model) moveViewport(key string) {
	step := m.renderer.View.SpanLat / 8
	switch key {
	case "up":
		m.renderer.View.CenterLat += step
	case "down":
		m.renderer.View.CenterLat -= step
	case "left":
		m.renderer.View.CenterLon -= step * 2
	case "right":
		m.renderer.View.CenterLon += step * 2
	case "+", "=":
		if m.renderer.View.SpanLat > 0.25 {
			m.renderer.View.SpanLat /= 1.5
		}
	case "-":
		if m.renderer.View.SpanLat < 120 {
			m.renderer.View.SpanLat *= 1.5
		}
	}
}

// viewDashboard renders the main screen: header, chart beside the active
// side pane, status line, help.
func (m Model) viewDashboard() string {
	header := m.viewHeader()

	frame := chart.Frame{
		Track:       m.svc.Vessels.Track(),
		TrackedMMSI: m.svc.Vessels.TrackedMMSI(),
	}
	for v := range m.svc.Vessels.Filtered(m.vesselFilter()) {
		frame.Vessels = append(frame.Vessels, v)
	}
	for _, kind := range []models.ZoneKind{models.ZoneInterest, models.ZoneCollision} {
		if z := m.svc.Zones.Get(kind); z != nil {
			frame.Zones = append(frame.Zones, *z)
		}
	}

	chartPane := paneStyle.Render(m.renderer.Render(frame))
	sidePane := m.viewSidePane()
	main := lipgloss.JoinHorizontal(lipgloss.Top, chartPane, sidePane)

	statusLine := ""
	if m.status != "" {
		statusLine = warningStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		main,
		statusLine,
		m.viewHelp(),
	)
}

func (m Model) viewHeader() string {
	conn := disconnectedStyle.Render("● offline")
	if m.connected {
		conn = connectedStyle.Render("● live")
	}

	parts := []string{
		titleStyle.Render("⚓ AIS Watch"),
		conn,
		mutedStyle.Render(fmt.Sprintf("%d vessels", m.svc.Vessels.Len())),
	}

	if m.stats.ActiveShips > 0 {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf(
			"active %d • users %d • violations today %d",
			m.stats.ActiveShips, m.stats.RegisteredUsers, m.stats.ViolationsToday)))
	}

	if tracked := m.svc.Vessels.TrackedMMSI(); tracked != "" {
		label := "tracking " + tracked
		if m.svc.Vessels.TrackingState() == state.TrackingLoading {
			label += " (loading history)"
		} else if nm := trackLengthNm(m.svc.Vessels.Track()); nm > 0 {
			label += fmt.Sprintf(" • %.1f nm", nm)
		}
		parts = append(parts, successStyle.Render(label))
	}

	if unread := m.svc.Notifications.Unread(); unread > 0 {
		parts = append(parts, unreadBadgeStyle.Render(fmt.Sprintf("%d new", unread)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, joinWithGap(parts)...)
}

// trackLengthNm is the great-circle length of the tracked vessel's trail.
func trackLengthNm(points []models.TrackPoint) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += chart.HaversineNm(
			points[i-1].Latitude, points[i-1].Longitude,
			points[i].Latitude, points[i].Longitude)
	}
	return total
}

// joinWithGap interleaves two-space separators for JoinHorizontal.
func joinWithGap(parts []string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, "  ")
		}
		out = append(out, p)
	}
	return out
}

func (m Model) viewSidePane() string {
	switch m.pane {
	case PaneFleet:
		return m.viewFleetPane()
	case PaneZones:
		return m.viewZonePane()
	case PaneNotifications:
		return m.viewNotificationPane()
	case PaneAdmin:
		return m.viewAdminPane()
	case PaneSettings:
		return m.viewSettingsPane()
	}
	return m.viewVesselPane()
}

func (m Model) viewVesselPane() string {
	filterLine := m.filterInput.View()
	if !m.filtering && m.filterInput.Value() == "" {
		filterLine = mutedStyle.Render("/: filter")
	}
	if m.fleetOnly {
		filterLine += "  " + successStyle.Render("[fleet only]")
	}

	return activePaneStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		labelStyle.Render("Vessels"),
		filterLine,
		m.vesselTable.View(),
	))
}

func (m Model) viewHelp() string {
	switch m.pane {
	case PaneFleet:
		return helpStyle.Render("T: Track • D: Remove • E: Rename fleet • F: Back • Q: Quit")
	case PaneZones:
		return helpStyle.Render("I: Edit interest zone • O: Edit collision zone • D/X: Delete • Z: Back • Q: Quit")
	case PaneNotifications:
		return helpStyle.Render("C: Clear • N: Back • Q: Quit")
	case PaneAdmin:
		return helpStyle.Render("Tab: Users/Ships • P: Promote/Demote • D: Delete user • E: Edit ship type • A: Back")
	case PaneSettings:
		return helpStyle.Render("Enter: Next/Save • Esc: Cancel")
	}
	return helpStyle.Render("T: Track • X: Stop • B: Bookmark • /: Filter • F/Z/N/S: Panes • ←↑↓→ +/-: Chart • Q: Quit")
}
