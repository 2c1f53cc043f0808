package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func newFleetTable() table.Model {
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 18},
			{Title: "MMSI", Width: 10},
			{Title: "Dest", Width: 14},
			{Title: "SOG", Width: 5},
			{Title: "Status", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
}

// refreshFleetTable rebuilds the fleet pane rows from the cache.
func (m *Model) refreshFleetTable() {
	entries := m.svc.Fleet.Entries()
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = "(unnamed)"
		}
		rows = append(rows, table.Row{
			name,
			e.MMSI,
			e.Destination,
			fmt.Sprintf("%.1f", e.SpeedOverGround),
			shortStatus(e.NavStatus),
		})
	}
	m.fleetTable.SetRows(rows)
	if c := m.fleetTable.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.fleetTable.SetCursor(len(rows) - 1)
	}
}

func shortStatus(code int) string {
	switch code {
	case 0:
		return "Under way"
	case 1:
		return "Anchored"
	case 5:
		return "Moored"
	default:
		return fmt.Sprintf("St %d", code)
	}
}

// handleFleetKey handles input while the fleet pane is active.
func (m Model) handleFleetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "t":
		row := m.fleetTable.SelectedRow()
		if len(row) > 1 {
			return m.startTracking(row[1])
		}
		return m, nil

	case "d":
		row := m.fleetTable.SelectedRow()
		if len(row) > 1 {
			return m, removeFromFleet(m.svc.Fleet, row[1])
		}
		return m, nil

	case "e":
		m.renaming = true
		m.renameInput.SetValue(m.svc.Fleet.Name())
		m.renameInput.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.fleetTable, cmd = m.fleetTable.Update(msg)
	return m, cmd
}

// handleRenameKey feeds keys to the fleet name input.
func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.renaming = false
		m.renameInput.Blur()
		name := m.renameInput.Value()
		if name == "" {
			return m, nil
		}
		return m, func() tea.Msg {
			ctx, cancel := withTimeout()
			defer cancel()
			return fleetRefreshedMsg{err: m.svc.Fleet.Rename(ctx, name)}
		}
	case tea.KeyEsc:
		m.renaming = false
		m.renameInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m Model) viewFleetPane() string {
	title := m.svc.Fleet.Name()
	if title == "" {
		title = "My Fleet"
	}

	nameLine := labelStyle.Render(fmt.Sprintf("⭑ %s (%d ships)", title, len(m.svc.Fleet.Entries())))
	if m.renaming {
		nameLine = m.renameInput.View()
	}

	body := m.fleetTable.View()
	if len(m.svc.Fleet.Entries()) == 0 {
		body = mutedStyle.Render("No bookmarked vessels yet.\nPress B on a vessel to add it.")
	}

	return activePaneStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		nameLine,
		body,
	))
}
