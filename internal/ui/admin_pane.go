package ui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/seastream/aiswatch/internal/models"
)

func newAdminUserTable() table.Model {
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Email", Width: 28},
			{Title: "Role", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
}

func newAdminShipTable() table.Model {
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "MMSI", Width: 10},
			{Title: "Name", Width: 18},
			{Title: "Type", Width: 14},
			{Title: "Last seen", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
}

func (m *Model) refreshAdminUserTable() {
	rows := make([]table.Row, 0, len(m.adminUserRows))
	for _, u := range m.adminUserRows {
		rows = append(rows, table.Row{
			strconv.FormatInt(u.ID, 10),
			u.Email,
			string(u.Role),
		})
	}
	m.adminUsers.SetRows(rows)
}

func (m *Model) refreshAdminShipTable() {
	rows := make([]table.Row, 0, len(m.adminShipRows))
	for _, s := range m.adminShipRows {
		rows = append(rows, table.Row{
			s.MMSI,
			s.Name,
			s.ShipType,
			time.Unix(s.LastSeen, 0).Format("Jan 2 15:04"),
		})
	}
	m.adminShips.SetRows(rows)
}

// handleAdminKey handles input while the admin console is active.
func (m Model) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyTab {
		m.adminShipsTab = !m.adminShipsTab
		return m, nil
	}

	if m.adminShipsTab {
		switch msg.String() {
		case "e":
			row := m.adminShips.SelectedRow()
			if len(row) > 2 {
				m.editingType = true
				m.shipTypeInput.SetValue(row[2])
				m.shipTypeInput.Focus()
				return m, textinput.Blink
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.adminShips, cmd = m.adminShips.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "p":
		if u, ok := m.selectedAdminUser(); ok {
			role := models.RoleAdmin
			if u.Role == models.RoleAdmin {
				role = models.RoleUser
			}
			return m, updateUserRole(m.svc.API, u.ID, role)
		}
		return m, nil

	case "d":
		if u, ok := m.selectedAdminUser(); ok {
			if u.ID == m.user.ID {
				m.toast("refusing to delete your own account")
				return m, nil
			}
			return m, deleteUser(m.svc.API, u.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.adminUsers, cmd = m.adminUsers.Update(msg)
	return m, cmd
}

func (m *Model) selectedAdminUser() (models.User, bool) {
	row := m.adminUsers.SelectedRow()
	if len(row) == 0 {
		return models.User{}, false
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return models.User{}, false
	}
	for _, u := range m.adminUserRows {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// handleShipTypeKey feeds keys to the ship type override input.
func (m Model) handleShipTypeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editingType = false
		m.shipTypeInput.Blur()
		row := m.adminShips.SelectedRow()
		value := m.shipTypeInput.Value()
		if len(row) == 0 || value == "" {
			return m, nil
		}
		return m, updateShipType(m.svc.API, row[0], value)
	case tea.KeyEsc:
		m.editingType = false
		m.shipTypeInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.shipTypeInput, cmd = m.shipTypeInput.Update(msg)
	return m, cmd
}

func (m Model) viewAdminPane() string {
	usersTab := "Users"
	shipsTab := "Ships"
	if m.adminShipsTab {
		shipsTab = "[" + shipsTab + "]"
	} else {
		usersTab = "[" + usersTab + "]"
	}

	var body string
	if m.adminShipsTab {
		body = m.adminShips.View()
		if m.editingType {
			body = lipgloss.JoinVertical(lipgloss.Left, body, m.shipTypeInput.View())
		}
	} else {
		body = m.adminUsers.View()
	}

	return activePaneStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		labelStyle.Render("Admin — "+usersTab+" "+shipsTab),
		body,
	))
}
