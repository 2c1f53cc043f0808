package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/seastream/aiswatch/internal/models"
)

// handleNotificationKey handles input while the notification pane is active.
func (m Model) handleNotificationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "c" {
		m.svc.Notifications.Clear()
	}
	return m, nil
}

func (m Model) viewNotificationPane() string {
	entries := m.svc.Notifications.All()

	var sections []string
	sections = append(sections, labelStyle.Render("Notifications"))

	if len(entries) == 0 {
		sections = append(sections, "", mutedStyle.Render("Nothing yet."))
	}

	// Newest first; cap to what fits rather than scrolling.
	limit := m.renderer.Height - 2
	if limit < 5 {
		limit = 5
	}
	for i, n := range entries {
		if i >= limit {
			sections = append(sections, mutedStyle.Render("..."))
			break
		}
		sections = append(sections, "",
			notificationStyle(n.Kind).Render(n.CreatedAt.Format("15:04:05")+" "+n.Title),
			"  "+n.Body,
		)
	}

	return activePaneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func notificationStyle(kind models.NotificationKind) lipgloss.Style {
	switch kind {
	case models.NotifyCollision, models.NotifyError:
		return errorStyle
	case models.NotifyViolation, models.NotifyWarning:
		return warningStyle
	default:
		return successStyle
	}
}
