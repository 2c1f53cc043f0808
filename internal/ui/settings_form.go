package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/seastream/aiswatch/internal/models"
)

// settingsForm edits the account email and optionally the password.
type settingsForm struct {
	inputs []textinput.Model
	focus  int
	err    error
}

const (
	sfEmail = iota
	sfCurrentPassword
	sfNewPassword
)

func newSettingsForm(email string) *settingsForm {
	mk := func(placeholder string, password bool) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 120
		ti.Width = 36
		if password {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		return ti
	}

	f := &settingsForm{
		inputs: []textinput.Model{
			mk("email", false),
			mk("current password (only to change it)", true),
			mk("new password", true),
		},
	}
	f.inputs[sfEmail].SetValue(email)
	f.inputs[sfEmail].Focus()
	return f
}

func (f *settingsForm) build() (models.SettingsUpdate, error) {
	update := models.SettingsUpdate{
		Email:           f.inputs[sfEmail].Value(),
		CurrentPassword: f.inputs[sfCurrentPassword].Value(),
		NewPassword:     f.inputs[sfNewPassword].Value(),
	}
	if update.Email == "" {
		return models.SettingsUpdate{}, fmt.Errorf("email is required")
	}
	if update.NewPassword != "" && update.CurrentPassword == "" {
		return models.SettingsUpdate{}, fmt.Errorf("changing the password requires the current one")
	}
	return update, nil
}

func (f *settingsForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// handleSettingsKey drives the settings form.
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.settingsForm

	switch msg.Type {
	case tea.KeyEsc:
		m.settingsForm = nil
		m.pane = PaneVessels
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		f.move(1)
		return m, textinput.Blink

	case tea.KeyShiftTab, tea.KeyUp:
		f.move(-1)
		return m, textinput.Blink

	case tea.KeyEnter:
		if f.focus < len(f.inputs)-1 {
			f.move(1)
			return m, textinput.Blink
		}
		update, err := f.build()
		if err != nil {
			f.err = err
			return m, nil
		}
		f.err = nil
		return m, saveSettings(m.svc.API, update)
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m Model) viewSettingsPane() string {
	f := m.settingsForm
	if f == nil {
		return activePaneStyle.Render(labelStyle.Render("Settings"))
	}

	labels := []string{"Email", "Current password", "New password"}
	var sections []string
	sections = append(sections, labelStyle.Render(fmt.Sprintf("Settings — %s (%s)", m.user.Email, m.user.Role)), "")
	for i, input := range f.inputs {
		sections = append(sections, mutedStyle.Render(labels[i]), input.View())
	}
	if f.err != nil {
		sections = append(sections, "", errorStyle.Render("✗ "+f.err.Error()))
	}

	return activePaneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
