package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/seastream/aiswatch/internal/models"
)

// loginForm holds the email/password inputs. The same form serves login and
// registration, toggled with tab.
type loginForm struct {
	email      textinput.Model
	password   textinput.Model
	focusIndex int
	register   bool
	busy       bool
	err        error
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginForm{email: email, password: password}
}

// handleLoginKey handles keyboard input on the login screen.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loginForm.busy {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab:
		m.loginForm.register = !m.loginForm.register
		m.loginForm.err = nil
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		m.loginForm.focusIndex = 1 - m.loginForm.focusIndex
		if m.loginForm.focusIndex == 0 {
			m.loginForm.email.Focus()
			m.loginForm.password.Blur()
		} else {
			m.loginForm.email.Blur()
			m.loginForm.password.Focus()
		}
		return m, textinput.Blink

	case tea.KeyEnter:
		if m.loginForm.focusIndex == 0 {
			m.loginForm.focusIndex = 1
			m.loginForm.email.Blur()
			m.loginForm.password.Focus()
			return m, textinput.Blink
		}
		creds := models.Credentials{
			Email:    m.loginForm.email.Value(),
			Password: m.loginForm.password.Value(),
		}
		if creds.Email == "" || creds.Password == "" {
			return m, nil
		}
		m.loginForm.busy = true
		m.loginForm.err = nil
		if m.loginForm.register {
			return m, register(m.svc.API, creds)
		}
		return m, login(m.svc.API, creds)
	}

	m.loginForm.err = nil
	var cmd tea.Cmd
	if m.loginForm.focusIndex == 0 {
		m.loginForm.email, cmd = m.loginForm.email.Update(msg)
	} else {
		m.loginForm.password, cmd = m.loginForm.password.Update(msg)
	}
	return m, cmd
}

// viewLogin renders the login/register form
func (m Model) viewLogin() string {
	mode := "Sign in"
	if m.loginForm.register {
		mode = "Create account"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2).
		Width(48).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			labelStyle.Render(mode),
			"",
			m.loginForm.email.View(),
			m.loginForm.password.View(),
		))

	var errLine string
	if m.loginForm.err != nil {
		errLine = errorStyle.Render("✗ " + m.loginForm.err.Error())
	}
	if m.loginForm.busy {
		errLine = mutedStyle.Render("Signing in...")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("⚓ AIS Watch"),
		mutedStyle.Render("Live vessel tracking"),
		"",
		box,
		"",
		errLine,
		helpStyle.Render("Enter: Submit • Tab: Toggle login/register • ↑/↓: Switch field • Ctrl+C: Quit"),
	)
}
