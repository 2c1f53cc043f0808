package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/seastream/aiswatch/internal/models"
)

// zoneForm edits one zone. Constraints apply to zones of interest only and
// are typed as "type=value, type=value".
type zoneForm struct {
	kind   models.ZoneKind
	id     int64 // 0 when creating
	inputs []textinput.Model
	focus  int
	err    error
}

const (
	zfName = iota
	zfLat
	zfLon
	zfRadius
	zfConstraints
)

func newZoneForm(kind models.ZoneKind, existing *models.Zone) *zoneForm {
	mk := func(placeholder string, width int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 120
		ti.Width = width
		return ti
	}

	f := &zoneForm{
		kind: kind,
		inputs: []textinput.Model{
			mk("name", 30),
			mk("center latitude", 16),
			mk("center longitude", 16),
			mk("radius (nm)", 12),
			mk("entry-notify, speed-above=15, ...", 40),
		},
	}
	if kind == models.ZoneCollision {
		f.inputs = f.inputs[:zfConstraints] // no constraints field
	}

	if existing != nil {
		f.id = existing.ID
		f.inputs[zfName].SetValue(existing.Name)
		f.inputs[zfLat].SetValue(strconv.FormatFloat(existing.CenterLat, 'f', -1, 64))
		f.inputs[zfLon].SetValue(strconv.FormatFloat(existing.CenterLon, 'f', -1, 64))
		f.inputs[zfRadius].SetValue(strconv.FormatFloat(existing.RadiusNm, 'f', -1, 64))
		if kind == models.ZoneInterest {
			f.inputs[zfConstraints].SetValue(formatConstraints(existing.Constraints))
		}
	}

	f.inputs[0].Focus()
	return f
}

// build assembles and validates the zone from the form fields.
func (f *zoneForm) build() (models.Zone, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(f.inputs[zfLat].Value()), 64)
	if err != nil {
		return models.Zone{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(f.inputs[zfLon].Value()), 64)
	if err != nil {
		return models.Zone{}, fmt.Errorf("longitude: %w", err)
	}
	radius, err := strconv.ParseFloat(strings.TrimSpace(f.inputs[zfRadius].Value()), 64)
	if err != nil {
		return models.Zone{}, fmt.Errorf("radius: %w", err)
	}

	z := models.Zone{
		ID:        f.id,
		Name:      strings.TrimSpace(f.inputs[zfName].Value()),
		Kind:      f.kind,
		CenterLat: lat,
		CenterLon: lon,
		RadiusNm:  radius,
	}
	if f.kind == models.ZoneInterest {
		z.Constraints, err = parseConstraints(f.inputs[zfConstraints].Value())
		if err != nil {
			return models.Zone{}, err
		}
	}
	if err := z.Validate(); err != nil {
		return models.Zone{}, err
	}
	return z, nil
}

// parseConstraints reads the "type=value, type" shorthand. Value-less
// constraint types get an empty value.
func parseConstraints(s string) ([]models.Constraint, error) {
	var out []models.Constraint
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		ct, err := models.ParseConstraintType(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, models.Constraint{Type: ct, Value: strings.TrimSpace(value)})
	}
	return out, nil
}

func formatConstraints(cs []models.Constraint) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		if c.Value == "" {
			parts = append(parts, string(c.Type))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", c.Type, c.Value))
	}
	return strings.Join(parts, ", ")
}

// handleZonePaneKey handles input while the zone pane shows the summary.
func (m Model) handleZonePaneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i":
		m.zoneForm = newZoneForm(models.ZoneInterest, m.svc.Zones.Get(models.ZoneInterest))
		return m, textinput.Blink
	case "o":
		m.zoneForm = newZoneForm(models.ZoneCollision, m.svc.Zones.Get(models.ZoneCollision))
		return m, textinput.Blink
	case "d":
		if m.svc.Zones.Get(models.ZoneInterest) != nil {
			return m, deleteZone(m.svc.Zones, models.ZoneInterest)
		}
		return m, nil
	case "x":
		if m.svc.Zones.Get(models.ZoneCollision) != nil {
			return m, deleteZone(m.svc.Zones, models.ZoneCollision)
		}
		return m, nil
	}
	return m, nil
}

// handleZoneFormKey drives the zone editing form.
func (m Model) handleZoneFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.zoneForm

	switch msg.Type {
	case tea.KeyEsc:
		m.zoneForm = nil
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
		zone, err := f.build()
		if err != nil {
			f.err = err
			return m, nil
		}
		f.err = nil
		create := f.id == 0 && m.svc.Zones.Get(f.kind) == nil
		return m, saveZone(m.svc.Zones, zone, create)
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (f *zoneForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (m Model) viewZonePane() string {
	if m.zoneForm != nil {
		return m.viewZoneForm()
	}

	var sections []string
	sections = append(sections, labelStyle.Render("Zones"))

	for _, kind := range []models.ZoneKind{models.ZoneInterest, models.ZoneCollision} {
		label := "Zone of interest"
		if kind == models.ZoneCollision {
			label = "Collision zone"
		}
		z := m.svc.Zones.Get(kind)
		if z == nil {
			sections = append(sections, "", mutedStyle.Render(label+": not defined"))
			continue
		}
		sections = append(sections, "",
			successStyle.Render(fmt.Sprintf("%s: %q", label, z.Name)),
			fmt.Sprintf("  center %.4f, %.4f • radius %.1f nm", z.CenterLat, z.CenterLon, z.RadiusNm),
		)
		for _, c := range z.Constraints {
			line := "  · " + string(c.Type)
			if c.Value != "" {
				line += " = " + c.Value
			}
			sections = append(sections, line)
		}
	}

	return activePaneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) viewZoneForm() string {
	f := m.zoneForm
	label := "Edit zone of interest"
	if f.kind == models.ZoneCollision {
		label = "Edit collision zone"
	}

	labels := []string{"Name", "Latitude", "Longitude", "Radius (nm)", "Constraints"}
	var sections []string
	sections = append(sections, labelStyle.Render(label), "")
	for i, input := range f.inputs {
		sections = append(sections, mutedStyle.Render(labels[i]), input.View())
	}
	if f.err != nil {
		sections = append(sections, "", errorStyle.Render("✗ "+f.err.Error()))
	}
	sections = append(sections, "", mutedStyle.Render("Enter on last field saves • Esc cancels"))

	return activePaneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
