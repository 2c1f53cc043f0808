package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/seastream/aiswatch/internal/models"
)

func newVesselTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "MMSI", Width: 10},
			{Title: "Type", Width: 12},
			{Title: "SOG", Width: 5},
			{Title: "COG", Width: 5},
			{Title: "Hdg", Width: 5},
			{Title: "Status", Width: 18},
			{Title: "★", Width: 2},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return t
}

// vesselFilter builds the active list predicate from the filter text and the
// fleet-only toggle. Every whitespace-separated term must match: "speed>N"
// and "speed<N" compare against SOG, "status:X" matches the nav status text,
// anything else matches the MMSI prefix or the ship type, case-insensitively.
func (m *Model) vesselFilter() func(models.VesselUpdate) bool {
	terms := strings.Fields(strings.ToLower(m.filterInput.Value()))
	fleetOnly := m.fleetOnly
	inFleet := m.svc.Fleet.Contains

	return func(v models.VesselUpdate) bool {
		if fleetOnly && !inFleet(v.MMSI) {
			return false
		}
		for _, term := range terms {
			if !matchTerm(v, term) {
				return false
			}
		}
		return true
	}
}

func matchTerm(v models.VesselUpdate, term string) bool {
	if speed, ok := strings.CutPrefix(term, "speed>"); ok {
		if n, err := strconv.ParseFloat(speed, 64); err == nil {
			return v.SpeedOverGround > n
		}
		return false
	}
	if speed, ok := strings.CutPrefix(term, "speed<"); ok {
		if n, err := strconv.ParseFloat(speed, 64); err == nil {
			return v.SpeedOverGround < n
		}
		return false
	}
	if status, ok := strings.CutPrefix(term, "status:"); ok {
		return strings.Contains(strings.ToLower(models.NavStatusText(v.NavStatus)), status)
	}
	return strings.HasPrefix(v.MMSI, term) ||
		strings.Contains(strings.ToLower(v.ShipType), term)
}

// refreshVesselTable rebuilds the table rows from the merged view, keeping
// the cursor on the same vessel when it survives the rebuild.
func (m *Model) refreshVesselTable() {
	selected := m.selectedMMSI()

	var vessels []models.VesselUpdate
	for v := range m.svc.Vessels.Filtered(m.vesselFilter()) {
		vessels = append(vessels, v)
	}
	sort.Slice(vessels, func(i, j int) bool { return vessels[i].MMSI < vessels[j].MMSI })

	rows := make([]table.Row, 0, len(vessels))
	cursor := m.vesselTable.Cursor()
	for i, v := range vessels {
		star := ""
		if m.svc.Fleet.Contains(v.MMSI) {
			star = "★"
		}
		rows = append(rows, table.Row{
			v.MMSI,
			v.ShipType,
			fmt.Sprintf("%.1f", v.SpeedOverGround),
			fmt.Sprintf("%.0f", v.CourseOverGround),
			headingCell(v),
			models.NavStatusText(v.NavStatus),
			star,
		})
		if v.MMSI == selected {
			cursor = i
		}
	}

	m.vesselTable.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor >= 0 {
		m.vesselTable.SetCursor(cursor)
	}
}

// selectedMMSI returns the MMSI under the table cursor, or "".
func (m *Model) selectedMMSI() string {
	row := m.vesselTable.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

func headingCell(v models.VesselUpdate) string {
	if !v.HeadingAvailable() {
		return "—"
	}
	return fmt.Sprintf("%d°", v.TrueHeading)
}
