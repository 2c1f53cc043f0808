// Package chart renders the merged vessel/zone state onto a rune grid: an
// equirectangular projection of a lat/lon viewport sized to the terminal.
package chart

import (
	"math"
	"strings"

	"github.com/seastream/aiswatch/internal/models"
)

// Marker glyphs, in paint order (later layers overwrite earlier ones).
const (
	glyphWater   = ' '
	glyphCoast   = '·'
	glyphZone    = '◦'
	glyphTrack   = '•'
	glyphTracked = '◉'
)

// Viewport is the geographic window mapped onto the grid.
type Viewport struct {
	CenterLat float64
	CenterLon float64
	// SpanLat is the latitude range (degrees) covered top to bottom. The
	// longitude span follows from the grid's aspect ratio, corrected for
	// the cos(lat) squeeze and the roughly 2:1 cell shape of terminals.
	SpanLat float64
}

// Renderer draws one frame. It holds no state between frames beyond the
// viewport and the optional coastline.
type Renderer struct {
	Width  int
	Height int
	View   Viewport
	coast  []Polyline
}

// NewRenderer creates a renderer for a grid of the given size.
func NewRenderer(width, height int, view Viewport) *Renderer {
	return &Renderer{Width: width, Height: height, View: view}
}

// SetCoastline installs the shoreline overlay.
func (r *Renderer) SetCoastline(coast []Polyline) {
	r.coast = coast
}

// spanLon derives the longitude span from the latitude span, the grid shape
// and the latitude squeeze.
func (r *Renderer) spanLon() float64 {
	if r.Height == 0 {
		return 360
	}
	cellAspect := 2.0 // a terminal cell is about twice as tall as wide
	cosLat := math.Cos(r.View.CenterLat * math.Pi / 180)
	if cosLat < 0.05 {
		cosLat = 0.05
	}
	return r.View.SpanLat * float64(r.Width) / (float64(r.Height) * cellAspect * cosLat)
}

// Project maps a position to grid coordinates. ok is false outside the
// viewport.
func (r *Renderer) Project(lat, lon float64) (col, row int, ok bool) {
	spanLon := r.spanLon()
	x := (lon - r.View.CenterLon + spanLon/2) / spanLon
	y := (r.View.CenterLat + r.View.SpanLat/2 - lat) / r.View.SpanLat

	col = int(x * float64(r.Width))
	row = int(y * float64(r.Height))
	if col < 0 || col >= r.Width || row < 0 || row >= r.Height {
		return 0, 0, false
	}
	return col, row, true
}

// Frame is the input to one render pass.
type Frame struct {
	Vessels     []models.VesselUpdate
	Track       []models.TrackPoint
	Zones       []models.Zone
	TrackedMMSI string
}

// Render paints the frame and returns it as newline-joined rows.
func (r *Renderer) Render(f Frame) string {
	grid := make([][]rune, r.Height)
	for i := range grid {
		grid[i] = make([]rune, r.Width)
		for j := range grid[i] {
			grid[i][j] = glyphWater
		}
	}

	r.paintCoast(grid)
	for _, z := range f.Zones {
		r.paintZone(grid, z)
	}
	r.paintTrack(grid, f.Track)
	for _, v := range f.Vessels {
		if !v.HasPosition() || v.MMSI == f.TrackedMMSI {
			continue
		}
		r.paintAt(grid, *v.Latitude, *v.Longitude, headingGlyph(v))
	}
	// The tracked vessel paints last so nothing hides it.
	for _, v := range f.Vessels {
		if v.MMSI == f.TrackedMMSI && v.HasPosition() {
			r.paintAt(grid, *v.Latitude, *v.Longitude, glyphTracked)
		}
	}

	rows := make([]string, r.Height)
	for i, line := range grid {
		rows[i] = string(line)
	}
	return strings.Join(rows, "\n")
}

func (r *Renderer) paintAt(grid [][]rune, lat, lon float64, glyph rune) {
	if col, row, ok := r.Project(lat, lon); ok {
		grid[row][col] = glyph
	}
}

func (r *Renderer) paintCoast(grid [][]rune) {
	for _, line := range r.coast {
		for _, p := range line {
			r.paintAt(grid, p.Lat, p.Lon, glyphCoast)
		}
	}
}

// paintZone draws the circle outline. One nautical mile is 1/60 degree of
// latitude; the longitude radius stretches by 1/cos(lat).
func (r *Renderer) paintZone(grid [][]rune, z models.Zone) {
	radLat := z.RadiusNm / 60
	cosLat := math.Cos(z.CenterLat * math.Pi / 180)
	if cosLat < 0.05 {
		cosLat = 0.05
	}
	radLon := radLat / cosLat

	for deg := 0; deg < 360; deg += 3 {
		a := float64(deg) * math.Pi / 180
		lat := z.CenterLat + radLat*math.Sin(a)
		lon := z.CenterLon + radLon*math.Cos(a)
		r.paintAt(grid, lat, lon, glyphZone)
	}
}

func (r *Renderer) paintTrack(grid [][]rune, track []models.TrackPoint) {
	for _, p := range track {
		r.paintAt(grid, p.Latitude, p.Longitude, glyphTrack)
	}
}

// headingGlyph picks an arrow for the vessel's true heading, falling back to
// course over ground, then to a neutral dot.
func headingGlyph(v models.VesselUpdate) rune {
	deg := float64(v.TrueHeading)
	if !v.HeadingAvailable() {
		if v.SpeedOverGround < 0.5 {
			return '○' // effectively stationary
		}
		deg = v.CourseOverGround
	}

	arrows := []rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}
	idx := int(math.Mod(deg+22.5, 360) / 45)
	if idx < 0 || idx >= len(arrows) {
		idx = 0
	}
	return arrows[idx]
}

// HaversineNm returns the great-circle distance between two points in
// nautical miles.
func HaversineNm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusNm = 3440.065

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusNm * c
}
