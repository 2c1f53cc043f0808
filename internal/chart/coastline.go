package chart

import (
	"fmt"

	shp "github.com/jonas-p/go-shp"
)

// Point is one coastline vertex.
type Point struct {
	Lat float64
	Lon float64
}

// Polyline is one shoreline segment.
type Polyline []Point

// LoadCoastline reads shoreline geometry from a shapefile. Both polyline and
// polygon shapes are accepted; anything else is skipped.
func LoadCoastline(path string) ([]Polyline, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shapefile %s: %w", path, err)
	}
	defer shape.Close()

	var lines []Polyline
	for shape.Next() {
		_, p := shape.Shape()

		var points []shp.Point
		switch s := p.(type) {
		case *shp.PolyLine:
			points = s.Points
		case *shp.Polygon:
			points = s.Points
		default:
			continue
		}

		line := make(Polyline, 0, len(points))
		for _, pt := range points {
			line = append(line, Point{Lat: pt.Y, Lon: pt.X})
		}
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}

	return lines, nil
}
