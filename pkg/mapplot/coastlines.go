package mapplot

import (
	"fmt"
	"math"

	"github.com/1F47E/psf-grid/pkg/geodesy"
	"github.com/1F47E/psf-grid/pkg/models"
	"github.com/jonas-p/go-shp"
	"gonum.org/v1/plot/plotter"
)

// LoadCoastlines reads the polylines and polygon rings of a shapefile in
// geographic coordinates (x = longitude, y = latitude).
func LoadCoastlines(filename string) ([][]models.Location, error) {
	reader, err := shp.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer reader.Close()

	var lines [][]models.Location
	for reader.Next() {
		_, shape := reader.Shape()
		switch s := shape.(type) {
		case *shp.PolyLine:
			lines = append(lines, splitParts(s.Parts, s.Points)...)
		case *shp.Polygon:
			lines = append(lines, splitParts(s.Parts, s.Points)...)
		}
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shapefile: %w", err)
	}
	return lines, nil
}

func splitParts(parts []int32, points []shp.Point) [][]models.Location {
	lines := make([][]models.Location, 0, len(parts))
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		line := make([]models.Location, 0, end-int(start))
		for _, p := range points[start:end] {
			line = append(line, models.Location{Lat: p.Y, Lon: p.X})
		}
		lines = append(lines, line)
	}
	return lines
}

// projectLine projects a geographic line, breaking it wherever it jumps
// across the map edge.
func projectLine(line []models.Location) []plotter.XYs {
	var out []plotter.XYs
	var current plotter.XYs
	prevLon := math.NaN()

	for _, loc := range line {
		lon := geodesy.WrapLongitude(loc.Lon)
		if !math.IsNaN(prevLon) && math.Abs(lon-prevLon) > 180 {
			if len(current) > 1 {
				out = append(out, current)
			}
			current = nil
		}
		x, y := Mollweide(lon, loc.Lat)
		current = append(current, plotter.XY{X: x, Y: y})
		prevLon = lon
	}
	if len(current) > 1 {
		out = append(out, current)
	}
	return out
}
