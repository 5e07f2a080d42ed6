package mapplot

import (
	"math"

	"github.com/1F47E/psf-grid/pkg/geodesy"
	"gonum.org/v1/plot/plotter"
)

const (
	newtonTolerance = 1e-12
	newtonMaxIter   = 100
)

// Map extent of the unit-sphere Mollweide projection.
var (
	MaxX = 2 * math.Sqrt2
	MaxY = math.Sqrt2
)

// Mollweide projects lon/lat in degrees onto the unit-sphere Mollweide plane
// centred on the Greenwich meridian.
func Mollweide(lon, lat float64) (x, y float64) {
	return mollweide(geodesy.Rad(geodesy.WrapLongitude(lon)), geodesy.Rad(lat))
}

func mollweide(lambda, phi float64) (x, y float64) {
	theta := auxiliaryAngle(phi)
	x = 2 * math.Sqrt2 / math.Pi * lambda * math.Cos(theta)
	y = math.Sqrt2 * math.Sin(theta)
	return x, y
}

// auxiliaryAngle solves 2t + sin(2t) = pi*sin(phi) for t.
func auxiliaryAngle(phi float64) float64 {
	if math.Abs(phi) >= math.Pi/2-newtonTolerance {
		return math.Copysign(math.Pi/2, phi)
	}
	target := math.Pi * math.Sin(phi)
	t := phi
	for i := 0; i < newtonMaxIter; i++ {
		f := 2*t + math.Sin(2*t) - target
		df := 2 + 2*math.Cos(2*t)
		if df == 0 {
			break
		}
		step := f / df
		t -= step
		if math.Abs(step) < newtonTolerance {
			break
		}
	}
	return t
}

// Graticule returns parallels every 30 degrees and meridians every 60
// degrees in projected coordinates, plus the map boundary.
func Graticule() []plotter.XYs {
	var lines []plotter.XYs

	for lat := -60.0; lat <= 60; lat += 30 {
		line := make(plotter.XYs, 0, 361)
		phi := geodesy.Rad(lat)
		for lon := -180.0; lon <= 180; lon++ {
			x, y := mollweide(geodesy.Rad(lon), phi)
			line = append(line, plotter.XY{X: x, Y: y})
		}
		lines = append(lines, line)
	}

	for _, lon := range []float64{-180, -120, -60, 0, 60, 120, 180} {
		line := make(plotter.XYs, 0, 181)
		lambda := geodesy.Rad(lon)
		for lat := -90.0; lat <= 90; lat++ {
			x, y := mollweide(lambda, geodesy.Rad(lat))
			line = append(line, plotter.XY{X: x, Y: y})
		}
		lines = append(lines, line)
	}
	return lines
}
