package mapplot

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/1F47E/psf-grid/pkg/grid"
	"github.com/1F47E/psf-grid/pkg/models"
	"github.com/1F47E/psf-grid/pkg/pointfile"
	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestMollweideLandmarks(t *testing.T) {
	x, y := Mollweide(0, 0)
	assert.InDelta(t, 0.0, x, 1e-12)
	assert.InDelta(t, 0.0, y, 1e-12)

	x, y = Mollweide(0, 90)
	assert.InDelta(t, 0.0, x, 1e-12)
	assert.InDelta(t, math.Sqrt2, y, 1e-12)

	x, y = Mollweide(123, -90)
	assert.InDelta(t, 0.0, x, 1e-12)
	assert.InDelta(t, -math.Sqrt2, y, 1e-12)

	x, y = Mollweide(90, 0)
	assert.InDelta(t, math.Sqrt2, x, 1e-12)
	assert.InDelta(t, 0.0, y, 1e-12)

	x, _ = Mollweide(180, 0)
	assert.InDelta(t, -MaxX, x, 1e-12)

	// Longitudes past 180 land on the western half
	xEast, yEast := Mollweide(300, 45)
	xWest, yWest := Mollweide(-60, 45)
	assert.InDelta(t, xWest, xEast, 1e-12)
	assert.InDelta(t, yWest, yEast, 1e-12)
	assert.Less(t, xEast, 0.0)
}

func TestMollweideSymmetry(t *testing.T) {
	for _, lat := range []float64{5, 30, 45, 60, 85, 89.9} {
		xn, yn := Mollweide(40, lat)
		xs, ys := Mollweide(40, -lat)
		assert.InDelta(t, xn, xs, 1e-12)
		assert.InDelta(t, -yn, ys, 1e-12)
		assert.LessOrEqual(t, yn, MaxY)
	}
}

func TestAuxiliaryAngleSolvesEquation(t *testing.T) {
	for _, lat := range []float64{-89.99, -60, -10, 0, 10, 45, 75, 89.99} {
		phi := lat * math.Pi / 180
		theta := auxiliaryAngle(phi)
		residual := 2*theta + math.Sin(2*theta) - math.Pi*math.Sin(phi)
		assert.InDelta(t, 0.0, residual, 1e-9, "latitude %v", lat)
	}
}

func TestGraticule(t *testing.T) {
	lines := Graticule()
	require.Len(t, lines, 12)

	// Equator spans the full map width
	equator := lines[2]
	assert.InDelta(t, -MaxX, equator[0].X, 1e-12)
	assert.InDelta(t, MaxX, equator[len(equator)-1].X, 1e-12)
	assert.InDelta(t, 0.0, equator[0].Y, 1e-12)

	// Central meridian runs pole to pole
	central := lines[5+3]
	assert.InDelta(t, -MaxY, central[0].Y, 1e-12)
	assert.InDelta(t, MaxY, central[len(central)-1].Y, 1e-12)
}

func TestProjectLineSplitsAtAntimeridian(t *testing.T) {
	line := []models.Location{
		{Lat: 0, Lon: 170}, {Lat: 1, Lon: 175}, {Lat: 2, Lon: 185}, {Lat: 3, Lon: 190},
	}
	parts := projectLine(line)
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 2)
	assert.Len(t, parts[1], 2)
	assert.Greater(t, parts[0][0].X, 0.0)
	assert.Less(t, parts[1][0].X, 0.0)
}

func TestPartitionBySign(t *testing.T) {
	points := []models.Point{
		{Latitude: 0, Longitude: 0, Sign: 1},
		{Latitude: 10, Longitude: 20, Sign: -1},
		{Latitude: 20, Longitude: 40, Sign: 1},
		{Latitude: 30, Longitude: 60, Sign: 0},
	}
	pos, neg := partitionBySign(points)
	assert.Len(t, pos, 2)
	assert.Len(t, neg, 2)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "points_globe.png", OutputName("points_globe.txt"))
	assert.Equal(t, "points__depth-2000km__dist-1100km.png", OutputName("/data/points__depth-2000km__dist-1100km.txt"))
	assert.Equal(t, "grid.png", OutputName("dir/grid.v2.txt"))
	assert.Equal(t, "grid.png", OutputName("grid"))
}

func writeTestShapefile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coast.shp")

	w, err := shp.Create(path, shp.POLYLINE)
	require.NoError(t, err)
	w.Write(shp.NewPolyLine([][]shp.Point{
		{{X: -10, Y: 50}, {X: 0, Y: 52}, {X: 10, Y: 55}},
		{{X: 170, Y: -40}, {X: -170, Y: -42}},
	}))
	w.Close()
	return path
}

func TestLoadCoastlines(t *testing.T) {
	lines, err := LoadCoastlines(writeTestShapefile(t))
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, []models.Location{{Lat: 50, Lon: -10}, {Lat: 52, Lon: 0}, {Lat: 55, Lon: 10}}, lines[0])
	assert.Len(t, lines[1], 2)

	_, err = LoadCoastlines(filepath.Join(t.TempDir(), "missing.shp"))
	assert.Error(t, err)
}

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Width = 4 * vg.Inch
	opts.Height = 2 * vg.Inch
	opts.MarkerRadius = vg.Points(1)
	return opts
}

func TestRender(t *testing.T) {
	layout, err := grid.NewGenerator(nil).PointsAtDepth(2000, 1100, 100, 100)
	require.NoError(t, err)

	opts := smallOptions()
	opts.Coastlines = writeTestShapefile(t)
	p, err := Render(layout.Points, opts)
	require.NoError(t, err)
	assert.Equal(t, -MaxX, p.X.Min)
	assert.Equal(t, MaxY, p.Y.Max)

	opts.Coastlines = filepath.Join(t.TempDir(), "missing.shp")
	_, err = Render(layout.Points, opts)
	assert.Error(t, err)
}

func TestPlotFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "pts.txt")

	layout, err := grid.NewGenerator(nil).PointsAtDepth(2000, 1100, 100, 100)
	require.NoError(t, err)
	require.NoError(t, pointfile.WriteFile(input, layout.Points))

	out, err := PlotFile(input, dir, smallOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pts.png"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestPlotFileBadInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(input, []byte("3\nheader\n0 0 0 1 0 0\n"), 0644))

	_, err := PlotFile(input, dir, smallOptions(), nil)
	assert.ErrorIs(t, err, pointfile.ErrCountMismatch)

	_, statErr := os.Stat(filepath.Join(dir, "bad.png"))
	assert.True(t, os.IsNotExist(statErr))
}
