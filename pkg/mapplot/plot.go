// Package mapplot draws point sets on a Mollweide world map.
package mapplot

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/1F47E/psf-grid/pkg/models"
	"github.com/1F47E/psf-grid/pkg/pointfile"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	positiveColor  = color.RGBA{R: 255, A: 255}
	negativeColor  = color.RGBA{B: 255, A: 255}
	graticuleColor = color.Gray{Y: 128}
	coastColor     = color.Black
)

// Options controls the rendered figure.
type Options struct {
	// Coastlines is an optional shapefile drawn under the points.
	Coastlines   string
	Title        string
	Width        vg.Length
	Height       vg.Length
	MarkerRadius vg.Length
}

// DefaultOptions returns a 20x10 inch figure.
func DefaultOptions() Options {
	return Options{
		Width:        20 * vg.Inch,
		Height:       10 * vg.Inch,
		MarkerRadius: vg.Points(3.5),
	}
}

// OutputName derives the image name from the point file name.
func OutputName(input string) string {
	base := filepath.Base(input)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base + ".png"
}

// partitionBySign projects the points, splitting sign == 1 from the rest.
func partitionBySign(points []models.Point) (positive, negative plotter.XYs) {
	for _, p := range points {
		x, y := Mollweide(p.Longitude, p.Latitude)
		if p.Sign == 1 {
			positive = append(positive, plotter.XY{X: x, Y: y})
		} else {
			negative = append(negative, plotter.XY{X: x, Y: y})
		}
	}
	return positive, negative
}

// Render builds the map figure for points.
func Render(points []models.Point, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.HideAxes()

	for _, xys := range Graticule() {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to draw graticule: %w", err)
		}
		line.LineStyle.Color = graticuleColor
		line.LineStyle.Width = vg.Points(0.5)
		p.Add(line)
	}

	if opts.Coastlines != "" {
		coasts, err := LoadCoastlines(opts.Coastlines)
		if err != nil {
			return nil, err
		}
		for _, coast := range coasts {
			for _, xys := range projectLine(coast) {
				line, err := plotter.NewLine(xys)
				if err != nil {
					return nil, fmt.Errorf("failed to draw coastline: %w", err)
				}
				line.LineStyle.Color = coastColor
				line.LineStyle.Width = vg.Points(0.75)
				p.Add(line)
			}
		}
	}

	positive, negative := partitionBySign(points)
	for _, group := range []struct {
		xys   plotter.XYs
		color color.Color
		label string
	}{
		{positive, positiveColor, "sign +1"},
		{negative, negativeColor, "sign -1"},
	} {
		if len(group.xys) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(group.xys)
		if err != nil {
			return nil, fmt.Errorf("failed to draw points: %w", err)
		}
		scatter.GlyphStyle.Color = group.color
		scatter.GlyphStyle.Radius = opts.MarkerRadius
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
		p.Legend.Add(group.label, scatter)
	}

	p.X.Min, p.X.Max = -MaxX, MaxX
	p.Y.Min, p.Y.Max = -MaxY, MaxY
	return p, nil
}

// PlotFile loads a point file, renders it and saves the image in outDir.
// It returns the path of the written image.
func PlotFile(input, outDir string, opts Options, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("input file", zap.String("path", input))

	points, err := pointfile.ReadFile(input)
	if err != nil {
		return "", err
	}

	p, err := Render(points, opts)
	if err != nil {
		return "", err
	}

	output := filepath.Join(outDir, OutputName(input))
	logger.Info("save figure", zap.String("path", output), zap.Int("points", len(points)))
	if err := p.Save(opts.Width, opts.Height, output); err != nil {
		return "", fmt.Errorf("failed to save figure: %w", err)
	}
	return output, nil
}
