// Package grid lays out near-uniform rings of point sources on spherical
// shells below the Earth's surface.
package grid

import (
	"math"

	"github.com/1F47E/psf-grid/pkg/geodesy"
	"github.com/1F47E/psf-grid/pkg/models"
	"go.uber.org/zap"
)

// latTolerance keeps float noise in i*dlat from adding a ring at a pole.
const latTolerance = 1e-9

// Ring is one circle of points at a fixed latitude.
type Ring struct {
	Index      int // ilat, drives the sign parity of the ring
	Latitude   float64
	Count      int
	DLon       float64
	SpacingDeg float64
	SpacingKm  float64
}

// Layout is the result of laying out one shell.
type Layout struct {
	Depth  float64
	Radius float64
	NLat   int
	DLat   float64
	Rings  []Ring
	Points []models.Point
}

// Generator builds point layouts.
type Generator struct {
	logger      *zap.Logger
	earthRadius float64
}

// NewGenerator returns a generator logging to logger. A nil logger is allowed.
func NewGenerator(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		logger:      logger,
		earthRadius: geodesy.EarthRadius,
	}
}

// GeneratePoints lays out nlat latitude bands on the shell at depth, spacing
// points along each ring by about distance km. The two poles are appended
// last, south first. Sigma fields are left at zero.
func (g *Generator) GeneratePoints(depth float64, nlat int, distance float64) (*Layout, error) {
	r, err := g.shellRadius(depth)
	if err != nil {
		return nil, err
	}
	if err := checkDistance(distance); err != nil {
		return nil, err
	}
	if nlat < 3 {
		return nil, configErr("nlat", nlat, ErrTooFewLatitudes)
	}

	dlat := 180.0 / float64(nlat-1)
	g.logger.Sugar().Debugf("dlat: %.4f", dlat)

	layout := &Layout{
		Depth:  depth,
		Radius: r,
		NLat:   nlat,
		DLat:   dlat,
	}

	northern := int(math.Ceil(90/dlat - latTolerance))
	for i := 0; i < northern; i++ {
		if err := g.appendRing(layout, float64(i)*dlat, distance, i); err != nil {
			return nil, err
		}
	}
	for i := 0; i < northern-1; i++ {
		if err := g.appendRing(layout, -float64(i+1)*dlat, distance, i+1); err != nil {
			return nil, err
		}
	}
	g.logger.Sugar().Debugf("ring points: %d", len(layout.Points))

	sign := PoleSign(nlat)
	layout.Points = append(layout.Points,
		models.Point{Latitude: -90, Longitude: 0, Sign: sign},
		models.Point{Latitude: 90, Longitude: 0, Sign: sign},
	)

	for i := range layout.Points {
		layout.Points[i].Depth = depth
	}
	return layout, nil
}

func (g *Generator) appendRing(layout *Layout, lat, distance float64, ilat int) error {
	ring, err := g.ring(layout.Radius, lat, distance, ilat)
	if err != nil {
		return err
	}
	g.logger.Sugar().Debugf("r=%8.2fkm | latitude=%8.2f | npts=%5d | dlon = %5.2f | p2p distance=%8.2f (%8.2fkm)",
		layout.Radius, lat, ring.Count, ring.DLon, ring.SpacingDeg, ring.SpacingKm)

	layout.Rings = append(layout.Rings, ring)
	for ilon := 0; ilon < ring.Count; ilon++ {
		layout.Points = append(layout.Points, models.Point{
			Latitude:  lat,
			Longitude: ring.DLon * float64(ilon),
			Sign:      parity(ilon + ilat),
		})
	}
	return nil
}

func (g *Generator) ring(r, lat, distance float64, ilat int) (Ring, error) {
	r0 := r * math.Cos(geodesy.Rad(lat))
	circle := 2 * math.Pi * r0
	npts := RingCount(circle, distance)
	if npts <= 0 {
		return Ring{}, configErr("latitude", lat, ErrRingTooCoarse)
	}
	dlon := 360.0 / float64(npts)
	realDeg := geodesy.LocationsToDegrees(lat, 0, lat, dlon)

	return Ring{
		Index:      ilat,
		Latitude:   lat,
		Count:      npts,
		DLon:       dlon,
		SpacingDeg: realDeg,
		SpacingKm:  geodesy.DegreesToKilometers(realDeg, r),
	}, nil
}

// PointsAtDepth picks an odd number of latitude bands so that the meridian
// spacing approximates distance, lays out the shell at depth and attaches
// the uncertainties to every point.
func (g *Generator) PointsAtDepth(depth, distance, sigmaH, sigmaV float64) (*Layout, error) {
	r, err := g.shellRadius(depth)
	if err != nil {
		return nil, err
	}
	if err := checkDistance(distance); err != nil {
		return nil, err
	}
	if err := checkSigmas(sigmaH, sigmaV); err != nil {
		return nil, err
	}

	fullCircle := 2 * math.Pi * r
	g.logger.Sugar().Debugf("full circle: %.2f km", fullCircle)
	nlat := LatitudeBands(fullCircle, distance)
	if nlat > 0 {
		g.logger.Sugar().Debugf("number of latitude points: %d (%.2f km)", nlat, fullCircle/2/float64(nlat))
	}

	layout, err := g.GeneratePoints(depth, nlat, distance)
	if err != nil {
		return nil, err
	}
	for i := range layout.Points {
		layout.Points[i].SigmaH = sigmaH
		layout.Points[i].SigmaV = sigmaV
	}

	g.logger.Info("generated shell",
		zap.Float64("depth", depth),
		zap.Int("nlat", nlat),
		zap.Int("npts", len(layout.Points)),
	)
	return layout, nil
}

// Globe lays out the shell at the reference depth and replicates it to
// every target depth.
func (g *Generator) Globe(cfg Config) ([]models.Point, error) {
	if err := cfg.ValidateGlobe(); err != nil {
		return nil, err
	}
	layout, err := g.PointsAtDepth(cfg.ReferenceDepth, cfg.Distance, cfg.SigmaH, cfg.SigmaV)
	if err != nil {
		return nil, err
	}
	points, err := ReplicateDepths(layout.Points, cfg.Depths)
	if err != nil {
		return nil, err
	}
	g.logger.Info("replicated layout", zap.Int("layers", len(cfg.Depths)), zap.Int("total", len(points)))
	return points, nil
}

// ReplicateDepths copies base once per depth, flipping every sign on odd
// layers, and concatenates the layers in order. base is not modified.
// Each depth must lie above the centre of the Earth and appear only once.
func ReplicateDepths(base []models.Point, depths []float64) ([]models.Point, error) {
	if err := checkDepths(depths); err != nil {
		return nil, err
	}

	results := make([]models.Point, 0, len(base)*len(depths))
	for idep, dep := range depths {
		flip := parity(idep)
		for _, p := range base {
			p.Depth = dep
			p.Sign *= flip
			results = append(results, p)
		}
	}
	return results, nil
}

// RingCount returns the number of points that fit on a circle of the given
// circumference at the given spacing, rounded down to an even number.
func RingCount(circumference, distance float64) int {
	npts := int(circumference / distance)
	if npts%2 != 0 {
		npts--
	}
	return npts
}

// LatitudeBands returns the odd number of latitude bands whose meridian
// spacing approximates distance on a circle of the given circumference.
func LatitudeBands(circumference, distance float64) int {
	nlat := int(circumference / 2 / distance)
	if nlat%2 == 0 {
		nlat--
	}
	return nlat
}

// PoleSign is the sign shared by both pole points: -(-1)^ceil((nlat+1)/2).
func PoleSign(nlat int) int {
	return -parity((nlat + 2) / 2)
}

func (g *Generator) shellRadius(depth float64) (float64, error) {
	if err := checkDepth("depth", depth); err != nil {
		return 0, err
	}
	return g.earthRadius - depth, nil
}

// parity returns (-1)^n.
func parity(n int) int {
	if n%2 == 0 {
		return 1
	}
	return -1
}
