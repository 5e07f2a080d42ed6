// Package export converts point sets to formats other tools can load.
package export

import (
	"fmt"
	"os"

	"github.com/1F47E/psf-grid/pkg/geodesy"
	"github.com/1F47E/psf-grid/pkg/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection builds one Point feature per point. Longitudes are
// wrapped into [-180, 180) as GeoJSON expects.
func FeatureCollection(points []models.Point) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewFeature(orb.Point{geodesy.WrapLongitude(p.Longitude), p.Latitude})
		f.Properties["depth"] = p.Depth
		f.Properties["sign"] = p.Sign
		f.Properties["sigma_h"] = p.SigmaH
		f.Properties["sigma_v"] = p.SigmaV
		fc.Append(f)
	}
	return fc
}

// GeoJSON encodes points as a GeoJSON FeatureCollection.
func GeoJSON(points []models.Point) ([]byte, error) {
	data, err := FeatureCollection(points).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode geojson: %w", err)
	}
	return data, nil
}

// WriteGeoJSON writes points to the named file as GeoJSON.
func WriteGeoJSON(filename string, points []models.Point) error {
	data, err := GeoJSON(points)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
