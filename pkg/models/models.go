package models

// Location represents a geographic location with latitude and longitude
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point is a single point source of a synthetic grid.
// Latitude is in [-90, 90], Longitude in [0, 360), Depth and the sigmas in km.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Depth     float64 `json:"depth"`
	Sign      int     `json:"sign"`
	SigmaH    float64 `json:"sigma_h"`
	SigmaV    float64 `json:"sigma_v"`
}

// Location returns the horizontal position of the point
func (p Point) Location() Location {
	return Location{Lat: p.Latitude, Lon: p.Longitude}
}

// BoundingBox represents a rectangular area defined by two corners
type BoundingBox struct {
	BottomLeft Location
	TopRight   Location
}

// Contains reports whether loc lies inside the box, edges included
func (b BoundingBox) Contains(loc Location) bool {
	return loc.Lat >= b.BottomLeft.Lat && loc.Lat <= b.TopRight.Lat &&
		loc.Lon >= b.BottomLeft.Lon && loc.Lon <= b.TopRight.Lon
}
